package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	path    string
	headers http.Header
	body    map[string]any
}

func upstream(t *testing.T, status int, reply string) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.path = r.URL.Path
		c.headers = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&c.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func TestComplete_OpenAI(t *testing.T) {
	srv, got := upstream(t, http.StatusOK, `{"model":"gpt-4o-mini-2024","choices":[{"message":{"content":"Sales are up"}}],"usage":{"prompt_tokens":12,"completion_tokens":3}}`)
	c, err := NewClient(Config{Provider: "openai", APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	comp, err := c.Complete(context.Background(), Request{System: "be brief", Prompt: "summarise", MaxTokens: 64, Temperature: 0.2})

	require.NoError(t, err)
	assert.Equal(t, "Sales are up", comp.Text)
	assert.Equal(t, "gpt-4o-mini-2024", comp.Model)
	assert.Equal(t, int64(12), comp.InputTokens)
	assert.Equal(t, int64(3), comp.OutputTokens)

	assert.Equal(t, "/v1/chat/completions", got.path)
	assert.Equal(t, "Bearer sk-test", got.headers.Get("Authorization"))
	assert.Equal(t, "gpt-4o-mini", got.body["model"])
	messages := got.body["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
}

func TestComplete_Anthropic(t *testing.T) {
	srv, got := upstream(t, http.StatusOK, `{"model":"claude-x","content":[{"type":"text","text":"Hello "},{"type":"text","text":"there"}],"usage":{"input_tokens":5,"output_tokens":2}}`)
	c, err := NewClient(Config{Provider: "anthropic", APIKey: "sk-ant", BaseURL: srv.URL, Model: "claude-x"})
	require.NoError(t, err)

	comp, err := c.Complete(context.Background(), Request{System: "sys", Prompt: "hi"})

	require.NoError(t, err)
	assert.Equal(t, "Hello there", comp.Text)
	assert.Equal(t, "/v1/messages", got.path)
	assert.Equal(t, "sk-ant", got.headers.Get("x-api-key"))
	assert.Equal(t, anthropicVersion, got.headers.Get("anthropic-version"))
	assert.Equal(t, "sys", got.body["system"])
	assert.EqualValues(t, 512, got.body["max_tokens"])
}

func TestComplete_Gemini(t *testing.T) {
	srv, got := upstream(t, http.StatusOK, `{"modelVersion":"gemini-1.5-flash-002","candidates":[{"content":{"parts":[{"text":"Insight"}]}}],"usageMetadata":{"promptTokenCount":7,"candidatesTokenCount":1}}`)
	c, err := NewClient(Config{Provider: "gemini", APIKey: "AIza", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	comp, err := c.Complete(context.Background(), Request{Prompt: "hi"})

	require.NoError(t, err)
	assert.Equal(t, "Insight", comp.Text)
	assert.Equal(t, "gemini-1.5-flash-002", comp.Model)
	assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", got.path)
	assert.Equal(t, "AIza", got.headers.Get("x-goog-api-key"))
	assert.NotContains(t, got.body, "systemInstruction")
}

func TestComplete_NoKeySkipsAuth(t *testing.T) {
	srv, got := upstream(t, http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`)
	c, err := NewClient(Config{Provider: "ollama", BaseURL: srv.URL})
	require.NoError(t, err)

	comp, err := c.Complete(context.Background(), Request{Prompt: "hi"})

	require.NoError(t, err)
	assert.Empty(t, got.headers.Get("Authorization"))
	assert.Equal(t, "llama3.1", comp.Model)
}

func TestComplete_Errors(t *testing.T) {
	t.Run("non-2xx includes status", func(t *testing.T) {
		srv, _ := upstream(t, http.StatusTooManyRequests, `{"error":"slow down"}`)
		c, _ := NewClient(Config{Provider: "openai", BaseURL: srv.URL})

		_, err := c.Complete(context.Background(), Request{Prompt: "hi"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("empty completion", func(t *testing.T) {
		srv, _ := upstream(t, http.StatusOK, `{"choices":[{"message":{"content":"  "}}]}`)
		c, _ := NewClient(Config{Provider: "openai", BaseURL: srv.URL})

		_, err := c.Complete(context.Background(), Request{Prompt: "hi"})

		assert.ErrorIs(t, err, ErrEmptyCompletion)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv, _ := upstream(t, http.StatusOK, `not json`)
		c, _ := NewClient(Config{Provider: "openai", BaseURL: srv.URL})

		_, err := c.Complete(context.Background(), Request{Prompt: "hi"})

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrEmptyCompletion)
	})
}

func TestNewClient_UnknownProvider(t *testing.T) {
	_, err := NewClient(Config{Provider: "nope"})

	assert.ErrorIs(t, err, ErrUnknownProvider)
}
