// Package llm is a minimal non-streaming completion client for the hosted
// model providers the insight generator can talk to.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrUnknownProvider = errors.New("unknown llm provider")
	ErrEmptyCompletion = errors.New("llm returned an empty completion")
)

const anthropicVersion = "2023-06-01"

type Config struct {
	Provider   string
	Model      string
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

type Completion struct {
	Text         string
	Model        string
	InputTokens  int64
	OutputTokens int64
}

type Client struct {
	provider Provider
	model    string
	apiKey   string
	baseURL  string
	http     *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	p, ok := Get(cfg.Provider)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	baseURL := p.UpstreamURL
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = p.DefaultModel
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		provider: p,
		model:    model,
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     hc,
	}, nil
}

func (c *Client) Provider() string { return c.provider.Name }
func (c *Client) Model() string    { return c.model }

// Complete sends a single-turn prompt and returns the model's text reply.
func (c *Client) Complete(ctx context.Context, req Request) (Completion, error) {
	if req.MaxTokens <= 0 {
		req.MaxTokens = 512
	}

	path, body := c.buildRequest(req)
	payload, err := json.Marshal(body)
	if err != nil {
		return Completion{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return Completion{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		name, value := c.provider.AuthHeader(c.apiKey)
		httpReq.Header.Set(name, value)
	}
	if c.provider.Format == FormatAnthropic {
		httpReq.Header.Set("anthropic-version", anthropicVersion)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Completion{}, fmt.Errorf("%s request: %w", c.provider.Name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Completion{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Completion{}, fmt.Errorf("%s returned HTTP %d: %s", c.provider.Name, resp.StatusCode, truncate(string(raw), 200))
	}

	comp, err := c.parseResponse(raw)
	if err != nil {
		return Completion{}, fmt.Errorf("decode %s response: %w", c.provider.Name, err)
	}
	if strings.TrimSpace(comp.Text) == "" {
		return Completion{}, ErrEmptyCompletion
	}
	if comp.Model == "" {
		comp.Model = c.model
	}
	return comp, nil
}

func (c *Client) buildRequest(req Request) (string, any) {
	switch c.provider.Format {
	case FormatAnthropic:
		body := map[string]any{
			"model":       c.model,
			"max_tokens":  req.MaxTokens,
			"temperature": req.Temperature,
			"messages":    []map[string]string{{"role": "user", "content": req.Prompt}},
		}
		if req.System != "" {
			body["system"] = req.System
		}
		return "/v1/messages", body

	case FormatGemini:
		body := map[string]any{
			"contents": []map[string]any{{
				"role":  "user",
				"parts": []map[string]string{{"text": req.Prompt}},
			}},
			"generationConfig": map[string]any{
				"maxOutputTokens": req.MaxTokens,
				"temperature":     req.Temperature,
			},
		}
		if req.System != "" {
			body["systemInstruction"] = map[string]any{
				"parts": []map[string]string{{"text": req.System}},
			}
		}
		return "/v1beta/models/" + c.model + ":generateContent", body

	default:
		messages := []map[string]string{}
		if req.System != "" {
			messages = append(messages, map[string]string{"role": "system", "content": req.System})
		}
		messages = append(messages, map[string]string{"role": "user", "content": req.Prompt})
		return "/v1/chat/completions", map[string]any{
			"model":       c.model,
			"max_tokens":  req.MaxTokens,
			"temperature": req.Temperature,
			"messages":    messages,
		}
	}
}

func (c *Client) parseResponse(raw []byte) (Completion, error) {
	switch c.provider.Format {
	case FormatAnthropic:
		var resp struct {
			Model   string `json:"model"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
			Usage struct {
				InputTokens  int64 `json:"input_tokens"`
				OutputTokens int64 `json:"output_tokens"`
			} `json:"usage"`
		}
		if err := json.Unmarshal(raw, &resp); err != nil {
			return Completion{}, err
		}
		var sb strings.Builder
		for _, block := range resp.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		return Completion{Text: sb.String(), Model: resp.Model, InputTokens: resp.Usage.InputTokens, OutputTokens: resp.Usage.OutputTokens}, nil

	case FormatGemini:
		var resp struct {
			ModelVersion string `json:"modelVersion"`
			Candidates   []struct {
				Content struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"content"`
			} `json:"candidates"`
			UsageMetadata struct {
				PromptTokenCount     int64 `json:"promptTokenCount"`
				CandidatesTokenCount int64 `json:"candidatesTokenCount"`
			} `json:"usageMetadata"`
		}
		if err := json.Unmarshal(raw, &resp); err != nil {
			return Completion{}, err
		}
		var sb strings.Builder
		if len(resp.Candidates) > 0 {
			for _, part := range resp.Candidates[0].Content.Parts {
				sb.WriteString(part.Text)
			}
		}
		return Completion{Text: sb.String(), Model: resp.ModelVersion, InputTokens: resp.UsageMetadata.PromptTokenCount, OutputTokens: resp.UsageMetadata.CandidatesTokenCount}, nil

	default:
		var resp struct {
			Model   string `json:"model"`
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
			Usage struct {
				PromptTokens     int64 `json:"prompt_tokens"`
				CompletionTokens int64 `json:"completion_tokens"`
			} `json:"usage"`
		}
		if err := json.Unmarshal(raw, &resp); err != nil {
			return Completion{}, err
		}
		text := ""
		if len(resp.Choices) > 0 {
			text = resp.Choices[0].Message.Content
		}
		return Completion{Text: text, Model: resp.Model, InputTokens: resp.Usage.PromptTokens, OutputTokens: resp.Usage.CompletionTokens}, nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
