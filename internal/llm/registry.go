package llm

import "strings"

type AuthStyle int

const (
	AuthBearer     AuthStyle = iota // Authorization: Bearer <key>
	AuthXAPIKey                     // x-api-key: <key>
	AuthGoogAPIKey                  // x-goog-api-key: <key>
)

// Wire formats understood by Client.
const (
	FormatOpenAI    = "openai"
	FormatAnthropic = "anthropic"
	FormatGemini    = "gemini"
)

type Provider struct {
	Name         string
	UpstreamURL  string // e.g. "https://api.anthropic.com"
	AuthStyle    AuthStyle
	Format       string
	DefaultModel string
}

var registry = map[string]Provider{
	"anthropic": {
		Name:         "anthropic",
		UpstreamURL:  "https://api.anthropic.com",
		AuthStyle:    AuthXAPIKey,
		Format:       FormatAnthropic,
		DefaultModel: "claude-3-5-haiku-latest",
	},
	"openai": {
		Name:         "openai",
		UpstreamURL:  "https://api.openai.com",
		AuthStyle:    AuthBearer,
		Format:       FormatOpenAI,
		DefaultModel: "gpt-4o-mini",
	},
	"google": {
		Name:         "google",
		UpstreamURL:  "https://generativelanguage.googleapis.com",
		AuthStyle:    AuthGoogAPIKey,
		Format:       FormatGemini,
		DefaultModel: "gemini-1.5-flash",
	},
	"mistral": {
		Name:         "mistral",
		UpstreamURL:  "https://api.mistral.ai",
		AuthStyle:    AuthBearer,
		Format:       FormatOpenAI,
		DefaultModel: "mistral-small-latest",
	},
	"groq": {
		Name:         "groq",
		UpstreamURL:  "https://api.groq.com/openai",
		AuthStyle:    AuthBearer,
		Format:       FormatOpenAI,
		DefaultModel: "llama-3.1-8b-instant",
	},
	"deepseek": {
		Name:         "deepseek",
		UpstreamURL:  "https://api.deepseek.com",
		AuthStyle:    AuthBearer,
		Format:       FormatOpenAI,
		DefaultModel: "deepseek-chat",
	},
	"openrouter": {
		Name:         "openrouter",
		UpstreamURL:  "https://openrouter.ai/api",
		AuthStyle:    AuthBearer,
		Format:       FormatOpenAI,
		DefaultModel: "openai/gpt-4o-mini",
	},
	"ollama": {
		Name:         "ollama",
		UpstreamURL:  "http://localhost:11434",
		AuthStyle:    AuthBearer,
		Format:       FormatOpenAI,
		DefaultModel: "llama3.1",
	},
}

var aliases = map[string]string{
	"gemini": "google",
	"claude": "anthropic",
}

// Get looks a provider up by name or alias, case-insensitively.
func Get(name string) (Provider, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	p, ok := registry[key]
	return p, ok
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// AuthHeader returns the header carrying key for this provider.
func (p Provider) AuthHeader(key string) (headerName, headerValue string) {
	switch p.AuthStyle {
	case AuthXAPIKey:
		return "x-api-key", key
	case AuthGoogAPIKey:
		return "x-goog-api-key", key
	default:
		return "Authorization", "Bearer " + key
	}
}
