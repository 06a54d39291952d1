package llm

import "testing"

func TestGet(t *testing.T) {
	tests := []struct {
		name         string
		providerName string
		wantOK       bool
		wantURL      string
	}{
		{"anthropic", "anthropic", true, "https://api.anthropic.com"},
		{"case insensitive", "OpenAI", true, "https://api.openai.com"},
		{"gemini alias", "gemini", true, "https://generativelanguage.googleapis.com"},
		{"unknown provider", "unknown", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Get(tt.providerName)
			if ok != tt.wantOK {
				t.Errorf("Get() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && p.UpstreamURL != tt.wantURL {
				t.Errorf("Get() URL = %s, want %s", p.UpstreamURL, tt.wantURL)
			}
		})
	}
}

func TestAuthHeader(t *testing.T) {
	tests := []struct {
		name       string
		provider   Provider
		wantHeader string
		wantValue  string
	}{
		{"bearer", Provider{AuthStyle: AuthBearer}, "Authorization", "Bearer k"},
		{"x-api-key", Provider{AuthStyle: AuthXAPIKey}, "x-api-key", "k"},
		{"x-goog-api-key", Provider{AuthStyle: AuthGoogAPIKey}, "x-goog-api-key", "k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, v := tt.provider.AuthHeader("k")
			if h != tt.wantHeader || v != tt.wantValue {
				t.Errorf("AuthHeader() = %s: %s, want %s: %s", h, v, tt.wantHeader, tt.wantValue)
			}
		})
	}
}

func TestNames(t *testing.T) {
	if len(Names()) != len(registry) {
		t.Fatalf("Names() returned %d entries, want %d", len(Names()), len(registry))
	}
}
