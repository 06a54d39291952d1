package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/llm"
	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
	"golang.org/x/time/rate"
)

var (
	ErrUnknownKind      = errors.New("unknown insight kind")
	ErrUnparseableReply = errors.New("model reply has no usable content")
)

// Generator turns facts into an insight of the given kind. ID and
// GeneratedAt are left for the caller to fill.
type Generator interface {
	Generate(ctx context.Context, kind string, facts Facts) (models.Insight, error)
}

type Completer interface {
	Complete(ctx context.Context, req llm.Request) (llm.Completion, error)
	Provider() string
}

type AIConfig struct {
	Timeout       time.Duration
	MaxTokens     int
	Temperature   float64
	RatePerMinute int
}

type AIGenerator struct {
	client  Completer
	limiter *rate.Limiter
	cfg     AIConfig
}

func NewAIGenerator(client Completer, cfg AIConfig) *AIGenerator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.RatePerMinute <= 0 {
		cfg.RatePerMinute = 10
	}
	return &AIGenerator{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), 1),
		cfg:     cfg,
	}
}

func (g *AIGenerator) Generate(ctx context.Context, kind string, facts Facts) (models.Insight, error) {
	if !models.ValidInsightKind(kind) {
		return models.Insight{}, ErrUnknownKind
	}
	prompt, err := renderPrompt(kind, facts)
	if err != nil {
		return models.Insight{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	if err := g.limiter.Wait(ctx); err != nil {
		return models.Insight{}, fmt.Errorf("insight rate limit: %w", err)
	}

	comp, err := g.client.Complete(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      prompt,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return models.Insight{}, err
	}

	title, summary, highlights := parseReply(comp.Text)
	if summary == "" && len(highlights) == 0 {
		return models.Insight{}, ErrUnparseableReply
	}
	if title == "" {
		title = defaultTitle(kind)
	}

	return models.Insight{
		Kind:       kind,
		Title:      title,
		Summary:    summary,
		Highlights: highlights,
		Source:     models.SourceAI,
		Provider:   g.client.Provider(),
		Model:      comp.Model,
	}, nil
}

// parseReply reads the TITLE/SUMMARY/bullet layout requested in the system
// prompt, tolerating markdown decoration and free-form prose.
func parseReply(text string) (title, summary string, highlights []string) {
	highlights = []string{}
	var prose []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
		line = strings.TrimLeft(line, "# ")
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "TITLE:"):
			title = strings.TrimSpace(line[len("TITLE:"):])
		case strings.HasPrefix(upper, "SUMMARY:"):
			prose = append(prose, strings.TrimSpace(line[len("SUMMARY:"):]))
		case isBullet(line):
			if h := trimBullet(line); h != "" {
				highlights = append(highlights, h)
			}
		default:
			prose = append(prose, line)
		}
	}

	summary = strings.TrimSpace(strings.Join(prose, " "))
	return title, summary, highlights
}

func isBullet(line string) bool {
	if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") || strings.HasPrefix(line, "• ") {
		return true
	}
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i > 0 && i < len(line)-1 && (line[i] == '.' || line[i] == ')') && line[i+1] == ' '
}

func trimBullet(line string) string {
	for _, prefix := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):])
		}
	}
	i := strings.IndexAny(line, ".)")
	return strings.TrimSpace(line[i+1:])
}

func defaultTitle(kind string) string {
	switch kind {
	case models.InsightOverview:
		return "Business overview"
	case models.InsightSales:
		return "Sales trends"
	case models.InsightCustomers:
		return "Customer behaviour"
	case models.InsightProducts:
		return "Product performance"
	default:
		return "Insight"
	}
}

// FallbackGenerator fills fixed templates from the facts. It never calls out
// and always succeeds for known kinds.
type FallbackGenerator struct{}

func (FallbackGenerator) Generate(_ context.Context, kind string, facts Facts) (models.Insight, error) {
	ft, ok := fallbacks[kind]
	if !ok {
		return models.Insight{}, ErrUnknownKind
	}

	title, err := execute(ft.title, facts)
	if err != nil {
		return models.Insight{}, err
	}
	summary, err := execute(ft.summary, facts)
	if err != nil {
		return models.Insight{}, err
	}

	highlights := []string{}
	for _, t := range ft.highlights {
		h, err := execute(t, facts)
		if err != nil {
			return models.Insight{}, err
		}
		if h != "" {
			highlights = append(highlights, h)
		}
	}

	return models.Insight{
		Kind:       kind,
		Title:      title,
		Summary:    summary,
		Highlights: highlights,
		Source:     models.SourceFallback,
	}, nil
}
