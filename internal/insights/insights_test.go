package insights

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/analytics"
	"github.com/rogerio-castellano/wabot-dashboard/internal/backend"
	"github.com/rogerio-castellano/wabot-dashboard/internal/cache"
	"github.com/rogerio-castellano/wabot-dashboard/internal/format"
	"github.com/rogerio-castellano/wabot-dashboard/internal/llm"
	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
	"github.com/rogerio-castellano/wabot-dashboard/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func dataset() analytics.Dataset {
	return analytics.Dataset{
		Users: []models.User{
			{ID: "u1", Name: "Ana", CreatedAt: now.AddDate(0, 0, -3), IsActive: true},
			{ID: "u2", Name: "Budi", CreatedAt: now.AddDate(0, -2, 0), IsActive: true},
		},
		Products: []models.Product{
			{ID: "p1", Name: "Kopi", Price: 25000, Stock: 40},
			{ID: "p2", Name: "Teh", Price: 15000, Stock: 2},
		},
		Transactions: []models.Transaction{
			{ID: "t1", UserID: "u1", CustomerName: "Ana", ProductID: "p1", Quantity: 2, Amount: 50000, Status: models.StatusCompleted, CreatedAt: now.AddDate(0, 0, -1)},
			{ID: "t2", UserID: "u1", CustomerName: "Ana", ProductID: "p2", Quantity: 1, Amount: 15000, Status: models.StatusCompleted, CreatedAt: now.AddDate(0, -1, 0)},
			{ID: "t3", UserID: "u2", CustomerName: "Budi", ProductID: "p1", Quantity: 1, Amount: 25000, Status: models.StatusPending, CreatedAt: now.AddDate(0, 0, -2)},
		},
	}
}

func facts() Facts {
	return BuildFacts(dataset(), now, format.New("IDR", "id"))
}

func TestBuildFacts(t *testing.T) {
	f := facts()

	assert.Equal(t, 2, f.TotalCustomers)
	assert.Equal(t, 1, f.RepeatCustomers)
	assert.True(t, f.HasGrowth)
	assert.True(t, f.Growing)
	assert.Contains(t, f.RevenueThisMonth, "50.000")
	require.Len(t, f.TopProducts, 2)
	assert.Equal(t, "Kopi", f.TopProducts[0].Name)
	require.Len(t, f.TopCustomers, 1)
	assert.Equal(t, "Ana", f.TopCustomers[0].Name)
	require.Len(t, f.LowStock, 1)
	assert.Equal(t, StockFact{Name: "Teh", Stock: 2}, f.LowStock[0])
	require.NotNil(t, f.BestMonth)
	assert.Equal(t, "Mar 2024", f.BestMonth.Label)
	assert.Len(t, f.Months, 2)
}

func TestRenderPrompt(t *testing.T) {
	f := facts()
	for _, kind := range models.InsightKinds {
		t.Run(kind, func(t *testing.T) {
			prompt, err := renderPrompt(kind, f)
			require.NoError(t, err)
			assert.NotEmpty(t, prompt)
		})
	}

	prompt, _ := renderPrompt(models.InsightProducts, f)
	assert.Contains(t, prompt, "Kopi: 2 units")
	assert.Contains(t, prompt, "Teh: 2 left")
}

func TestFallbackGenerator(t *testing.T) {
	for _, kind := range models.InsightKinds {
		t.Run(kind, func(t *testing.T) {
			in, err := FallbackGenerator{}.Generate(context.Background(), kind, facts())

			require.NoError(t, err)
			assert.Equal(t, kind, in.Kind)
			assert.Equal(t, models.SourceFallback, in.Source)
			assert.NotEmpty(t, in.Title)
			assert.NotEmpty(t, in.Summary)
			assert.NotEmpty(t, in.Highlights)
		})
	}
}

func TestFallbackGenerator_EmptyData(t *testing.T) {
	empty := BuildFacts(analytics.Dataset{}, now, format.New("IDR", "id"))

	for _, kind := range models.InsightKinds {
		in, err := FallbackGenerator{}.Generate(context.Background(), kind, empty)
		require.NoError(t, err, kind)
		assert.NotEmpty(t, in.Title, kind)
		for _, h := range in.Highlights {
			assert.NotEmpty(t, h)
		}
	}
}

func TestFallbackGenerator_Content(t *testing.T) {
	in, err := FallbackGenerator{}.Generate(context.Background(), models.InsightProducts, facts())

	require.NoError(t, err)
	assert.Equal(t, "Kopi leads sales", in.Title)
	assert.Contains(t, in.Highlights, "Restock soon: Teh (2)")

	_, err = FallbackGenerator{}.Generate(context.Background(), "weather", facts())
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestFallbackGenerator_ProductTotalsAreNotTruncated(t *testing.T) {
	var ds analytics.Dataset
	for i := range 12 {
		id := fmt.Sprintf("p%d", i)
		ds.Products = append(ds.Products, models.Product{ID: id, Name: "Item " + id, Price: 1000, Stock: 1})
		ds.Transactions = append(ds.Transactions, models.Transaction{
			ID: "t" + id, UserID: "u1", ProductID: id, Quantity: 1, Amount: 1000,
			Status: models.StatusCompleted, CreatedAt: now.AddDate(0, 0, -1),
		})
	}
	f := BuildFacts(ds, now, format.New("IDR", "id"))
	assert.Len(t, f.TopProducts, factsTopN)
	assert.Len(t, f.LowStock, factsLowStock)

	in, err := FallbackGenerator{}.Generate(context.Background(), models.InsightProducts, f)

	require.NoError(t, err)
	assert.Equal(t, "12 products have completed sales. 12 products are low on stock and 0 are sold out.", in.Summary)
}

func TestFallbackGenerator_SalesDecline(t *testing.T) {
	ds := analytics.Dataset{
		Transactions: []models.Transaction{
			{ID: "t1", UserID: "u1", ProductID: "p1", Quantity: 1, Amount: 15000, Status: models.StatusCompleted, CreatedAt: now.AddDate(0, 0, -1)},
			{ID: "t2", UserID: "u1", ProductID: "p1", Quantity: 1, Amount: 50000, Status: models.StatusCompleted, CreatedAt: now.AddDate(0, -1, 0)},
		},
	}
	f := BuildFacts(ds, now, format.New("IDR", "id"))
	require.True(t, f.HasGrowth)
	require.False(t, f.Growing)

	in, err := FallbackGenerator{}.Generate(context.Background(), models.InsightSales, f)

	require.NoError(t, err)
	assert.Equal(t, "Sales are down 70%", in.Title)
}

func TestParseReply(t *testing.T) {
	tests := []struct {
		name           string
		reply          string
		wantTitle      string
		wantSummary    string
		wantHighlights []string
	}{
		{
			name:           "structured",
			reply:          "TITLE: Strong March\nSUMMARY: Revenue grew.\n- Kopi sells best\n- 12 orders pending",
			wantTitle:      "Strong March",
			wantSummary:    "Revenue grew.",
			wantHighlights: []string{"Kopi sells best", "12 orders pending"},
		},
		{
			name:           "markdown decoration",
			reply:          "## **Title:** Quiet week\n\n**Summary:** Few orders.\n1. Restock tea\n2) Push promos",
			wantTitle:      "Quiet week",
			wantSummary:    "Few orders.",
			wantHighlights: []string{"Restock tea", "Push promos"},
		},
		{
			name:           "free prose",
			reply:          "Sales look fine.\nNothing unusual.",
			wantSummary:    "Sales look fine. Nothing unusual.",
			wantHighlights: []string{},
		},
		{
			name:           "numbers are not bullets",
			reply:          "2024 was a good year.",
			wantSummary:    "2024 was a good year.",
			wantHighlights: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, summary, highlights := parseReply(tt.reply)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantSummary, summary)
			assert.Equal(t, tt.wantHighlights, highlights)
		})
	}
}

type fakeCompleter struct {
	reply string
	err   error
	calls atomic.Int32
	last  llm.Request
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (llm.Completion, error) {
	f.calls.Add(1)
	f.last = req
	if f.err != nil {
		return llm.Completion{}, f.err
	}
	return llm.Completion{Text: f.reply, Model: "test-model"}, nil
}

func (f *fakeCompleter) Provider() string { return "fake" }

func TestAIGenerator(t *testing.T) {
	c := &fakeCompleter{reply: "TITLE: Up and up\nSUMMARY: Good month.\n- Kopi leads"}
	g := NewAIGenerator(c, AIConfig{MaxTokens: 300, Temperature: 0.3, RatePerMinute: 600})

	in, err := g.Generate(context.Background(), models.InsightSales, facts())

	require.NoError(t, err)
	assert.Equal(t, "Up and up", in.Title)
	assert.Equal(t, "Good month.", in.Summary)
	assert.Equal(t, []string{"Kopi leads"}, in.Highlights)
	assert.Equal(t, models.SourceAI, in.Source)
	assert.Equal(t, "fake", in.Provider)
	assert.Equal(t, "test-model", in.Model)
	assert.Equal(t, 300, c.last.MaxTokens)
	assert.Equal(t, systemPrompt, c.last.System)
	assert.Contains(t, c.last.Prompt, "Monthly history")
}

func TestAIGenerator_Errors(t *testing.T) {
	t.Run("unknown kind", func(t *testing.T) {
		c := &fakeCompleter{reply: "x"}
		_, err := NewAIGenerator(c, AIConfig{}).Generate(context.Background(), "weather", facts())
		assert.ErrorIs(t, err, ErrUnknownKind)
		assert.Zero(t, c.calls.Load())
	})

	t.Run("title only", func(t *testing.T) {
		c := &fakeCompleter{reply: "TITLE: nothing else"}
		_, err := NewAIGenerator(c, AIConfig{}).Generate(context.Background(), models.InsightSales, facts())
		assert.ErrorIs(t, err, ErrUnparseableReply)
	})

	t.Run("client error", func(t *testing.T) {
		c := &fakeCompleter{err: llm.ErrEmptyCompletion}
		_, err := NewAIGenerator(c, AIConfig{}).Generate(context.Background(), models.InsightSales, facts())
		assert.ErrorIs(t, err, llm.ErrEmptyCompletion)
	})

	t.Run("missing title uses default", func(t *testing.T) {
		c := &fakeCompleter{reply: "Just a summary."}
		in, err := NewAIGenerator(c, AIConfig{}).Generate(context.Background(), models.InsightCustomers, facts())
		require.NoError(t, err)
		assert.Equal(t, "Customer behaviour", in.Title)
	})
}

func TestAIGenerator_RateLimitHonoursTimeout(t *testing.T) {
	c := &fakeCompleter{reply: "SUMMARY: ok"}
	g := NewAIGenerator(c, AIConfig{RatePerMinute: 1, Timeout: 50 * time.Millisecond})

	_, err := g.Generate(context.Background(), models.InsightSales, facts())
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), models.InsightSales, facts())
	require.Error(t, err)
	assert.Equal(t, int32(1), c.calls.Load())
}

func newService(t *testing.T, ai Generator) (*Service, *backend.MemoryClient, *repo.InMemoryInsightRepository, *cache.MemoryStore) {
	t.Helper()
	client := backend.NewMemoryClient(dataset())
	store := cache.NewMemoryStore()
	insightRepo := repo.NewInMemoryInsightRepository()
	svc := NewService(client, store, insightRepo, Options{
		AI:        ai,
		Formatter: format.New("IDR", "id"),
		TTL:       time.Minute,
		Now:       func() time.Time { return now },
	})
	return svc, client, insightRepo, store
}

func TestService_GenerateCachesAndPersists(t *testing.T) {
	svc, client, insightRepo, _ := newService(t, nil)
	ctx := context.Background()

	first, err := svc.Generate(ctx, models.InsightOverview)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, now, first.GeneratedAt)
	assert.Equal(t, models.SourceFallback, first.Source)
	calls := client.Calls()

	second, err := svc.Generate(ctx, models.InsightOverview)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, calls, client.Calls())

	history, err := svc.History(models.InsightOverview, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, first.ID, history[0].ID)

	latest, err := insightRepo.Latest(models.InsightOverview)
	require.NoError(t, err)
	assert.Equal(t, first.Title, latest.Title)
}

func TestService_UsesAIWhenAvailable(t *testing.T) {
	c := &fakeCompleter{reply: "TITLE: AI says hi\nSUMMARY: Fine."}
	svc, _, _, _ := newService(t, NewAIGenerator(c, AIConfig{RatePerMinute: 600}))

	in, err := svc.Generate(context.Background(), models.InsightSales)

	require.NoError(t, err)
	assert.Equal(t, models.SourceAI, in.Source)
	assert.Equal(t, "AI says hi", in.Title)
}

func TestService_FallsBackOnAIError(t *testing.T) {
	c := &fakeCompleter{err: errors.New("upstream 500")}
	svc, _, _, _ := newService(t, NewAIGenerator(c, AIConfig{RatePerMinute: 600}))

	in, err := svc.Generate(context.Background(), models.InsightSales)

	require.NoError(t, err)
	assert.Equal(t, models.SourceFallback, in.Source)
	assert.Equal(t, int32(1), c.calls.Load())
}

func TestService_Errors(t *testing.T) {
	svc, client, _, _ := newService(t, nil)
	ctx := context.Background()

	_, err := svc.Generate(ctx, "weather")
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = svc.History("weather", 5)
	assert.ErrorIs(t, err, ErrUnknownKind)

	boom := errors.New("backend down")
	client.FailWith(boom)
	_, err = svc.Generate(ctx, models.InsightSales)
	assert.ErrorIs(t, err, boom)
}

func TestService_AllSharesSnapshot(t *testing.T) {
	svc, client, _, _ := newService(t, nil)

	all, err := svc.All(context.Background())

	require.NoError(t, err)
	require.Len(t, all, len(models.InsightKinds))
	for i, kind := range models.InsightKinds {
		assert.Equal(t, kind, all[i].Kind)
	}
	assert.Equal(t, int64(3), client.Calls())
}

func TestService_RefreshBypassesCache(t *testing.T) {
	svc, client, insightRepo, store := newService(t, nil)
	ctx := context.Background()

	before, err := svc.All(ctx)
	require.NoError(t, err)

	ds := dataset()
	ds.Transactions = append(ds.Transactions, models.Transaction{ID: "t4", UserID: "u2", ProductID: "p2", Quantity: 5, Amount: 75000, Status: models.StatusCompleted, CreatedAt: now})
	client.SetData(ds)

	after, err := svc.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	assert.NotEqual(t, before[0].ID, after[0].ID)
	assert.NotEqual(t, before[0].Summary, after[0].Summary)

	history, _ := insightRepo.History(models.InsightOverview, 0)
	assert.Len(t, history, 2)

	var cached models.Insight
	require.NoError(t, cache.GetJSON(ctx, store, cacheKey(models.InsightOverview), &cached))
	assert.Equal(t, after[0].ID, cached.ID)
}
