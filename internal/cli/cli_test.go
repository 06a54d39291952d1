package cli

import (
	"bytes"
	"testing"

	"github.com/rogerio-castellano/wabot-dashboard/internal/analytics"
	"github.com/rogerio-castellano/wabot-dashboard/internal/config"
	"github.com/rogerio-castellano/wabot-dashboard/internal/format"
	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd()
	names := []string{}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "overview", "insights"}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestInsightsRejectsUnknownKind(t *testing.T) {
	cmd := insightsCmd()
	assert.Error(t, cmd.Args(cmd, []string{"weather"}))
	assert.Error(t, cmd.Args(cmd, []string{"sales", "products"}))
	assert.NoError(t, cmd.Args(cmd, []string{"sales"}))
	assert.NoError(t, cmd.Args(cmd, nil))
}

func TestPrintOverview(t *testing.T) {
	growth := 0.25
	var buf bytes.Buffer
	err := printOverview(&buf, format.New("USD", "en"), analytics.OverviewStats{
		TotalUsers:        3,
		ActiveUsers:       2,
		TotalRevenue:      1500,
		RevenueGrowth:     &growth,
		TotalTransactions: 4,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Users")
	assert.Contains(t, out, "2 active")
	assert.Contains(t, out, "Growth")
	assert.NotContains(t, out, "n/a")
}

func TestPrintInsight(t *testing.T) {
	var buf bytes.Buffer
	printInsight(&buf, models.Insight{
		Kind:       models.InsightSales,
		Title:      "Sales are up",
		Summary:    "Revenue grew.",
		Highlights: []string{"Kopi leads", "Weekend peak"},
		Source:     models.SourceAI,
		Provider:   "google",
	})

	assert.Equal(t, "Sales are up [sales, ai google]\nRevenue grew.\n  - Kopi leads\n  - Weekend peak\n", buf.String())
}

func TestNewAppWithoutExternalServices(t *testing.T) {
	cfg := config.Settings{
		Backend: config.BackendSettings{BaseURL: "http://127.0.0.1:1"},
		Auth:    config.AuthSettings{JWTSecret: "0123456789abcdef"},
		Insights: config.InsightSettings{
			Enabled:  true,
			Provider: "no-such-provider",
		},
	}
	a, err := newApp(t.Context(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.client)
	assert.NotNil(t, a.insights)
	assert.NotNil(t, a.auth)
	assert.Equal(t, "UTC", a.loc.String())

	s, err := a.scheduler()
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}
