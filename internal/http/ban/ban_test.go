package ban

import (
	"context"
	"testing"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrikeBansAtLimit(t *testing.T) {
	ctx := context.Background()
	g := NewGuard(cache.NewMemoryStore(), 3, time.Minute)

	for i := 0; i < 2; i++ {
		banned, err := g.Strike(ctx, "10.0.0.1", "/login")
		require.NoError(t, err)
		assert.False(t, banned)
	}
	banned, _ := g.Banned(ctx, "10.0.0.1")
	assert.False(t, banned)

	banned, err := g.Strike(ctx, "10.0.0.1", "/login")
	require.NoError(t, err)
	assert.True(t, banned)

	banned, err = g.Banned(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, banned)

	other, _ := g.Banned(ctx, "10.0.0.2")
	assert.False(t, other)
}

func TestResetClearsStrikes(t *testing.T) {
	ctx := context.Background()
	g := NewGuard(cache.NewMemoryStore(), 2, time.Minute)

	_, _ = g.Strike(ctx, "ip", "/login")
	require.NoError(t, g.Reset(ctx, "ip"))

	banned, err := g.Strike(ctx, "ip", "/login")
	require.NoError(t, err)
	assert.False(t, banned)
}

func TestDailySummary(t *testing.T) {
	ctx := context.Background()
	g := NewGuard(cache.NewMemoryStore(), 1, time.Minute)

	empty, err := g.DailySummary(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.Total)

	_, _ = g.Strike(ctx, "a", "/login")
	_, _ = g.Strike(ctx, "b", "/login")
	_, _ = g.Strike(ctx, "a", "/refresh")

	s, err := g.DailySummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.ByRoute["/login"])
	assert.Equal(t, 2, s.ByTarget["a"])
	assert.Len(t, s.Entries, 3)

	drained, err := g.DailySummary(ctx)
	require.NoError(t, err)
	assert.Zero(t, drained.Total)

	assert.NoError(t, g.LogDailySummary(ctx))
}
