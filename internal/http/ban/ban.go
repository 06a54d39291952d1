// Package ban counts failed logins per client and blocks clients that keep
// failing.
package ban

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/cache"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DailyBanLogKey  = "ratelimit:banlog:daily"
	strikeKeyPrefix = "ratelimit:strikes:"
	banKeyPrefix    = "ratelimit:ban:"
	banLogTTL       = 48 * time.Hour
)

type BanLogEntry struct {
	Target  string    `json:"target"`
	Route   string    `json:"route"`
	Strikes int       `json:"strikes"`
	Time    time.Time `json:"time"`
}

type Summary struct {
	Total    int            `json:"total"`
	ByRoute  map[string]int `json:"by_route"`
	ByTarget map[string]int `json:"by_target"`
	Entries  []BanLogEntry  `json:"entries"`
}

type Guard struct {
	store       cache.Store
	maxStrikes  int
	banDuration time.Duration
	now         func() time.Time

	logMu sync.Mutex
}

func NewGuard(store cache.Store, maxStrikes int, banDuration time.Duration) *Guard {
	if maxStrikes <= 0 {
		maxStrikes = 5
	}
	if banDuration <= 0 {
		banDuration = 15 * time.Minute
	}
	return &Guard{store: store, maxStrikes: maxStrikes, banDuration: banDuration, now: time.Now}
}

// Banned reports whether target is currently blocked.
func (g *Guard) Banned(ctx context.Context, target string) (bool, error) {
	_, err := g.store.Get(ctx, banKeyPrefix+target)
	if errors.Is(err, cache.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Strike records a failed attempt and bans target once it reaches the limit.
// Strikes expire after the ban duration without further failures.
func (g *Guard) Strike(ctx context.Context, target, route string) (bool, error) {
	n, err := g.store.Incr(ctx, strikeKeyPrefix+target, g.banDuration)
	if err != nil {
		return false, err
	}
	if int(n) < g.maxStrikes {
		return false, nil
	}

	if err := g.store.Set(ctx, banKeyPrefix+target, []byte(strconv.FormatInt(n, 10)), g.banDuration); err != nil {
		return false, err
	}
	if err := g.store.Delete(ctx, strikeKeyPrefix+target); err != nil {
		log.Warn().Err(err).Str("target", target).Msg("could not reset strikes")
	}

	log.Warn().
		Str("target", target).
		Str("route", route).
		Int64("strikes", n).
		Dur("ban_duration", g.banDuration).
		Msg("client banned")
	g.logBanEvent(ctx, target, route, int(n))
	return true, nil
}

// Reset forgets the strikes of target, e.g. after a successful login.
func (g *Guard) Reset(ctx context.Context, target string) error {
	return g.store.Delete(ctx, strikeKeyPrefix+target)
}

func (g *Guard) BanDuration() time.Duration {
	return g.banDuration
}

func (g *Guard) logBanEvent(ctx context.Context, target, route string, strikes int) {
	g.logMu.Lock()
	defer g.logMu.Unlock()

	var entries []BanLogEntry
	if err := cache.GetJSON(ctx, g.store, DailyBanLogKey, &entries); err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn().Err(err).Msg("ban log unreadable, starting a new one")
	}
	entries = append(entries, BanLogEntry{Target: target, Route: route, Strikes: strikes, Time: g.now()})
	if err := cache.SetJSON(ctx, g.store, DailyBanLogKey, entries, banLogTTL); err != nil {
		log.Error().Err(err).Msg("failed to append ban log")
	}
}

// DailySummary drains the ban log and aggregates it.
func (g *Guard) DailySummary(ctx context.Context) (Summary, error) {
	g.logMu.Lock()
	defer g.logMu.Unlock()

	summary := Summary{ByRoute: map[string]int{}, ByTarget: map[string]int{}, Entries: []BanLogEntry{}}
	var entries []BanLogEntry
	err := cache.GetJSON(ctx, g.store, DailyBanLogKey, &entries)
	if errors.Is(err, cache.ErrCacheMiss) {
		return summary, nil
	}
	if err != nil {
		return summary, err
	}
	if err := g.store.Delete(ctx, DailyBanLogKey); err != nil {
		return summary, err
	}

	for _, e := range entries {
		summary.Total++
		summary.ByRoute[e.Route]++
		summary.ByTarget[e.Target]++
		summary.Entries = append(summary.Entries, e)
	}
	return summary, nil
}

// LogDailySummary writes the drained summary to the application log.
func (g *Guard) LogDailySummary(ctx context.Context) error {
	s, err := g.DailySummary(ctx)
	if err != nil {
		return err
	}
	if s.Total == 0 {
		log.Info().Msg("daily ban summary: no bans")
		return nil
	}

	byRoute := zerolog.Dict()
	for route, n := range s.ByRoute {
		byRoute.Int(route, n)
	}
	byTarget := zerolog.Dict()
	for target, n := range s.ByTarget {
		byTarget.Int(target, n)
	}
	log.Warn().
		Int("total", s.Total).
		Dict("by_route", byRoute).
		Dict("by_target", byTarget).
		Msg("daily ban summary")
	return nil
}
