package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/analytics"
	"github.com/rogerio-castellano/wabot-dashboard/internal/backend"
	"github.com/rogerio-castellano/wabot-dashboard/internal/format"
	mw "github.com/rogerio-castellano/wabot-dashboard/internal/http/middleware"
	"github.com/rs/zerolog/log"
)

func snapshot(w http.ResponseWriter, r *http.Request) (analytics.Dataset, bool) {
	ds, err := backend.Snapshot(r.Context(), backendClient)
	if err != nil {
		backendError(w, err, "dashboard data")
		return analytics.Dataset{}, false
	}
	return ds, true
}

// OverviewHandler godoc
// @Summary Headline figures for the dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} OverviewResponse
// @Failure 401 {string} string "Unauthorized"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/overview [get]
func OverviewHandler(w http.ResponseWriter, r *http.Request) {
	ds, ok := snapshot(w, r)
	if !ok {
		return
	}

	t := now()
	stats := analytics.Overview(ds, t)
	formatted := map[string]string{
		"total_users":         formatter.Number(float64(stats.TotalUsers)),
		"active_users":        formatter.Number(float64(stats.ActiveUsers)),
		"total_transactions":  format.CompactNumber(float64(stats.TotalTransactions)),
		"total_revenue":       formatter.Currency(stats.TotalRevenue),
		"revenue_this_month":  formatter.Currency(stats.RevenueThisMonth),
		"revenue_last_month":  formatter.Currency(stats.RevenueLastMonth),
		"average_order_value": formatter.Currency(stats.AverageOrderValue),
		"conversion_rate":     formatter.Percent(stats.ConversionRate),
	}
	if stats.RevenueGrowth != nil {
		formatted["revenue_growth"] = formatter.SignedPercent(*stats.RevenueGrowth)
	}

	respond(w, OverviewResponse{Stats: stats, Formatted: formatted, GeneratedAt: t})
}

// HealthHandler godoc
// @Summary Liveness probe with backend reachability
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Backend: "unknown"}
	if backendPinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := backendPinger.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("backend health check failed")
			resp.Backend = "unreachable"
		} else {
			resp.Backend = "ok"
		}
	}
	respond(w, resp)
}

// InvalidateCacheHandler godoc
// @Summary Drop cached backend responses
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 403 {string} string "Forbidden"
// @Failure 500 {string} string "Internal error"
// @Router /api/cache/invalidate [post]
func InvalidateCacheHandler(w http.ResponseWriter, r *http.Request) {
	if cacheInvalidator != nil {
		if err := cacheInvalidator.Invalidate(r.Context()); err != nil {
			log.Error().Err(err).Msg("cache invalidation failed")
			http.Error(w, "could not invalidate cache", http.StatusInternalServerError)
			return
		}
	}
	log.Info().Str("user", mw.GetUsername(r)).Msg("backend cache invalidated")
	respond(w, MessageResponse{Message: "cache invalidated"})
}
