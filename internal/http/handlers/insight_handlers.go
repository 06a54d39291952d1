package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/rogerio-castellano/wabot-dashboard/internal/http/middleware"
	"github.com/rogerio-castellano/wabot-dashboard/internal/insights"
	"github.com/rs/zerolog/log"
)

func insightError(w http.ResponseWriter, err error) {
	if errors.Is(err, insights.ErrUnknownKind) {
		http.Error(w, "unknown insight kind", http.StatusNotFound)
		return
	}
	log.Error().Err(err).Msg("insight request failed")
	http.Error(w, "could not generate insights", http.StatusBadGateway)
}

// ListInsightsHandler godoc
// @Summary Current insight of every kind
// @Tags insights
// @Produce json
// @Security BearerAuth
// @Success 200 {object} InsightsResponse
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/insights [get]
func ListInsightsHandler(w http.ResponseWriter, r *http.Request) {
	all, err := insightService.All(r.Context())
	if err != nil {
		insightError(w, err)
		return
	}
	respond(w, InsightsResponse{Insights: all})
}

// GetInsightHandler godoc
// @Summary Current insight of one kind
// @Tags insights
// @Produce json
// @Security BearerAuth
// @Param kind path string true "overview, sales, customers or products"
// @Success 200 {object} models.Insight
// @Failure 404 {string} string "Unknown insight kind"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/insights/{kind} [get]
func GetInsightHandler(w http.ResponseWriter, r *http.Request) {
	in, err := insightService.Generate(r.Context(), chi.URLParam(r, "kind"))
	if err != nil {
		insightError(w, err)
		return
	}
	respond(w, in)
}

// InsightHistoryHandler godoc
// @Summary Previously generated insights of one kind
// @Tags insights
// @Produce json
// @Security BearerAuth
// @Param kind path string true "overview, sales, customers or products"
// @Param limit query int false "Limit, default 20, max 100"
// @Success 200 {object} InsightsResponse
// @Failure 400 {string} string "Invalid query"
// @Failure 404 {string} string "Unknown insight kind"
// @Router /api/insights/{kind}/history [get]
func InsightHistoryHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := boundedInt(r.URL.Query(), "limit", 20, 100)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	history, err := insightService.History(chi.URLParam(r, "kind"), limit)
	if err != nil {
		if errors.Is(err, insights.ErrUnknownKind) {
			http.Error(w, "unknown insight kind", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Msg("insight history lookup failed")
		http.Error(w, "could not load insight history", http.StatusInternalServerError)
		return
	}
	respond(w, InsightsResponse{Insights: history})
}

// RefreshInsightsHandler godoc
// @Summary Regenerate every insight from fresh data
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} InsightsResponse
// @Failure 403 {string} string "Forbidden"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/insights/refresh [post]
func RefreshInsightsHandler(w http.ResponseWriter, r *http.Request) {
	all, err := insightService.Refresh(r.Context())
	if err != nil {
		insightError(w, err)
		return
	}
	log.Info().Str("user", mw.GetUsername(r)).Int("count", len(all)).Msg("insights refreshed")
	respond(w, InsightsResponse{Insights: all})
}
