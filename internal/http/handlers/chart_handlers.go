package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/wabot-dashboard/internal/analytics"
)

// RevenueChartHandler godoc
// @Summary Daily revenue and order series
// @Tags charts
// @Produce json
// @Security BearerAuth
// @Param days query int false "Number of days, default 30, max 365"
// @Success 200 {object} ChartResponse
// @Failure 400 {string} string "Invalid query"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/charts/revenue [get]
func RevenueChartHandler(w http.ResponseWriter, r *http.Request) {
	days, err := boundedInt(r.URL.Query(), "days", 30, 365)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ds, ok := snapshot(w, r)
	if !ok {
		return
	}

	points := analytics.DailyRevenue(ds.Transactions, now(), days)
	respond(w, ChartResponse{Series: []analytics.Series{
		analytics.DailyRevenueSeries(points),
		analytics.DailyOrdersSeries(points),
	}})
}

// MonthlyChartHandler godoc
// @Summary Monthly revenue and order series
// @Tags charts
// @Produce json
// @Security BearerAuth
// @Param months query int false "Number of months, default 12, max 60"
// @Success 200 {object} ChartResponse
// @Failure 400 {string} string "Invalid query"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/charts/monthly [get]
func MonthlyChartHandler(w http.ResponseWriter, r *http.Request) {
	n, err := boundedInt(r.URL.Query(), "months", 12, 60)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ds, ok := snapshot(w, r)
	if !ok {
		return
	}

	t := now()
	months := analytics.LastMonths(analytics.GroupByMonth(ds.Transactions, location), t, n)
	respond(w, ChartResponse{Series: []analytics.Series{
		analytics.MonthlyRevenueSeries(months),
		analytics.MonthlyOrdersSeries(months),
	}})
}

// StatusChartHandler godoc
// @Summary Transaction count by status
// @Tags charts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ChartResponse
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/charts/status [get]
func StatusChartHandler(w http.ResponseWriter, r *http.Request) {
	ds, ok := snapshot(w, r)
	if !ok {
		return
	}
	respond(w, ChartResponse{Series: []analytics.Series{
		analytics.BreakdownSeries("status", analytics.StatusBreakdown(ds.Transactions)),
	}})
}

// PaymentChartHandler godoc
// @Summary Transaction count by payment method
// @Tags charts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ChartResponse
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/charts/payments [get]
func PaymentChartHandler(w http.ResponseWriter, r *http.Request) {
	ds, ok := snapshot(w, r)
	if !ok {
		return
	}
	respond(w, ChartResponse{Series: []analytics.Series{
		analytics.BreakdownSeries("payment_method", analytics.PaymentMethodBreakdown(ds.Transactions)),
	}})
}

// TopProductsChartHandler godoc
// @Summary Best selling products by revenue
// @Tags charts
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of products, default 10, max 50"
// @Success 200 {object} ChartResponse
// @Failure 400 {string} string "Invalid query"
// @Failure 502 {string} string "Backend unavailable"
// @Router /api/charts/top-products [get]
func TopProductsChartHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := boundedInt(r.URL.Query(), "limit", 10, 50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ds, ok := snapshot(w, r)
	if !ok {
		return
	}
	respond(w, ChartResponse{Series: []analytics.Series{
		analytics.TopProductsSeries(analytics.TopProducts(ds.Transactions, ds.Products, limit)),
	}})
}
