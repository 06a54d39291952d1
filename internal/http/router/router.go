package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	_ "github.com/rogerio-castellano/wabot-dashboard/docs"
	"github.com/rogerio-castellano/wabot-dashboard/internal/http/handlers"
	mw "github.com/rogerio-castellano/wabot-dashboard/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(mw.RateLimit)

	r.Get("/health", handlers.HealthHandler)
	r.Post("/login", handlers.LoginHandler)
	r.Post("/refresh", handlers.RefreshHandler)
	r.Post("/logout", handlers.LogoutHandler)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(mw.Authenticate)

		r.Get("/overview", handlers.OverviewHandler)

		r.Route("/charts", func(r chi.Router) {
			r.Get("/revenue", handlers.RevenueChartHandler)
			r.Get("/monthly", handlers.MonthlyChartHandler)
			r.Get("/status", handlers.StatusChartHandler)
			r.Get("/payments", handlers.PaymentChartHandler)
			r.Get("/top-products", handlers.TopProductsChartHandler)
		})

		r.Get("/users", handlers.ListUsersHandler)
		r.Get("/users/{id}", handlers.GetUserHandler)
		r.Get("/products", handlers.ListProductsHandler)
		r.Get("/products/{id}", handlers.GetProductHandler)
		r.Get("/transactions", handlers.ListTransactionsHandler)
		r.Get("/transactions/export", handlers.ExportTransactionsHandler)
		r.Get("/transactions/{id}", handlers.GetTransactionHandler)
		r.Get("/customers", handlers.CustomersHandler)
		r.Get("/reports/monthly", handlers.MonthlyReportHandler)

		r.Get("/insights", handlers.ListInsightsHandler)
		r.Get("/insights/{kind}", handlers.GetInsightHandler)
		r.Get("/insights/{kind}/history", handlers.InsightHistoryHandler)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireAdmin)
			r.Post("/insights/refresh", handlers.RefreshInsightsHandler)
			r.Post("/cache/invalidate", handlers.InvalidateCacheHandler)
		})
	})

	return r
}
