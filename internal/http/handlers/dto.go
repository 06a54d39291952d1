package handlers

import (
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/analytics"
	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
)

type Meta struct {
	TotalCount int `json:"total_count"`
	Offset     int `json:"offset"`
	Limit      int `json:"limit"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

type OverviewResponse struct {
	Stats       analytics.OverviewStats `json:"stats"`
	Formatted   map[string]string       `json:"formatted"`
	GeneratedAt time.Time               `json:"generated_at"`
}

type ChartResponse struct {
	Series []analytics.Series `json:"series"`
}

type UserResponse struct {
	models.User
	DisplayName string `json:"display_name"`
	Active      bool   `json:"active"`
	MaskedPhone string `json:"masked_phone"`
	LastSeen    string `json:"last_seen,omitempty"`
}

type UsersSearchResult struct {
	Data []UserResponse `json:"data"`
	Meta Meta           `json:"meta"`
}

type UserDetailResponse struct {
	User         UserResponse               `json:"user"`
	Summary      *analytics.CustomerSummary `json:"summary,omitempty"`
	Transactions []TransactionResponse      `json:"transactions"`
}

type ProductResponse struct {
	models.Product
	LowStock       bool   `json:"low_stock"`
	OutOfStock     bool   `json:"out_of_stock"`
	FormattedPrice string `json:"formatted_price"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta"`
}

type ProductDetailResponse struct {
	Product          ProductResponse              `json:"product"`
	Performance      analytics.ProductPerformance `json:"performance"`
	FormattedRevenue string                       `json:"formatted_revenue"`
}

type TransactionResponse struct {
	models.Transaction
	FormattedAmount string `json:"formatted_amount"`
}

type TransactionsSearchResult struct {
	Data []TransactionResponse `json:"data"`
	Meta Meta                  `json:"meta"`
}

type CustomerResponse struct {
	analytics.CustomerSummary
	FormattedSpent string `json:"formatted_spent"`
}

type CustomersResult struct {
	Data []CustomerResponse `json:"data"`
	Meta Meta               `json:"meta"`
}

type MonthlyReportRow struct {
	analytics.MonthlySummary
	Label            string `json:"label"`
	FormattedRevenue string `json:"formatted_revenue"`
}

type MonthlyReportResponse struct {
	Months []MonthlyReportRow `json:"months"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type InsightsResponse struct {
	Insights []models.Insight `json:"insights"`
}
