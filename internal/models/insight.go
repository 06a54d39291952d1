package models

import "time"

const (
	InsightOverview  = "overview"
	InsightSales     = "sales"
	InsightCustomers = "customers"
	InsightProducts  = "products"

	SourceAI       = "ai"
	SourceFallback = "fallback"
)

// InsightKinds lists every kind in display order.
var InsightKinds = []string{InsightOverview, InsightSales, InsightCustomers, InsightProducts}

type Insight struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Highlights  []string  `json:"highlights"`
	Source      string    `json:"source"`
	Provider    string    `json:"provider,omitempty"`
	Model       string    `json:"model,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

func ValidInsightKind(kind string) bool {
	for _, k := range InsightKinds {
		if k == kind {
			return true
		}
	}
	return false
}
