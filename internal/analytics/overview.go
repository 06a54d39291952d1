// Package analytics derives the dashboard's aggregate views from a backend
// snapshot. Every function is pure; month and day buckets are computed in the
// location of the reference time passed in.
package analytics

import (
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/backend"
	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
)

// ActiveWindow is how recently a user must have interacted to count as active.
const ActiveWindow = 30 * 24 * time.Hour

type Dataset = backend.Data

type OverviewStats struct {
	TotalUsers            int      `json:"total_users"`
	ActiveUsers           int      `json:"active_users"`
	NewUsersThisMonth     int      `json:"new_users_this_month"`
	TotalProducts         int      `json:"total_products"`
	LowStockProducts      int      `json:"low_stock_products"`
	OutOfStockProducts    int      `json:"out_of_stock_products"`
	TotalTransactions     int      `json:"total_transactions"`
	CompletedTransactions int      `json:"completed_transactions"`
	PendingTransactions   int      `json:"pending_transactions"`
	FailedTransactions    int      `json:"failed_transactions"`
	TotalRevenue          float64  `json:"total_revenue"`
	RevenueThisMonth      float64  `json:"revenue_this_month"`
	RevenueLastMonth      float64  `json:"revenue_last_month"`
	RevenueGrowth         *float64 `json:"revenue_growth,omitempty"`
	AverageOrderValue     float64  `json:"average_order_value"`
	ConversionRate        float64  `json:"conversion_rate"`
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func Overview(ds Dataset, now time.Time) OverviewStats {
	var s OverviewStats
	loc := now.Location()
	thisMonth := monthStart(now)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	s.TotalUsers = len(ds.Users)
	for _, u := range ds.Users {
		if UserActive(u, now) {
			s.ActiveUsers++
		}
		if !u.CreatedAt.In(loc).Before(thisMonth) {
			s.NewUsersThisMonth++
		}
	}

	s.TotalProducts = len(ds.Products)
	for _, p := range ds.Products {
		if p.OutOfStock() {
			s.OutOfStockProducts++
		}
		if p.LowStock() {
			s.LowStockProducts++
		}
	}

	s.TotalTransactions = len(ds.Transactions)
	for _, t := range ds.Transactions {
		switch t.Status {
		case models.StatusCompleted:
			s.CompletedTransactions++
			s.TotalRevenue += t.Amount
			created := t.CreatedAt.In(loc)
			switch {
			case !created.Before(thisMonth):
				s.RevenueThisMonth += t.Amount
			case !created.Before(lastMonth):
				s.RevenueLastMonth += t.Amount
			}
		case models.StatusPending:
			s.PendingTransactions++
		case models.StatusFailed, models.StatusCancelled:
			s.FailedTransactions++
		}
	}

	if s.CompletedTransactions > 0 {
		s.AverageOrderValue = s.TotalRevenue / float64(s.CompletedTransactions)
	}
	if s.TotalTransactions > 0 {
		s.ConversionRate = float64(s.CompletedTransactions) / float64(s.TotalTransactions) * 100
	}
	if s.RevenueLastMonth > 0 {
		growth := (s.RevenueThisMonth - s.RevenueLastMonth) / s.RevenueLastMonth * 100
		s.RevenueGrowth = &growth
	}
	return s
}

// UserActive reports whether u interacted within ActiveWindow, falling back to
// the backend flag for users with no recorded activity.
func UserActive(u models.User, now time.Time) bool {
	if u.LastActiveAt.IsZero() {
		return u.IsActive
	}
	return now.Sub(u.LastActiveAt) <= ActiveWindow
}
