package analytics

import (
	"slices"
	"strings"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
)

const MaxPageSize = 100

type UserFilter struct {
	Search string
	Active *bool
	Offset *int
	Limit  *int
}

type ProductFilter struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
	LowStock *bool
	Offset   *int
	Limit    *int
}

type TransactionFilter struct {
	Status    string
	UserID    string
	ProductID string
	Search    string
	Since     *time.Time
	Until     *time.Time
	MinAmount *float64
	MaxAmount *float64
	Offset    *int
	Limit     *int
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// paginate slices items by offset and limit. A nil limit means the maximum
// page size; limits above it are capped.
func paginate[T any](items []T, offset, limit *int) []T {
	if offset != nil && *offset > len(items) {
		return []T{}
	}

	start := 0
	if offset != nil {
		start = clamp(*offset, 0, len(items))
	}

	size := MaxPageSize
	if limit != nil && *limit > 0 && *limit < MaxPageSize {
		size = *limit
	}
	end := clamp(start+size, start, len(items))
	return items[start:end]
}

func matchesUser(u models.User, f UserFilter, now time.Time) bool {
	if f.Search != "" && !containsFold(u.Name, f.Search) && !containsFold(u.PhoneNumber, f.Search) && !containsFold(u.Email, f.Search) {
		return false
	}
	if f.Active != nil && UserActive(u, now) != *f.Active {
		return false
	}
	return true
}

func FilterUsers(users []models.User, f UserFilter, now time.Time) ([]models.User, int) {
	filtered := []models.User{}
	for _, u := range users {
		if matchesUser(u, f, now) {
			filtered = append(filtered, u)
		}
	}
	slices.SortStableFunc(filtered, func(a, b models.User) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return paginate(filtered, f.Offset, f.Limit), len(filtered)
}

func matchesProduct(p models.Product, f ProductFilter) bool {
	if f.Name != "" && !containsFold(p.Name, f.Name) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.LowStock != nil && p.LowStock() != *f.LowStock {
		return false
	}
	return true
}

func FilterProducts(products []models.Product, f ProductFilter) ([]models.Product, int) {
	filtered := []models.Product{}
	for _, p := range products {
		if matchesProduct(p, f) {
			filtered = append(filtered, p)
		}
	}
	slices.SortStableFunc(filtered, func(a, b models.Product) int { return strings.Compare(a.Name, b.Name) })
	return paginate(filtered, f.Offset, f.Limit), len(filtered)
}

func matchesTransaction(t models.Transaction, f TransactionFilter) bool {
	if f.Status != "" && !strings.EqualFold(t.Status, f.Status) {
		return false
	}
	if f.UserID != "" && t.UserID != f.UserID {
		return false
	}
	if f.ProductID != "" && t.ProductID != f.ProductID {
		return false
	}
	if f.Search != "" && !containsFold(t.CustomerName, f.Search) && !containsFold(t.ProductName, f.Search) &&
		!containsFold(t.PhoneNumber, f.Search) && !containsFold(t.ID, f.Search) {
		return false
	}
	if f.Since != nil && t.CreatedAt.Before(*f.Since) {
		return false
	}
	if f.Until != nil && t.CreatedAt.After(*f.Until) {
		return false
	}
	if f.MinAmount != nil && t.Amount < *f.MinAmount {
		return false
	}
	if f.MaxAmount != nil && t.Amount > *f.MaxAmount {
		return false
	}
	return true
}

// FilterTransactions returns matching transactions newest first, along with
// the number of matches before pagination.
func FilterTransactions(txs []models.Transaction, f TransactionFilter) ([]models.Transaction, int) {
	filtered := MatchTransactions(txs, f)
	return paginate(filtered, f.Offset, f.Limit), len(filtered)
}

// MatchTransactions applies the filter without pagination.
func MatchTransactions(txs []models.Transaction, f TransactionFilter) []models.Transaction {
	filtered := []models.Transaction{}
	for _, t := range txs {
		if matchesTransaction(t, f) {
			filtered = append(filtered, t)
		}
	}
	sortNewestFirst(filtered)
	return filtered
}
