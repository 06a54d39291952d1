package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
)

type CustomerSummary struct {
	UserID          string    `json:"user_id"`
	CustomerName    string    `json:"customer_name"`
	PhoneNumber     string    `json:"phone_number"`
	Orders          int       `json:"orders"`
	CompletedOrders int       `json:"completed_orders"`
	TotalSpent      float64   `json:"total_spent"`
	AverageOrder    float64   `json:"average_order"`
	FirstPurchase   time.Time `json:"first_purchase"`
	LastPurchase    time.Time `json:"last_purchase"`
}

type MonthlySummary struct {
	Month           string  `json:"month"`
	Orders          int     `json:"orders"`
	Completed       int     `json:"completed"`
	Revenue         float64 `json:"revenue"`
	UniqueCustomers int     `json:"unique_customers"`
}

type DailyPoint struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type ProductPerformance struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitsSold int     `json:"units_sold"`
	Revenue   float64 `json:"revenue"`
	Orders    int     `json:"orders"`
	Stock     int     `json:"stock"`
}

type StatusCount struct {
	Status string  `json:"status"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

func customerKey(t models.Transaction) string {
	switch {
	case t.UserID != "":
		return "id:" + t.UserID
	case t.PhoneNumber != "":
		return "phone:" + t.PhoneNumber
	default:
		return "name:" + strings.ToLower(strings.TrimSpace(t.CustomerName))
	}
}

// GroupByCustomer reduces transactions to one summary per customer, biggest
// spenders first. Only completed transactions count towards TotalSpent.
func GroupByCustomer(txs []models.Transaction) []CustomerSummary {
	byKey := make(map[string]*CustomerSummary)
	order := []string{}
	for _, t := range txs {
		key := customerKey(t)
		c, ok := byKey[key]
		if !ok {
			c = &CustomerSummary{UserID: t.UserID}
			byKey[key] = c
			order = append(order, key)
		}
		if c.CustomerName == "" {
			c.CustomerName = t.CustomerName
		}
		if c.PhoneNumber == "" {
			c.PhoneNumber = t.PhoneNumber
		}
		c.Orders++
		if t.Completed() {
			c.CompletedOrders++
			c.TotalSpent += t.Amount
		}
		if c.FirstPurchase.IsZero() || t.CreatedAt.Before(c.FirstPurchase) {
			c.FirstPurchase = t.CreatedAt
		}
		if t.CreatedAt.After(c.LastPurchase) {
			c.LastPurchase = t.CreatedAt
		}
	}

	out := make([]CustomerSummary, 0, len(order))
	for _, key := range order {
		c := byKey[key]
		if c.CompletedOrders > 0 {
			c.AverageOrder = c.TotalSpent / float64(c.CompletedOrders)
		}
		out = append(out, *c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalSpent != out[j].TotalSpent {
			return out[i].TotalSpent > out[j].TotalSpent
		}
		return out[i].CustomerName < out[j].CustomerName
	})
	return out
}

func TopCustomers(txs []models.Transaction, limit int) []CustomerSummary {
	all := GroupByCustomer(txs)
	if limit > 0 && len(all) > limit {
		return all[:limit]
	}
	return all
}

// GroupByMonth buckets transactions by calendar month in loc, oldest first.
func GroupByMonth(txs []models.Transaction, loc *time.Location) []MonthlySummary {
	if loc == nil {
		loc = time.UTC
	}
	byMonth := make(map[string]*MonthlySummary)
	customers := make(map[string]map[string]struct{})
	for _, t := range txs {
		key := t.CreatedAt.In(loc).Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &MonthlySummary{Month: key}
			byMonth[key] = m
			customers[key] = make(map[string]struct{})
		}
		m.Orders++
		if t.Completed() {
			m.Completed++
			m.Revenue += t.Amount
		}
		customers[key][customerKey(t)] = struct{}{}
	}

	out := make([]MonthlySummary, 0, len(byMonth))
	for key, m := range byMonth {
		m.UniqueCustomers = len(customers[key])
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// DailyRevenue returns one zero-filled point per day, ending today.
func DailyRevenue(txs []models.Transaction, now time.Time, days int) []DailyPoint {
	if days <= 0 {
		return []DailyPoint{}
	}
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	first := today.AddDate(0, 0, -(days - 1))

	points := make([]DailyPoint, days)
	index := make(map[string]int, days)
	for i := range points {
		key := first.AddDate(0, 0, i).Format(time.DateOnly)
		points[i] = DailyPoint{Date: key}
		index[key] = i
	}
	for _, t := range txs {
		if !t.Completed() {
			continue
		}
		i, ok := index[t.CreatedAt.In(loc).Format(time.DateOnly)]
		if !ok {
			continue
		}
		points[i].Orders++
		points[i].Revenue += t.Amount
	}
	return points
}

// TopProducts ranks products by completed revenue.
func TopProducts(txs []models.Transaction, products []models.Product, limit int) []ProductPerformance {
	catalog := make(map[string]models.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}

	byID := make(map[string]*ProductPerformance)
	for _, t := range txs {
		if !t.Completed() {
			continue
		}
		perf, ok := byID[t.ProductID]
		if !ok {
			perf = &ProductPerformance{ProductID: t.ProductID, Name: t.ProductName}
			if p, found := catalog[t.ProductID]; found {
				perf.Name = p.Name
				perf.Stock = p.Stock
			}
			byID[t.ProductID] = perf
		}
		perf.Orders++
		perf.UnitsSold += t.Quantity
		perf.Revenue += t.Amount
	}

	out := make([]ProductPerformance, 0, len(byID))
	for _, perf := range byID {
		out = append(out, *perf)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// ProductStats returns the performance of a single product, zero when unsold.
func ProductStats(txs []models.Transaction, p models.Product) ProductPerformance {
	for _, perf := range TopProducts(txs, []models.Product{p}, 0) {
		if perf.ProductID == p.ID {
			return perf
		}
	}
	return ProductPerformance{ProductID: p.ID, Name: p.Name, Stock: p.Stock}
}

func StatusBreakdown(txs []models.Transaction) []StatusCount {
	return breakdown(txs, func(t models.Transaction) string {
		if t.Status == "" {
			return "unknown"
		}
		return t.Status
	})
}

func PaymentMethodBreakdown(txs []models.Transaction) []StatusCount {
	return breakdown(txs, func(t models.Transaction) string {
		if strings.TrimSpace(t.PaymentMethod) == "" {
			return "unknown"
		}
		return strings.ToLower(t.PaymentMethod)
	})
}

func breakdown(txs []models.Transaction, keyFn func(models.Transaction) string) []StatusCount {
	byKey := make(map[string]*StatusCount)
	for _, t := range txs {
		key := keyFn(t)
		c, ok := byKey[key]
		if !ok {
			c = &StatusCount{Status: key}
			byKey[key] = c
		}
		c.Count++
		c.Amount += t.Amount
	}
	out := make([]StatusCount, 0, len(byKey))
	for _, c := range byKey {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// TransactionsForUser returns a user's transactions, newest first.
func TransactionsForUser(txs []models.Transaction, userID string) []models.Transaction {
	out := []models.Transaction{}
	for _, t := range txs {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].CreatedAt.After(txs[j].CreatedAt) })
}
