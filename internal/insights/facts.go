package insights

import (
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/analytics"
	"github.com/rogerio-castellano/wabot-dashboard/internal/format"
)

const (
	factsTopN     = 5
	factsMonths   = 6
	factsLowStock = 10
)

type ProductFact struct {
	Name      string
	UnitsSold int
	Revenue   string
}

type CustomerFact struct {
	Name   string
	Orders int
	Spent  string
}

type MonthFact struct {
	Label   string
	Orders  int
	Revenue string
}

type StockFact struct {
	Name  string
	Stock int
}

// Facts is the formatted snapshot both generators write from. Figures are
// pre-formatted so the model and the fallback templates quote identical text.
type Facts struct {
	GeneratedAt time.Time
	Stats       analytics.OverviewStats

	TotalRevenue     string
	RevenueThisMonth string
	RevenueLastMonth string
	AverageOrder     string
	Growth           string
	Decline          string
	HasGrowth        bool
	Growing          bool
	ConversionRate   string

	TotalCustomers  int
	RepeatCustomers int
	RepeatRate      string

	Months       []MonthFact
	BestMonth    *MonthFact
	TopProducts  []ProductFact
	TopCustomers []CustomerFact
	LowStock     []StockFact
	OutOfStock   int

	// SoldProducts and LowStockCount are totals; TopProducts and LowStock
	// only hold the first few entries.
	SoldProducts  int
	LowStockCount int
}

func BuildFacts(ds analytics.Dataset, now time.Time, f *format.Formatter) Facts {
	stats := analytics.Overview(ds, now)
	facts := Facts{
		GeneratedAt:      now,
		Stats:            stats,
		TotalRevenue:     f.Currency(stats.TotalRevenue),
		RevenueThisMonth: f.Currency(stats.RevenueThisMonth),
		RevenueLastMonth: f.Currency(stats.RevenueLastMonth),
		AverageOrder:     f.Currency(stats.AverageOrderValue),
		ConversionRate:   f.Percent(stats.ConversionRate),
		OutOfStock:       stats.OutOfStockProducts,
		LowStockCount:    stats.LowStockProducts,
	}
	if stats.RevenueGrowth != nil {
		facts.HasGrowth = true
		facts.Growing = *stats.RevenueGrowth >= 0
		facts.Growth = f.SignedPercent(*stats.RevenueGrowth)
		if !facts.Growing {
			facts.Decline = f.Percent(-*stats.RevenueGrowth)
		}
	}

	customers := analytics.GroupByCustomer(ds.Transactions)
	facts.TotalCustomers = len(customers)
	for _, c := range customers {
		if c.CompletedOrders > 1 {
			facts.RepeatCustomers++
		}
	}
	if facts.TotalCustomers > 0 {
		facts.RepeatRate = f.Percent(float64(facts.RepeatCustomers) / float64(facts.TotalCustomers) * 100)
	} else {
		facts.RepeatRate = f.Percent(0)
	}
	for i, c := range customers {
		if i == factsTopN || c.TotalSpent == 0 {
			break
		}
		facts.TopCustomers = append(facts.TopCustomers, CustomerFact{Name: c.CustomerName, Orders: c.CompletedOrders, Spent: f.Currency(c.TotalSpent)})
	}

	months := analytics.LastMonths(analytics.GroupByMonth(ds.Transactions, now.Location()), now, factsMonths)
	var best *analytics.MonthlySummary
	for i, m := range months {
		facts.Months = append(facts.Months, MonthFact{Label: format.MonthLabel(m.Month), Orders: m.Orders, Revenue: f.Currency(m.Revenue)})
		if m.Revenue > 0 && (best == nil || m.Revenue > best.Revenue) {
			best = &months[i]
		}
	}
	if best != nil {
		facts.BestMonth = &MonthFact{Label: format.MonthLabel(best.Month), Orders: best.Orders, Revenue: f.Currency(best.Revenue)}
	}

	sold := analytics.TopProducts(ds.Transactions, ds.Products, 0)
	facts.SoldProducts = len(sold)
	for _, p := range sold[:min(len(sold), factsTopN)] {
		facts.TopProducts = append(facts.TopProducts, ProductFact{Name: p.Name, UnitsSold: p.UnitsSold, Revenue: f.Currency(p.Revenue)})
	}

	low, _ := analytics.FilterProducts(ds.Products, analytics.ProductFilter{LowStock: ptr(true), Limit: ptr(factsLowStock)})
	for _, p := range low {
		facts.LowStock = append(facts.LowStock, StockFact{Name: p.Name, Stock: p.Stock})
	}
	return facts
}

func ptr[T any](v T) *T { return &v }

func (f Facts) LeadProduct() *ProductFact {
	if len(f.TopProducts) == 0 {
		return nil
	}
	return &f.TopProducts[0]
}

func (f Facts) LeadCustomer() *CustomerFact {
	if len(f.TopCustomers) == 0 {
		return nil
	}
	return &f.TopCustomers[0]
}
