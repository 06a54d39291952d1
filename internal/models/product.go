package models

import "time"

// DefaultLowStockThreshold applies to products without their own threshold.
const DefaultLowStockThreshold = 5

// Product represents a product sold through the bot.
type Product struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	Category          string    `json:"category,omitempty"`
	Price             float64   `json:"price"`
	Stock             int       `json:"stock"`
	LowStockThreshold int       `json:"low_stock_threshold,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

func (p Product) LowStock() bool {
	threshold := p.LowStockThreshold
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return p.Stock <= threshold
}

func (p Product) OutOfStock() bool {
	return p.Stock <= 0
}
