package models

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Transaction is a single order placed through the bot.
type Transaction struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	CustomerName  string    `json:"customer_name,omitempty"`
	PhoneNumber   string    `json:"phone_number,omitempty"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name,omitempty"`
	Quantity      int       `json:"quantity"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Completed reports whether the transaction counts towards revenue.
func (t Transaction) Completed() bool {
	return t.Status == StatusCompleted
}
