package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestFilterUsers(t *testing.T) {
	users := sampleDataset().Users
	users[1].PhoneNumber = "+6281299"
	users[2].Email = "citra@example.com"

	tests := []struct {
		name   string
		filter UserFilter
		want   []string
	}{
		{"no filter newest first", UserFilter{}, []string{"u2", "u3", "u1"}},
		{"search name", UserFilter{Search: "ana"}, []string{"u1"}},
		{"search phone", UserFilter{Search: "81299"}, []string{"u2"}},
		{"search email", UserFilter{Search: "EXAMPLE"}, []string{"u3"}},
		{"active only", UserFilter{Active: ptr(true)}, []string{"u3", "u1"}},
		{"inactive only", UserFilter{Active: ptr(false)}, []string{"u2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, total := FilterUsers(users, tt.filter, now)

			ids := []string{}
			for _, u := range page {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.Equal(t, len(tt.want), total)
		})
	}
}

func TestFilterProducts(t *testing.T) {
	products := sampleDataset().Products
	products[0].Category = "Drinks"
	products[1].Category = "drinks"

	page, total := FilterProducts(products, ProductFilter{Category: "DRINKS"})
	assert.Equal(t, 2, total)
	assert.Equal(t, "Kopi", page[0].Name)

	page, total = FilterProducts(products, ProductFilter{LowStock: ptr(true)})
	assert.Equal(t, 2, total)
	assert.Equal(t, "Roti", page[0].Name)

	page, _ = FilterProducts(products, ProductFilter{MinPrice: ptr(12000.0), MaxPrice: ptr(20000.0)})
	require.Len(t, page, 1)
	assert.Equal(t, "Teh", page[0].Name)

	_, total = FilterProducts(products, ProductFilter{Name: "o"})
	assert.Equal(t, 2, total)
}

func TestFilterTransactions(t *testing.T) {
	txs := sampleDataset().Transactions

	page, total := FilterTransactions(txs, TransactionFilter{Status: "COMPLETED"})
	assert.Equal(t, 3, total)
	assert.Equal(t, "t1", page[0].ID)

	since := now.AddDate(0, 0, -2).Add(-time.Hour)
	page, total = FilterTransactions(txs, TransactionFilter{Since: &since})
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"t1", "t4", "t5"}, ids(page))

	until := now.AddDate(0, 0, -3)
	_, total = FilterTransactions(txs, TransactionFilter{Until: &until})
	assert.Equal(t, 2, total)

	_, total = FilterTransactions(txs, TransactionFilter{UserID: "u3", MinAmount: ptr(100.0)})
	assert.Equal(t, 1, total)

	_, total = FilterTransactions(txs, TransactionFilter{MaxAmount: ptr(90.0)})
	assert.Equal(t, 2, total)

	_, total = FilterTransactions(txs, TransactionFilter{Search: "customer u2"})
	assert.Equal(t, 1, total)

	_, total = FilterTransactions(txs, TransactionFilter{ProductID: "nope"})
	assert.Zero(t, total)
}

func TestPagination(t *testing.T) {
	txs := []models.Transaction{}
	for i := range 150 {
		txs = append(txs, tx(fmt.Sprintf("t%03d", i), "u1", 1, models.StatusCompleted, now.Add(-time.Hour)))
	}

	page, total := FilterTransactions(txs, TransactionFilter{})
	assert.Equal(t, 150, total)
	assert.Len(t, page, MaxPageSize)

	page, _ = FilterTransactions(txs, TransactionFilter{Limit: ptr(500)})
	assert.Len(t, page, MaxPageSize)

	page, _ = FilterTransactions(txs, TransactionFilter{Offset: ptr(140), Limit: ptr(20)})
	assert.Len(t, page, 10)

	page, total = FilterTransactions(txs, TransactionFilter{Offset: ptr(200)})
	assert.Empty(t, page)
	assert.NotNil(t, page)
	assert.Equal(t, 150, total)
}

func ids(txs []models.Transaction) []string {
	out := []string{}
	for _, t := range txs {
		out = append(out, t.ID)
	}
	return out
}
