package backend

import (
	"context"

	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
	"golang.org/x/sync/errgroup"
)

// Client fetches commerce data from the bot backend.
type Client interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id string) (models.User, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, id string) (models.Transaction, error)
}

// Data is a consistent view of all three collections.
type Data struct {
	Users        []models.User
	Products     []models.Product
	Transactions []models.Transaction
}

// Snapshot fetches users, products and transactions concurrently.
func Snapshot(ctx context.Context, c Client) (Data, error) {
	var d Data
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := c.ListUsers(gctx)
		d.Users = users
		return err
	})
	g.Go(func() error {
		products, err := c.ListProducts(gctx)
		d.Products = products
		return err
	})
	g.Go(func() error {
		txs, err := c.ListTransactions(gctx)
		d.Transactions = txs
		return err
	})
	if err := g.Wait(); err != nil {
		return Data{}, err
	}
	return d, nil
}
