package backend

import (
	"context"
	"errors"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/cache"
	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	keyPrefix = "backend:"

	// sharedFetchTimeout bounds an upstream call that outlives the caller
	// which started it.
	sharedFetchTimeout = 30 * time.Second
)

// CachedClient memoizes backend responses for a TTL and collapses concurrent
// misses for the same key into a single upstream call.
type CachedClient struct {
	next  Client
	store cache.Store
	ttl   time.Duration
	group singleflight.Group
}

func NewCachedClient(next Client, store cache.Store, ttl time.Duration) *CachedClient {
	return &CachedClient{next: next, store: store, ttl: ttl}
}

func (c *CachedClient) ListUsers(ctx context.Context) ([]models.User, error) {
	return cached(ctx, c, keyPrefix+"users", c.next.ListUsers)
}

func (c *CachedClient) GetUser(ctx context.Context, id string) (models.User, error) {
	return cached(ctx, c, keyPrefix+"user:"+id, func(ctx context.Context) (models.User, error) {
		return c.next.GetUser(ctx, id)
	})
}

func (c *CachedClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	return cached(ctx, c, keyPrefix+"products", c.next.ListProducts)
}

func (c *CachedClient) GetProduct(ctx context.Context, id string) (models.Product, error) {
	return cached(ctx, c, keyPrefix+"product:"+id, func(ctx context.Context) (models.Product, error) {
		return c.next.GetProduct(ctx, id)
	})
}

func (c *CachedClient) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return cached(ctx, c, keyPrefix+"transactions", c.next.ListTransactions)
}

func (c *CachedClient) GetTransaction(ctx context.Context, id string) (models.Transaction, error) {
	return cached(ctx, c, keyPrefix+"transaction:"+id, func(ctx context.Context) (models.Transaction, error) {
		return c.next.GetTransaction(ctx, id)
	})
}

// Invalidate drops every cached backend response.
func (c *CachedClient) Invalidate(ctx context.Context) error {
	return c.store.DeletePrefix(ctx, keyPrefix)
}

func cached[T any](ctx context.Context, c *CachedClient, key string, fetch func(context.Context) (T, error)) (T, error) {
	var out T
	err := cache.GetJSON(ctx, c.store, key, &out)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed, fetching from backend")
	}

	// The fetch is shared by every caller waiting on key, so it must not be
	// cancelled by whichever caller happened to start it.
	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()

		fresh, err := fetch(fctx)
		if err != nil {
			return fresh, err
		}
		if err := cache.SetJSON(fctx, c.store, key, fresh, c.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
		return fresh, nil
	})

	select {
	case <-ctx.Done():
		return out, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return out, res.Err
		}
		return res.Val.(T), nil
	}
}
