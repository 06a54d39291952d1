package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

// Store is the request cache shared by the backend client, insights, auth
// refresh tokens and login strike counters.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Take returns the value and deletes the key in one step; only one of
	// several concurrent callers gets the value.
	Take(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
	// Incr increments a counter, setting ttl when the counter is created.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

func GetJSON(ctx context.Context, s Store, key string, target any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return nil
}

func SetJSON(ctx context.Context, s Store, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw, ttl)
}
