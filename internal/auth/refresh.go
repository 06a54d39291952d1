package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/cache"
)

const refreshKeyPrefix = "refresh:"

var ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

// refreshStore keeps opaque refresh tokens in the shared cache so they
// survive restarts when Redis backs it.
type refreshStore struct {
	store cache.Store
	ttl   time.Duration
}

func newRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s refreshStore) issue(ctx context.Context, username string) (string, error) {
	token, err := newRefreshToken()
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, refreshKeyPrefix+token, []byte(username), s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// consume returns the owner of token and deletes it, so every refresh token
// is single use.
func (s refreshStore) consume(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidRefreshToken
	}
	raw, err := s.store.Take(ctx, refreshKeyPrefix+token)
	if errors.Is(err, cache.ErrCacheMiss) {
		return "", ErrInvalidRefreshToken
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (s refreshStore) revoke(ctx context.Context, token string) error {
	return s.store.Delete(ctx, refreshKeyPrefix+token)
}
