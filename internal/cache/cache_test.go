package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb), mr
}

func storeContract(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, s.Set(ctx, "backend:users", []byte("u"), time.Minute))
	require.NoError(t, s.Set(ctx, "backend:products", []byte("p"), time.Minute))
	require.NoError(t, s.Set(ctx, "insight:sales", []byte("i"), time.Minute))

	got, err := s.Get(ctx, "backend:users")
	require.NoError(t, err)
	assert.Equal(t, []byte("u"), got)

	require.NoError(t, s.DeletePrefix(ctx, "backend:"))
	_, err = s.Get(ctx, "backend:products")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = s.Get(ctx, "insight:sales")
	assert.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "insight:sales"))
	_, err = s.Get(ctx, "insight:sales")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, s.Set(ctx, "refresh:abc", []byte("admin"), time.Minute))
	got, err = s.Take(ctx, "refresh:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("admin"), got)
	_, err = s.Take(ctx, "refresh:abc")
	assert.ErrorIs(t, err, ErrCacheMiss)

	for want := int64(1); want <= 3; want++ {
		n, err := s.Incr(ctx, "strikes:1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}

func TestMemoryStoreContract(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestRedisStoreContract(t *testing.T) {
	s, _ := newRedisStore(t)
	storeContract(t, s)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Second))
	_, err := s.Incr(ctx, "c", time.Second)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	n, err := s.Incr(ctx, "c", time.Second)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "expired counters restart")
}

func TestRedisStoreIncrSetsTTL(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	_, err := s.Incr(ctx, "strikes:x", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL("strikes:x"))

	mr.FastForward(2 * time.Minute)
	n, err := s.Incr(ctx, "strikes:x", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedisStoreTakeIsSingleUse(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "refresh:tok", []byte("admin"), time.Minute))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Take(ctx, "refresh:tok"); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	type payload struct {
		Name string `json:"name"`
	}
	require.NoError(t, SetJSON(ctx, s, "p", payload{Name: "Kopi"}, 0))

	var out payload
	require.NoError(t, GetJSON(ctx, s, "p", &out))
	assert.Equal(t, "Kopi", out.Name)

	require.NoError(t, s.Set(ctx, "bad", []byte("{"), 0))
	assert.Error(t, GetJSON(ctx, s, "bad", &out))
}
