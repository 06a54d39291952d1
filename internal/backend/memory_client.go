package backend

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
)

// MemoryClient serves a fixed data set. Used in tests and local development
// when no bot backend is reachable.
type MemoryClient struct {
	mu    sync.RWMutex
	data  Data
	calls atomic.Int64
	err   error
}

func NewMemoryClient(data Data) *MemoryClient {
	return &MemoryClient{data: data}
}

// SetData replaces the served data set.
func (m *MemoryClient) SetData(data Data) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}

// FailWith makes every call return err until reset with nil.
func (m *MemoryClient) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls reports how many requests have been served.
func (m *MemoryClient) Calls() int64 {
	return m.calls.Load()
}

func (m *MemoryClient) ListUsers(_ context.Context) ([]models.User, error) {
	m.calls.Add(1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]models.User{}, m.data.Users...), nil
}

func (m *MemoryClient) GetUser(_ context.Context, id string) (models.User, error) {
	m.calls.Add(1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return models.User{}, m.err
	}
	for _, u := range m.data.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (m *MemoryClient) ListProducts(_ context.Context) ([]models.Product, error) {
	m.calls.Add(1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]models.Product{}, m.data.Products...), nil
}

func (m *MemoryClient) GetProduct(_ context.Context, id string) (models.Product, error) {
	m.calls.Add(1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return models.Product{}, m.err
	}
	for _, p := range m.data.Products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrNotFound
}

func (m *MemoryClient) ListTransactions(_ context.Context) ([]models.Transaction, error) {
	m.calls.Add(1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]models.Transaction{}, m.data.Transactions...), nil
}

func (m *MemoryClient) GetTransaction(_ context.Context, id string) (models.Transaction, error) {
	m.calls.Add(1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return models.Transaction{}, m.err
	}
	for _, t := range m.data.Transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Transaction{}, ErrNotFound
}

// Ping always succeeds unless a failure was injected.
func (m *MemoryClient) Ping(_ context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}
