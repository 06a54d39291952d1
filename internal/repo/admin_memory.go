package repo

import (
	"sync"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
)

type InMemoryAdminRepository struct {
	mu    sync.RWMutex
	users []models.AdminUser
}

func NewInMemoryAdminRepository() *InMemoryAdminRepository {
	return &InMemoryAdminRepository{
		users: []models.AdminUser{},
	}
}

func (r *InMemoryAdminRepository) GetByUsername(username string) (models.AdminUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.AdminUser{}, ErrAdminNotFound
}

func (r *InMemoryAdminRepository) Create(u models.AdminUser) (models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Username == u.Username {
			return models.AdminUser{}, ErrUsernameTaken
		}
	}

	u.ID = len(r.users) + 1
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.users = append(r.users, u)
	return u, nil
}

func (r *InMemoryAdminRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = []models.AdminUser{}
}
