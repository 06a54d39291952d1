package repo

import (
	"errors"

	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
)

var (
	ErrAdminNotFound = errors.New("admin user not found")
	ErrUsernameTaken = errors.New("unique constraint violation: username already exists")
)

type AdminRepository interface {
	GetByUsername(username string) (models.AdminUser, error)
	Create(u models.AdminUser) (models.AdminUser, error)
}
