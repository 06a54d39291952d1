package repo

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
)

type PostgresAdminRepository struct {
	db *sql.DB
}

func NewPostgresAdminRepository(db *sql.DB) *PostgresAdminRepository {
	return &PostgresAdminRepository{db: db}
}

func (r *PostgresAdminRepository) GetByUsername(username string) (models.AdminUser, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var u models.AdminUser
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, role, created_at FROM admin_users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.AdminUser{}, ErrAdminNotFound
	}
	return u, err
}

func (r *PostgresAdminRepository) Create(u models.AdminUser) (models.AdminUser, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO admin_users (username, password_hash, role) VALUES ($1, $2, $3) RETURNING id, created_at`,
		u.Username, u.PasswordHash, u.Role).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return models.AdminUser{}, ErrUsernameTaken
		}
		return models.AdminUser{}, err
	}
	return u, nil
}
