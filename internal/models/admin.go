package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// AdminUser is an operator allowed to sign in to the dashboard.
type AdminUser struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
