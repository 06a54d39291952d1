package models

import "time"

// User is a WhatsApp customer known to the commerce backend.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phone_number"`
	Email        string    `json:"email,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at,omitzero"`
}

// DisplayName falls back to the phone number for users who never shared a name.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.PhoneNumber
}
