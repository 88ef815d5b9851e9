package entity

import (
	"time"
)

// User is the aggregate root for the registration domain.
// Accounts start disabled and are enabled once their confirmation token is redeemed.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
