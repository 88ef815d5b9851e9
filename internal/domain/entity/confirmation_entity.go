package entity

import (
	"time"

	"github.com/google/uuid"
)

// Confirmation is the single-use email verification token of a pending user.
// One per user; removed once redeemed.
type Confirmation struct {
	ID        string
	Token     string
	UserID    string
	CreatedAt time.Time

	// User is the owning account, loaded alongside the confirmation.
	User *User
}

// NewConfirmation issues a confirmation with a fresh random token for u.
func NewConfirmation(u *User) *Confirmation {
	return &Confirmation{
		Token:  uuid.NewString(),
		UserID: u.ID,
		User:   u,
	}
}
