package repository

import (
	"context"

	"github.com/oksasatya/user-registration/internal/domain/entity"
)

// ConfirmationRepository persists verification tokens.
type ConfirmationRepository interface {
	Create(ctx context.Context, c *entity.Confirmation) error
	// GetByToken matches the token exactly and loads the owning user.
	GetByToken(ctx context.Context, token string) (*entity.Confirmation, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Confirmation, error)
	Delete(ctx context.Context, id string) error
}
