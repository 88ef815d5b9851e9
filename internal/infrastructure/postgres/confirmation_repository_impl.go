package postgres

import (
	"context"

	"github.com/oksasatya/user-registration/internal/domain/entity"
	"github.com/oksasatya/user-registration/internal/domain/repository"
)

type ConfirmationRepository struct {
	q querier
}

func (r *ConfirmationRepository) Create(ctx context.Context, c *entity.Confirmation) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO confirmations (token, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, c.Token, c.UserID)

	return translate(row.Scan(&c.ID, &c.CreatedAt))
}

const selectConfirmationWithUser = `
	SELECT c.id, c.token, c.user_id, c.created_at,
	       u.id, u.name, u.email, u.enabled, u.created_at, u.updated_at
	FROM confirmations c
	JOIN users u ON u.id = c.user_id
`

// GetByToken locks the confirmation row until the transaction ends, so a
// concurrent redemption of the same token waits and then finds nothing.
func (r *ConfirmationRepository) GetByToken(ctx context.Context, token string) (*entity.Confirmation, error) {
	return r.scanOne(ctx, selectConfirmationWithUser+`WHERE c.token = $1 FOR UPDATE OF c`, token)
}

func (r *ConfirmationRepository) GetByUserID(ctx context.Context, userID string) (*entity.Confirmation, error) {
	return r.scanOne(ctx, selectConfirmationWithUser+`WHERE c.user_id = $1`, userID)
}

func (r *ConfirmationRepository) scanOne(ctx context.Context, query string, arg string) (*entity.Confirmation, error) {
	c := &entity.Confirmation{User: &entity.User{}}
	u := c.User

	row := r.q.QueryRow(ctx, query, arg)
	if err := row.Scan(&c.ID, &c.Token, &c.UserID, &c.CreatedAt,
		&u.ID, &u.Name, &u.Email, &u.Enabled, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, translate(err)
	}

	return c, nil
}

func (r *ConfirmationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.Exec(ctx, `DELETE FROM confirmations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ConfirmationRepository = (*ConfirmationRepository)(nil)
