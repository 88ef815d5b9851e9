package postgres

import (
	"context"
	"time"

	"github.com/oksasatya/user-registration/internal/domain/entity"
	"github.com/oksasatya/user-registration/internal/domain/repository"
)

type UserRepository struct {
	q querier
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO users (name, email, enabled)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Enabled)

	return translate(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByEmailIgnoreCase(ctx context.Context, email string) (*entity.User, error) {
	u := &entity.User{}

	row := r.q.QueryRow(ctx, `
		SELECT id, name, email, enabled, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1)
	`, email)

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Enabled, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, translate(err)
	}

	return u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))
	`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()

	res, err := r.q.Exec(ctx, `
		UPDATE users
		SET name = $1, email = $2, enabled = $3, updated_at = $4
		WHERE id = $5
	`, u.Name, u.Email, u.Enabled, u.UpdatedAt, u.ID)
	if err != nil {
		return translate(err)
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
