package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// TopUp credits amount and returns the updated user.
	TopUp(ctx context.Context, id string, amount float64) (*domain.User, error)
}

type PGUserRepository struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &PGUserRepository{db: db}
}

func (r *PGUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, email, balance, created_at, updated_at FROM users WHERE id=$1`, id)
	return scanUser(row, id)
}

func (r *PGUserRepository) TopUp(ctx context.Context, id string, amount float64) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `UPDATE users SET balance = balance + $1, updated_at = now() WHERE id=$2
		RETURNING id, name, email, balance, created_at, updated_at`, amount, id)
	return scanUser(row, id)
}

func scanUser(row pgx.Row, id string) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Balance, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("user %s: %w", id, err)
	}
	return &u, nil
}

var _ UserRepository = (*PGUserRepository)(nil)
