package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/jackc/pgx/v5"
)

// SessionRepository reads sessions issued by the external auth provider.
type SessionRepository interface {
	// FindIdentity returns nil without error for unknown or expired tokens.
	FindIdentity(ctx context.Context, token string) (*domain.Identity, error)
}

type PGSessionRepository struct {
	db DB
}

func NewSessionRepository(db DB) SessionRepository {
	return &PGSessionRepository{db: db}
}

func (r *PGSessionRepository) FindIdentity(ctx context.Context, token string) (*domain.Identity, error) {
	var id domain.Identity
	err := r.db.QueryRow(ctx, `
		SELECT u.id, u.email, u.name
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > now()`, token).Scan(&id.UserID, &id.Email, &id.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &id, nil
}

var _ SessionRepository = (*PGSessionRepository)(nil)
