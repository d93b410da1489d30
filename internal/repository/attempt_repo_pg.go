package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/skyfare/internal/domain"
)

// PGAttemptLog keeps one row per quote attempt in surge_attempts.
type PGAttemptLog struct {
	db DB
}

func NewAttemptLog(db DB) *PGAttemptLog {
	return &PGAttemptLog{db: db}
}

func (l *PGAttemptLog) Record(ctx context.Context, flightID int64, at time.Time) error {
	if _, err := l.db.Exec(ctx, `INSERT INTO surge_attempts (flight_id, attempt_at) VALUES ($1, $2)`, flightID, at); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrFlightNotFound
		}
		return fmt.Errorf("record attempt for flight %d: %w", flightID, err)
	}
	return nil
}

// EvictBefore removes attempts of every flight older than cutoff.
func (l *PGAttemptLog) EvictBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := l.db.Exec(ctx, `DELETE FROM surge_attempts WHERE attempt_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("evict attempts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (l *PGAttemptLog) CountSince(ctx context.Context, flightID int64, since time.Time) (int64, error) {
	var count int64
	if err := l.db.QueryRow(ctx, `SELECT count(*) FROM surge_attempts WHERE flight_id=$1 AND attempt_at >= $2`, flightID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count attempts for flight %d: %w", flightID, err)
	}
	return count, nil
}
