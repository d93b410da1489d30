package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewRepositories(t *testing.T) {
	pool := &pgxpool.Pool{}
	assert.NotNil(t, NewFlightRepository(pool))
	assert.NotNil(t, NewBookingRepository(pool))
	assert.NotNil(t, NewUserRepository(pool))
	assert.NotNil(t, NewSessionRepository(pool))
	assert.NotNil(t, NewAttemptLog(pool))
}

func TestBuildSearchQuery(t *testing.T) {
	t.Run("no filters", func(t *testing.T) {
		query, args := buildSearchQuery(domain.SearchFilter{}, 10)
		assert.NotContains(t, query, "WHERE")
		assert.Contains(t, query, "LIMIT $1")
		assert.Equal(t, []any{10}, args)
	})

	t.Run("all filters", func(t *testing.T) {
		day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
		query, args := buildSearchQuery(domain.SearchFilter{From: "Delhi", To: "Mumbai", Date: day}, 5)

		assert.Contains(t, query, "departure_city ILIKE $1")
		assert.Contains(t, query, "arrival_city ILIKE $2")
		assert.Contains(t, query, "departure_time >= $3 AND departure_time < $4")
		assert.Contains(t, query, "LIMIT $5")
		assert.Equal(t, []any{"%Delhi%", "%Mumbai%", day, day.AddDate(0, 0, 1), 5}, args)
	})

	t.Run("destination only", func(t *testing.T) {
		query, args := buildSearchQuery(domain.SearchFilter{To: "Goa"}, 10)
		assert.Contains(t, query, "arrival_city ILIKE $1")
		assert.Contains(t, query, "LIMIT $2")
		assert.Len(t, args, 2)
	})
}

func TestPgErrorClassification(t *testing.T) {
	dup := &pgconn.PgError{Code: uniqueViolation, ConstraintName: pnrConstraint}
	otherUnique := &pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_email_key"}
	fk := &pgconn.PgError{Code: foreignKeyViolation}
	check := &pgconn.PgError{Code: checkViolation}

	assert.True(t, isDuplicatePNR(fmt.Errorf("insert: %w", dup)))
	assert.False(t, isDuplicatePNR(otherUnique))
	assert.False(t, isDuplicatePNR(errors.New("boom")))
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isForeignKeyViolation(dup))
	assert.True(t, isCheckViolation(check))
}
