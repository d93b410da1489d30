package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"

	pnrConstraint = "bookings_pnr_key"
)

func pgCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

func isDuplicatePNR(err error) bool {
	code, constraint := pgCode(err)
	return code == uniqueViolation && constraint == pnrConstraint
}

func isForeignKeyViolation(err error) bool {
	code, _ := pgCode(err)
	return code == foreignKeyViolation
}

func isCheckViolation(err error) bool {
	code, _ := pgCode(err)
	return code == checkViolation
}
