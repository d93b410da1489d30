package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/jackc/pgx/v5"
)

type FlightRepository interface {
	Search(ctx context.Context, filter domain.SearchFilter, limit int) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db DB
}

func NewFlightRepository(db DB) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, airline, departure_city, arrival_city, departure_time, arrival_time, base_price`

func (r *PGFlightRepository) Search(ctx context.Context, filter domain.SearchFilter, limit int) ([]domain.Flight, error) {
	query, args := buildSearchQuery(filter, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search flights: %w", err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(&f.ID, &f.Airline, &f.DepartureCity, &f.ArrivalCity, &f.DepartureTime, &f.ArrivalTime, &f.BasePrice); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func buildSearchQuery(filter domain.SearchFilter, limit int) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.From != "" {
		args = append(args, "%"+filter.From+"%")
		conds = append(conds, fmt.Sprintf("departure_city ILIKE $%d", len(args)))
	}
	if filter.To != "" {
		args = append(args, "%"+filter.To+"%")
		conds = append(conds, fmt.Sprintf("arrival_city ILIKE $%d", len(args)))
	}
	if !filter.Date.IsZero() {
		args = append(args, filter.Date, filter.Date.AddDate(0, 0, 1))
		conds = append(conds, fmt.Sprintf("departure_time >= $%d AND departure_time < $%d", len(args)-1, len(args)))
	}

	query := `SELECT ` + flightColumns + ` FROM flights`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY departure_time LIMIT $%d`, len(args))
	return query, args
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.Airline, &f.DepartureCity, &f.ArrivalCity, &f.DepartureTime, &f.ArrivalTime, &f.BasePrice); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, fmt.Errorf("get flight %d: %w", id, err)
	}
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
