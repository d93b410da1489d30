package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/jackc/pgx/v5"
)

type BookingRepository interface {
	// Book debits the user by booking.PricePaid and inserts the booking in
	// one transaction. On success booking.ID and booking.BookingDate are set.
	Book(ctx context.Context, userID string, booking *domain.Booking) error
	ListByEmail(ctx context.Context, email string, limit int) ([]domain.BookingWithFlight, error)
	Stats(ctx context.Context, email string) (*domain.UserStats, error)
}

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Book(ctx context.Context, userID string, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// The row lock holds off any other debit of this user until commit, so
	// the balance checked here is the balance we write against.
	var balance float64
	if err := tx.QueryRow(ctx, `SELECT balance FROM users WHERE id=$1 FOR UPDATE`, userID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("lock user %s: %w", userID, err)
	}
	if balance < booking.PricePaid {
		return domain.ErrInsufficientFunds
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET balance = balance - $1, updated_at = now() WHERE id=$2`, booking.PricePaid, userID); err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientFunds
		}
		return fmt.Errorf("debit user %s: %w", userID, err)
	}

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (flight_id, passenger_name, passenger_email, price_paid, pnr)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, booking_date`, booking.FlightID, booking.PassengerName, booking.PassengerEmail, booking.PricePaid, booking.PNR).
		Scan(&booking.ID, &booking.BookingDate); err != nil {
		switch {
		case isDuplicatePNR(err):
			return domain.ErrDuplicatePNR
		case isForeignKeyViolation(err):
			return domain.ErrFlightNotFound
		}
		return fmt.Errorf("insert booking %s: %w", booking.PNR, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit booking %s: %w", booking.PNR, err)
	}
	return nil
}

func (r *PGBookingRepository) ListByEmail(ctx context.Context, email string, limit int) ([]domain.BookingWithFlight, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.id, b.flight_id, b.passenger_name, b.passenger_email, b.price_paid, b.booking_date, b.pnr,
		       f.id, f.airline, f.departure_city, f.arrival_city, f.departure_time, f.arrival_time, f.base_price
		FROM bookings b
		JOIN flights f ON f.id = b.flight_id
		WHERE b.passenger_email = $1
		ORDER BY b.booking_date DESC, b.id DESC
		LIMIT $2`, email, limit)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.BookingWithFlight, 0)
	for rows.Next() {
		var b domain.BookingWithFlight
		if err := rows.Scan(&b.ID, &b.FlightID, &b.PassengerName, &b.PassengerEmail, &b.PricePaid, &b.BookingDate, &b.PNR,
			&b.Flight.ID, &b.Flight.Airline, &b.Flight.DepartureCity, &b.Flight.ArrivalCity, &b.Flight.DepartureTime, &b.Flight.ArrivalTime, &b.Flight.BasePrice); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Stats(ctx context.Context, email string) (*domain.UserStats, error) {
	stats := &domain.UserStats{FavoriteDestination: domain.NoFavoriteDestination}

	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE passenger_email=$1`, email).Scan(&stats.TotalFlights); err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	if stats.TotalFlights == 0 {
		return stats, nil
	}

	err := r.db.QueryRow(ctx, `
		SELECT f.arrival_city
		FROM bookings b
		JOIN flights f ON f.id = b.flight_id
		WHERE b.passenger_email = $1
		GROUP BY f.arrival_city
		ORDER BY count(*) DESC, f.arrival_city
		LIMIT 1`, email).Scan(&stats.FavoriteDestination)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("favourite destination: %w", err)
	}
	return stats, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
