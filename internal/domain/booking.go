package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID             int64     `json:"id"`
	FlightID       int64     `json:"flight_id"`
	PassengerName  string    `json:"passenger_name"`
	PassengerEmail string    `json:"passenger_email"`
	PricePaid      float64   `json:"price_paid"`
	BookingDate    time.Time `json:"booking_date"`
	PNR            string    `json:"pnr"`
}

type BookingWithFlight struct {
	Booking
	Flight Flight `json:"flight"`
}

// NewPNR returns a six character booking reference. Collisions are caught
// by the unique constraint on bookings.pnr, not here.
func NewPNR() string {
	return strings.ToUpper(uuid.NewString()[:6])
}
