package domain

import "time"

type Flight struct {
	ID            int64     `json:"id"`
	Airline       string    `json:"airline"`
	DepartureCity string    `json:"departure_city"`
	ArrivalCity   string    `json:"arrival_city"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	BasePrice     float64   `json:"base_price"`
}

// SearchFilter narrows the flight list. Empty fields are ignored; Date
// selects departures within that calendar day.
type SearchFilter struct {
	From string    `json:"from,omitempty"`
	To   string    `json:"to,omitempty"`
	Date time.Time `json:"date,omitempty"`
}
