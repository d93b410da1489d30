package domain

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is what the auth provider vouches for on a request.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type UserStats struct {
	TotalFlights        int64  `json:"total_flights"`
	FavoriteDestination string `json:"favorite_destination"`
}

const NoFavoriteDestination = "Not flown yet"
