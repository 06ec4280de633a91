package domain

import "time"

// User represents an account that can create authenticated bookings.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
