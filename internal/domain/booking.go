package domain

import "time"

// BookingStatus represents the ride progress of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further ride-status transition is allowed.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// CanTransitionTo reports whether s -> next is a lawful edge.
// pending -> confirmed -> completed; cancelled reachable from pending or confirmed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCompleted || next == BookingStatusCancelled
	default:
		return false
	}
}

// PaymentStatus represents the deposit payment track of a booking.
// It is independent of the ride status: a cancelled booking can still
// end up deposit_paid if the provider confirms late.
type PaymentStatus string

const (
	PaymentDepositPending PaymentStatus = "deposit_pending"
	PaymentDepositPaid    PaymentStatus = "deposit_paid"
	PaymentDepositFailed  PaymentStatus = "deposit_failed"
)

// Booking represents a persisted ride request with its fare and both
// status tracks. Distance and price are fixed at creation and never
// recomputed.
type Booking struct {
	ID         string
	UserID     string // empty for anonymous public bookings
	Pickup     string
	Dropoff    string
	DistanceKm float64
	Price      float64
	PickupAt   time.Time
	CreatedAt  time.Time

	Status BookingStatus

	DepositAmount float64
	DepositPaid   bool
	PaymentStatus PaymentStatus

	// External payment provider references. ConfirmationRef is
	// first-write-wins: once set it is never overwritten.
	PaymentSessionRef      string
	PaymentConfirmationRef string

	// Contact metadata, present mainly on anonymous bookings.
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Notes         string
}
