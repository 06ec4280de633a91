package repository

import (
	"context"

	"driveus/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
//
// Every mutation that has a state-machine precondition is a single
// conditional update keyed by id: implementations must not read-modify-write
// in separate statements. The bool results report whether the precondition
// held, so callers can distinguish an idempotent no-op from a real change.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetAll retrieves bookings ordered by creation time, most recent first.
	GetAll(ctx context.Context) ([]*domain.Booking, error)

	// GetByStatus retrieves bookings with the given ride status,
	// most recent first.
	GetByStatus(ctx context.Context, status domain.BookingStatus) ([]*domain.Booking, error)

	// UpdateStatus transitions the ride status from -> to.
	// Returns false if the booking no longer has status `from`.
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error)

	// SetPaymentSession stores the provider session ref and marks the
	// deposit pending. Returns false once the deposit has been paid.
	SetPaymentSession(ctx context.Context, id, sessionRef string) (bool, error)

	// MarkDepositPaid applies a verified payment confirmation: sets
	// deposit_paid, payment_status=deposit_paid, promotes the ride status
	// to confirmed unless it is terminal, and records confirmationRef
	// only if none is recorded yet. Returns false if the deposit was
	// already paid (duplicate or late delivery).
	MarkDepositPaid(ctx context.Context, id, confirmationRef string) (bool, error)

	// MarkDepositFailed records a session expiry. Returns false if the
	// deposit was already paid; the ride status is never touched.
	MarkDepositFailed(ctx context.Context, id string) (bool, error)
}
