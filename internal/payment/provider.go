package payment

import (
	"context"
	"errors"

	"driveus/internal/domain"
)

// ErrInvalidSignature is returned when a webhook payload fails
// authenticity verification. Always a hard rejection, never a no-op.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// CheckoutSession is an opened provider checkout for a deposit.
type CheckoutSession struct {
	URL        string
	SessionRef string
}

// Provider creates checkout sessions with the external payment provider.
type Provider interface {
	// CreateDepositSession opens a checkout session collecting the
	// deposit amount for the given booking.
	CreateDepositSession(ctx context.Context, booking *domain.Booking, amount float64) (*CheckoutSession, error)
}

// EventKind identifies a provider event. Kinds outside this vocabulary
// are passed through and ignored by reconciliation.
type EventKind string

const (
	EventDepositCompleted EventKind = "checkout.session.completed"
	EventDepositExpired   EventKind = "checkout.session.expired"
)

// Event is a provider notification whose authenticity has already been
// verified. Ordering and uniqueness are NOT guaranteed by the provider.
type Event struct {
	Kind            EventKind
	BookingID       string
	SessionRef      string
	ConfirmationRef string
}

// Verifier authenticates raw webhook payloads and decodes them into
// events.
type Verifier interface {
	// VerifyEvent checks the payload signature and extracts the event.
	// Returns ErrInvalidSignature if authenticity cannot be established.
	VerifyEvent(payload []byte, signature string) (*Event, error)
}
