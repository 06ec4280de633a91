package service

import (
	"context"
	"fmt"

	"driveus/internal/domain"
	"driveus/internal/payment"
	"driveus/internal/repository"
)

// PaymentService reconciles bookings with the external payment
// provider: it opens deposit checkout sessions and applies verified
// asynchronous events. Events may arrive duplicated or out of order;
// every state change is a conditional update so concurrent deliveries
// collapse into no-ops instead of double side effects.
type PaymentService struct {
	bookingRepo repository.BookingRepository
	provider    payment.Provider
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(bookingRepo repository.BookingRepository, provider payment.Provider) *PaymentService {
	return &PaymentService{
		bookingRepo: bookingRepo,
		provider:    provider,
	}
}

// OpenDepositSession creates a provider checkout session for the
// booking's deposit and records the session ref. Re-opening while the
// deposit is still pending replaces the ref; a paid deposit is never
// reopened.
func (s *PaymentService) OpenDepositSession(ctx context.Context, bookingID string) (*payment.CheckoutSession, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.PaymentStatus == domain.PaymentDepositPaid {
		return nil, ErrDepositAlreadyPaid
	}

	session, err := s.provider.CreateDepositSession(ctx, booking, booking.DepositAmount)
	if err != nil {
		return nil, fmt.Errorf("open deposit session: %w", err)
	}

	ok, err := s.bookingRepo.SetPaymentSession(ctx, booking.ID, session.SessionRef)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Paid between our read and the write.
		return nil, ErrDepositAlreadyPaid
	}

	return session, nil
}

// ApplyEvent applies a verified provider event to the booking it
// references. Authenticity is the caller's responsibility; ordering and
// uniqueness are handled here.
func (s *PaymentService) ApplyEvent(ctx context.Context, event payment.Event) error {
	switch event.Kind {
	case payment.EventDepositCompleted:
		return s.applyDepositCompleted(ctx, event)
	case payment.EventDepositExpired:
		return s.applyDepositExpired(ctx, event)
	default:
		// Unknown kinds are ignored: the provider vocabulary grows.
		return nil
	}
}

func (s *PaymentService) applyDepositCompleted(ctx context.Context, event payment.Event) error {
	if event.BookingID == "" {
		return nil
	}

	booking, err := s.bookingRepo.GetByID(ctx, event.BookingID)
	if err != nil {
		return err
	}

	if booking.PaymentStatus == domain.PaymentDepositPaid {
		// Duplicate delivery, expected and harmless.
		return nil
	}

	// Single conditional update: marks the deposit paid, promotes the
	// ride status unless terminal, records the confirmation ref
	// first-write-wins. A lost race means another delivery won; the
	// outcome is identical either way.
	_, err = s.bookingRepo.MarkDepositPaid(ctx, event.BookingID, event.ConfirmationRef)
	return err
}

func (s *PaymentService) applyDepositExpired(ctx context.Context, event payment.Event) error {
	if event.BookingID == "" {
		return nil
	}

	booking, err := s.bookingRepo.GetByID(ctx, event.BookingID)
	if err != nil {
		return err
	}

	if booking.PaymentStatus == domain.PaymentDepositPaid {
		// Late expiry after confirmation: never downgrade.
		return nil
	}

	// Guarded against the paid state; the ride status is untouched.
	_, err = s.bookingRepo.MarkDepositFailed(ctx, event.BookingID)
	return err
}
