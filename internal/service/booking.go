package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"driveus/internal/domain"
	"driveus/internal/repository"
	"driveus/internal/routing"
)

// BookingService owns the booking lifecycle: creation, quoting, and the
// ride-status state machine.
type BookingService struct {
	bookingRepo         repository.BookingRepository
	resolver            routing.Resolver
	pricing             *PricingService
	notificationService *NotificationService
	depositAmount       float64
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	resolver routing.Resolver,
	pricing *PricingService,
	notificationService *NotificationService,
	depositAmount float64,
) *BookingService {
	return &BookingService{
		bookingRepo:         bookingRepo,
		resolver:            resolver,
		pricing:             pricing,
		notificationService: notificationService,
		depositAmount:       depositAmount,
	}
}

// CreateBookingRequest contains the parameters for an authenticated
// booking with a caller-supplied distance.
type CreateBookingRequest struct {
	UserID     string
	Pickup     string
	Dropoff    string
	DistanceKm float64
	PickupRaw  string // RFC3339, empty means now
}

// CreateBooking validates, prices, and persists a booking for an
// authenticated user. Distance is taken as given, not resolved.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.Pickup == "" || req.Dropoff == "" {
		return nil, ErrMissingFields
	}
	if !validDistance(req.DistanceKm) {
		return nil, ErrInvalidDistance
	}

	pickupAt, err := parsePickupAt(req.PickupRaw)
	if err != nil {
		return nil, err
	}

	booking := s.newBooking(req.Pickup, req.Dropoff, req.DistanceKm, pickupAt)
	booking.UserID = req.UserID

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.notifyCreated(ctx, booking)
	return booking, nil
}

// CreatePublicBookingRequest contains the parameters for an anonymous
// booking resolved from free-text addresses.
type CreatePublicBookingRequest struct {
	PickupText    string
	DropoffText   string
	PickupRaw     string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Notes         string
}

// CreatePublicBooking geocodes both addresses, computes the driving
// distance and fare, and persists an anonymous booking. Any resolver
// failure is terminal for the request; nothing is persisted.
func (s *BookingService) CreatePublicBooking(ctx context.Context, req CreatePublicBookingRequest) (*domain.Booking, error) {
	if req.PickupText == "" || req.DropoffText == "" {
		return nil, ErrMissingFields
	}

	pickupAt, err := parsePickupAt(req.PickupRaw)
	if err != nil {
		return nil, err
	}

	pickup, err := s.resolver.Locate(ctx, req.PickupText)
	if err != nil {
		return nil, fmt.Errorf("resolve pickup: %w", err)
	}

	dropoff, err := s.resolver.Locate(ctx, req.DropoffText)
	if err != nil {
		return nil, fmt.Errorf("resolve dropoff: %w", err)
	}

	distanceKm, err := s.resolver.DrivingDistanceKm(ctx, pickup.Coordinate, dropoff.Coordinate)
	if err != nil {
		return nil, fmt.Errorf("resolve distance: %w", err)
	}
	if !validDistance(distanceKm) {
		return nil, ErrInvalidDistance
	}

	booking := s.newBooking(pickup.Label, dropoff.Label, distanceKm, pickupAt)
	booking.CustomerName = req.CustomerName
	booking.CustomerPhone = req.CustomerPhone
	booking.CustomerEmail = req.CustomerEmail
	booking.Notes = req.Notes

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	s.notifyCreated(ctx, booking)
	return booking, nil
}

// newBooking builds the entity both creation paths share: price fixed
// once from distance and pickup time, both status tracks at their
// initial states.
func (s *BookingService) newBooking(pickup, dropoff string, distanceKm float64, pickupAt time.Time) *domain.Booking {
	return &domain.Booking{
		ID:            uuid.New().String(),
		Pickup:        pickup,
		Dropoff:       dropoff,
		DistanceKm:    distanceKm,
		Price:         s.pricing.FareAt(distanceKm, pickupAt),
		PickupAt:      pickupAt,
		CreatedAt:     time.Now(),
		Status:        domain.BookingStatusPending,
		DepositAmount: s.depositAmount,
		DepositPaid:   false,
		PaymentStatus: domain.PaymentDepositPending,
	}
}

// Quote contains a fare estimate. Nothing is persisted for a quote.
type Quote struct {
	Pickup     string
	Dropoff    string
	DistanceKm float64
	Price      float64
	PickupRaw  string
}

// Estimate prices a trip from a caller-supplied distance.
func (s *BookingService) Estimate(ctx context.Context, pickup, dropoff string, distanceKm float64, pickupRaw string) (*Quote, error) {
	if !validDistance(distanceKm) {
		return nil, ErrInvalidDistance
	}
	if pickupRaw == "" {
		pickupRaw = time.Now().Format(time.RFC3339)
	}

	return &Quote{
		Pickup:     pickup,
		Dropoff:    dropoff,
		DistanceKm: distanceKm,
		Price:      s.pricing.Fare(distanceKm, pickupRaw),
		PickupRaw:  pickupRaw,
	}, nil
}

// EstimateAddresses prices a trip from free-text addresses using the
// resolver in quote-only mode.
func (s *BookingService) EstimateAddresses(ctx context.Context, pickupText, dropoffText, pickupRaw string) (*Quote, error) {
	if pickupText == "" || dropoffText == "" {
		return nil, ErrMissingFields
	}

	pickup, err := s.resolver.Locate(ctx, pickupText)
	if err != nil {
		return nil, fmt.Errorf("resolve pickup: %w", err)
	}

	dropoff, err := s.resolver.Locate(ctx, dropoffText)
	if err != nil {
		return nil, fmt.Errorf("resolve dropoff: %w", err)
	}

	distanceKm, err := s.resolver.DrivingDistanceKm(ctx, pickup.Coordinate, dropoff.Coordinate)
	if err != nil {
		return nil, fmt.Errorf("resolve distance: %w", err)
	}

	if pickupRaw == "" {
		pickupRaw = time.Now().Format(time.RFC3339)
	}

	return &Quote{
		Pickup:     pickup.Label,
		Dropoff:    dropoff.Label,
		DistanceKm: distanceKm,
		Price:      s.pricing.Fare(distanceKm, pickupRaw),
		PickupRaw:  pickupRaw,
	}, nil
}

// GetBooking retrieves a booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	if id == "" {
		return nil, ErrInvalidBookingID
	}
	return s.bookingRepo.GetByID(ctx, id)
}

// ListBookings returns bookings most recent first, optionally filtered
// by ride status.
func (s *BookingService) ListBookings(ctx context.Context, status string) ([]*domain.Booking, error) {
	if status == "" {
		return s.bookingRepo.GetAll(ctx)
	}

	bs := domain.BookingStatus(status)
	if !bs.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.bookingRepo.GetByStatus(ctx, bs)
}

// SetStatus transitions the ride status along a lawful edge. The write
// is a compare-and-set on the status the caller observed: losing a race
// against a concurrent transition surfaces as a conflict, never as a
// silent overwrite.
func (s *BookingService) SetStatus(ctx context.Context, id string, newStatus string) (*domain.Booking, error) {
	if id == "" {
		return nil, ErrInvalidBookingID
	}

	target := domain.BookingStatus(newStatus)
	if !target.Valid() {
		return nil, ErrInvalidStatus
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !booking.Status.CanTransitionTo(target) {
		return nil, ErrIllegalTransition
	}

	ok, err := s.bookingRepo.UpdateStatus(ctx, id, booking.Status, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBookingConflict
	}

	oldStatus := booking.Status
	booking.Status = target

	s.notifyStatusChanged(ctx, booking, oldStatus, target)
	return booking, nil
}

// notifyCreated emits the booking-created notification without blocking
// the request. Delivery failures never affect the committed booking.
func (s *BookingService) notifyCreated(ctx context.Context, booking *domain.Booking) {
	if s.notificationService == nil {
		return
	}
	b := *booking
	go func() {
		_ = s.notificationService.BookingCreated(context.WithoutCancel(ctx), &b)
	}()
}

func (s *BookingService) notifyStatusChanged(ctx context.Context, booking *domain.Booking, from, to domain.BookingStatus) {
	if s.notificationService == nil {
		return
	}
	b := *booking
	go func() {
		_ = s.notificationService.StatusChanged(context.WithoutCancel(ctx), &b, from, to)
	}()
}

// parsePickupAt parses the requested pickup time; empty means now.
func parsePickupAt(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, ErrInvalidPickupTime
	}
	return t, nil
}
