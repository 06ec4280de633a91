package postgres

import (
	"context"
	"database/sql"
	"errors"

	"driveus/internal/domain"
	"driveus/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `
	id, user_id, pickup, dropoff, distance_km, price, pickup_at, created_at,
	status, deposit_amount, deposit_paid, payment_status,
	payment_session_ref, payment_confirmation_ref,
	customer_name, customer_phone, customer_email, notes`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := r.q.ExecContext(ctx, query,
		b.ID,
		nullString(b.UserID),
		b.Pickup,
		b.Dropoff,
		b.DistanceKm,
		b.Price,
		b.PickupAt,
		b.CreatedAt,
		b.Status,
		b.DepositAmount,
		b.DepositPaid,
		b.PaymentStatus,
		nullString(b.PaymentSessionRef),
		nullString(b.PaymentConfirmationRef),
		nullString(b.CustomerName),
		nullString(b.CustomerPhone),
		nullString(b.CustomerEmail),
		nullString(b.Notes),
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetAll retrieves bookings, most recent first.
func (r *BookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

// GetByStatus retrieves bookings with the given ride status, most recent first.
func (r *BookingRepository) GetByStatus(ctx context.Context, status domain.BookingStatus) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

// UpdateStatus transitions the ride status with a compare-and-set on the
// current status. A stale precondition affects zero rows.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (bool, error) {
	query := `UPDATE bookings SET status = $1 WHERE id = $2 AND status = $3`

	result, err := r.q.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, err
	}
	return affected(result)
}

// SetPaymentSession stores the provider session ref and marks the deposit
// pending. Guarded so a paid deposit is never reopened; overwriting the
// session ref while still pending is allowed.
func (r *BookingRepository) SetPaymentSession(ctx context.Context, id, sessionRef string) (bool, error) {
	query := `
		UPDATE bookings
		SET payment_session_ref = $1, payment_status = $2
		WHERE id = $3 AND payment_status <> $4
	`

	result, err := r.q.ExecContext(ctx, query, sessionRef, domain.PaymentDepositPending, id, domain.PaymentDepositPaid)
	if err != nil {
		return false, err
	}
	return affected(result)
}

// MarkDepositPaid applies a payment confirmation in one conditional update.
// The ride status is promoted to confirmed unless terminal, and the
// confirmation ref only lands if the column is still NULL.
func (r *BookingRepository) MarkDepositPaid(ctx context.Context, id, confirmationRef string) (bool, error) {
	query := `
		UPDATE bookings
		SET deposit_paid = TRUE,
		    payment_status = $1,
		    status = CASE WHEN status IN ($2, $3) THEN status ELSE $4 END,
		    payment_confirmation_ref = COALESCE(payment_confirmation_ref, $5)
		WHERE id = $6 AND payment_status <> $1
	`

	result, err := r.q.ExecContext(ctx, query,
		domain.PaymentDepositPaid,
		domain.BookingStatusCompleted,
		domain.BookingStatusCancelled,
		domain.BookingStatusConfirmed,
		nullString(confirmationRef),
		id,
	)
	if err != nil {
		return false, err
	}
	return affected(result)
}

// MarkDepositFailed records a session expiry. A paid deposit is never
// downgraded; the ride status is left alone.
func (r *BookingRepository) MarkDepositFailed(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE bookings
		SET payment_status = $1
		WHERE id = $2 AND payment_status <> $3
	`

	result, err := r.q.ExecContext(ctx, query, domain.PaymentDepositFailed, id, domain.PaymentDepositPaid)
	if err != nil {
		return false, err
	}
	return affected(result)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(s scanner) (*domain.Booking, error) {
	var b domain.Booking
	var userID, sessionRef, confirmationRef sql.NullString
	var name, phone, email, notes sql.NullString

	err := s.Scan(
		&b.ID,
		&userID,
		&b.Pickup,
		&b.Dropoff,
		&b.DistanceKm,
		&b.Price,
		&b.PickupAt,
		&b.CreatedAt,
		&b.Status,
		&b.DepositAmount,
		&b.DepositPaid,
		&b.PaymentStatus,
		&sessionRef,
		&confirmationRef,
		&name,
		&phone,
		&email,
		&notes,
	)
	if err != nil {
		return nil, err
	}

	b.UserID = userID.String
	b.PaymentSessionRef = sessionRef.String
	b.PaymentConfirmationRef = confirmationRef.String
	b.CustomerName = name.String
	b.CustomerPhone = phone.String
	b.CustomerEmail = email.String
	b.Notes = notes.String

	return &b, nil
}

func collectBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
