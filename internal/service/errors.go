package service

import "errors"

var (
	// ErrMissingFields is returned when a required request field is absent.
	ErrMissingFields = errors.New("missing required fields")

	// ErrInvalidDistance is returned when the distance is not a finite positive number.
	ErrInvalidDistance = errors.New("invalid distance")

	// ErrInvalidPickupTime is returned when a pickup timestamp cannot be parsed.
	ErrInvalidPickupTime = errors.New("invalid pickup time")

	// ErrInvalidBookingID is returned when the booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidStatus is returned when a status value is not one of the enum.
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrIllegalTransition is returned when a status change is not a lawful edge.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrBookingConflict is returned when a conditional update lost against a
	// concurrent transition on the same booking.
	ErrBookingConflict = errors.New("booking was modified concurrently")

	// ErrDepositAlreadyPaid is returned when opening a checkout session for a
	// booking whose deposit is already confirmed.
	ErrDepositAlreadyPaid = errors.New("deposit already paid")

	// ErrEmailTaken is returned when registering an email that already has an account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
