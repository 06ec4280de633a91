package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"driveus/internal/domain"
	"driveus/internal/payment"
	"driveus/internal/repository"
	"driveus/internal/routing"
	"driveus/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	ID                     string  `json:"id"`
	UserID                 string  `json:"user_id,omitempty"`
	Pickup                 string  `json:"pickup"`
	Dropoff                string  `json:"dropoff"`
	DistanceKm             float64 `json:"distance_km"`
	Price                  float64 `json:"price"`
	PickupAt               string  `json:"pickup_at"`
	CreatedAt              string  `json:"created_at"`
	Status                 string  `json:"status"`
	DepositAmount          float64 `json:"deposit_amount"`
	DepositPaid            bool    `json:"deposit_paid"`
	PaymentStatus          string  `json:"payment_status"`
	PaymentSessionRef      string  `json:"payment_session_ref,omitempty"`
	PaymentConfirmationRef string  `json:"payment_confirmation_ref,omitempty"`
	CustomerName           string  `json:"customer_name,omitempty"`
	CustomerPhone          string  `json:"customer_phone,omitempty"`
	CustomerEmail          string  `json:"customer_email,omitempty"`
	Notes                  string  `json:"notes,omitempty"`
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:                     b.ID,
		UserID:                 b.UserID,
		Pickup:                 b.Pickup,
		Dropoff:                b.Dropoff,
		DistanceKm:             b.DistanceKm,
		Price:                  b.Price,
		PickupAt:               b.PickupAt.Format(time.RFC3339),
		CreatedAt:              b.CreatedAt.Format(time.RFC3339),
		Status:                 string(b.Status),
		DepositAmount:          b.DepositAmount,
		DepositPaid:            b.DepositPaid,
		PaymentStatus:          string(b.PaymentStatus),
		PaymentSessionRef:      b.PaymentSessionRef,
		PaymentConfirmationRef: b.PaymentConfirmationRef,
		CustomerName:           b.CustomerName,
		CustomerPhone:          b.CustomerPhone,
		CustomerEmail:          b.CustomerEmail,
		Notes:                  b.Notes,
	}
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidDistance),
		errors.Is(err, service.ErrInvalidPickupTime),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, routing.ErrAddressNotFound),
		errors.Is(err, routing.ErrGeocodeInvalid),
		errors.Is(err, payment.ErrInvalidSignature):
		return http.StatusBadRequest

	// Authentication
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Conflicts
	case errors.Is(err, service.ErrIllegalTransition),
		errors.Is(err, service.ErrBookingConflict),
		errors.Is(err, service.ErrDepositAlreadyPaid),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict

	// Upstream resolver failure
	case errors.Is(err, routing.ErrRouteUnavailable):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
