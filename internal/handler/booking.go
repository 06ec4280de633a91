package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"driveus/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest is the HTTP request body for an authenticated booking.
type CreateBookingRequest struct {
	Pickup         string  `json:"pickup"`
	Dropoff        string  `json:"dropoff"`
	Distance       float64 `json:"distance"`
	PickupDatetime string  `json:"pickup_datetime,omitempty"`
}

// CreatePublicBookingRequest is the HTTP request body for an anonymous booking.
type CreatePublicBookingRequest struct {
	PickupText     string `json:"pickup_text"`
	DropoffText    string `json:"dropoff_text"`
	PickupDatetime string `json:"pickup_datetime,omitempty"`
	CustomerName   string `json:"customer_name,omitempty"`
	CustomerPhone  string `json:"customer_phone,omitempty"`
	CustomerEmail  string `json:"customer_email,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// SetStatusRequest is the HTTP request body for a status change.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// Create handles POST /v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		UserID:     c.GetString("userID"),
		Pickup:     req.Pickup,
		Dropoff:    req.Dropoff,
		DistanceKm: req.Distance,
		PickupRaw:  req.PickupDatetime,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// CreatePublic handles POST /v1/bookings/public
func (h *BookingHandler) CreatePublic(c *gin.Context) {
	var req CreatePublicBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.CreatePublicBooking(c.Request.Context(), service.CreatePublicBookingRequest{
		PickupText:    req.PickupText,
		DropoffText:   req.DropoffText,
		PickupRaw:     req.PickupDatetime,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// Get handles GET /v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// GetAll handles GET /v1/bookings with an optional ?status= filter.
func (h *BookingHandler) GetAll(c *gin.Context) {
	bookings, err := h.bookingService.ListBookings(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, toBookingResponse(b))
	}

	respondJSON(c, http.StatusOK, response)
}

// SetStatus handles PATCH /v1/bookings/:id/status
func (h *BookingHandler) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}
