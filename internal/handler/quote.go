package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"driveus/internal/service"
)

// QuoteHandler handles HTTP requests for fare estimates.
type QuoteHandler struct {
	bookingService *service.BookingService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(bookingService *service.BookingService) *QuoteHandler {
	return &QuoteHandler{bookingService: bookingService}
}

// EstimateRequest is the HTTP request body for a distance-based estimate.
type EstimateRequest struct {
	Pickup         string   `json:"pickup,omitempty"`
	Dropoff        string   `json:"dropoff,omitempty"`
	Distance       *float64 `json:"distance"`
	PickupDatetime string   `json:"pickup_datetime,omitempty"`
}

// EstimateAddressRequest is the HTTP request body for an address-based estimate.
type EstimateAddressRequest struct {
	PickupText     string `json:"pickup_text"`
	DropoffText    string `json:"dropoff_text"`
	PickupDatetime string `json:"pickup_datetime,omitempty"`
}

// QuoteResponse is the HTTP response for an estimate.
type QuoteResponse struct {
	Pickup         string  `json:"pickup,omitempty"`
	Dropoff        string  `json:"dropoff,omitempty"`
	DistanceKm     float64 `json:"distance_km"`
	Price          float64 `json:"price"`
	PickupDatetime string  `json:"pickup_datetime"`
}

// Estimate handles POST /v1/quotes
func (h *QuoteHandler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Distance == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "distance is required"})
		return
	}

	quote, err := h.bookingService.Estimate(c.Request.Context(), req.Pickup, req.Dropoff, *req.Distance, req.PickupDatetime)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toQuoteResponse(quote))
}

// EstimateAddress handles POST /v1/quotes/address
func (h *QuoteHandler) EstimateAddress(c *gin.Context) {
	var req EstimateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	quote, err := h.bookingService.EstimateAddresses(c.Request.Context(), req.PickupText, req.DropoffText, req.PickupDatetime)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toQuoteResponse(quote))
}

func toQuoteResponse(q *service.Quote) QuoteResponse {
	return QuoteResponse{
		Pickup:         q.Pickup,
		Dropoff:        q.Dropoff,
		DistanceKm:     q.DistanceKm,
		Price:          q.Price,
		PickupDatetime: q.PickupRaw,
	}
}
