package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"driveus/internal/payment"
	"driveus/internal/repository"
	"driveus/internal/service"
)

// PaymentHandler handles deposit checkout sessions and provider
// webhooks.
type PaymentHandler struct {
	paymentService *service.PaymentService
	verifier       payment.Verifier
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService, verifier payment.Verifier) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		verifier:       verifier,
	}
}

// DepositSessionRequest is the HTTP request body for opening a deposit
// checkout session.
type DepositSessionRequest struct {
	BookingID string `json:"booking_id"`
}

// DepositSessionResponse is the HTTP response for an opened session.
type DepositSessionResponse struct {
	URL string `json:"url"`
}

// CreateDepositSession handles POST /v1/payments/deposit-session
func (h *PaymentHandler) CreateDepositSession(c *gin.Context) {
	var req DepositSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	session, err := h.paymentService.OpenDepositSession(c.Request.Context(), req.BookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, DepositSessionResponse{URL: session.URL})
}

// Webhook handles POST /v1/payments/webhook. The body must stay raw for
// signature verification; gin binding would consume it.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unable to read body"})
		return
	}

	event, err := h.verifier.VerifyEvent(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.paymentService.ApplyEvent(c.Request.Context(), *event); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The provider retries on non-2xx. A session for a booking we
			// no longer know about cannot become applicable later, so ack
			// it and keep a trace.
			log.Printf("webhook: event %s references unknown booking %s", event.Kind, event.BookingID)
			respondJSON(c, http.StatusOK, gin.H{"received": true})
			return
		}
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"received": true})
}
