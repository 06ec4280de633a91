package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v79"
)

const testWebhookSecret = "whsec_test_secret"

// verifierForTest builds a provider without touching the package-global
// API key, so parallel tests stay independent.
func verifierForTest() *StripeProvider {
	return &StripeProvider{
		webhookSecret: testWebhookSecret,
		frontendURL:   "http://localhost:3000",
	}
}

// signPayload produces a Stripe-Signature header value (t=...,v1=...)
// for the payload, HMAC-SHA256 over "<timestamp>.<payload>".
func signPayload(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func checkoutEventPayload(eventType, paymentIntent string) []byte {
	intentField := ""
	if paymentIntent != "" {
		intentField = fmt.Sprintf(`"payment_intent": %q,`, paymentIntent)
	}
	return []byte(fmt.Sprintf(`{
		"id": "evt_test_1",
		"object": "event",
		"api_version": %q,
		"type": %q,
		"data": {
			"object": {
				"id": "cs_test_123",
				"object": "checkout.session",
				%s
				"metadata": {"booking_id": "booking-1"}
			}
		}
	}`, stripe.APIVersion, eventType, intentField))
}

func TestVerifyEvent_ValidCompletedSession(t *testing.T) {
	t.Parallel()

	provider := verifierForTest()
	payload := checkoutEventPayload("checkout.session.completed", "pi_test_456")
	signature := signPayload(payload, testWebhookSecret, time.Now())

	event, err := provider.VerifyEvent(payload, signature)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if event.Kind != EventDepositCompleted {
		t.Errorf("expected kind %s, got %s", EventDepositCompleted, event.Kind)
	}
	if event.BookingID != "booking-1" {
		t.Errorf("expected booking id from metadata, got %q", event.BookingID)
	}
	if event.SessionRef != "cs_test_123" {
		t.Errorf("expected session ref cs_test_123, got %q", event.SessionRef)
	}
	if event.ConfirmationRef != "pi_test_456" {
		t.Errorf("expected confirmation ref pi_test_456, got %q", event.ConfirmationRef)
	}
}

func TestVerifyEvent_ExpiredSessionHasNoConfirmationRef(t *testing.T) {
	t.Parallel()

	provider := verifierForTest()
	payload := checkoutEventPayload("checkout.session.expired", "")
	signature := signPayload(payload, testWebhookSecret, time.Now())

	event, err := provider.VerifyEvent(payload, signature)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if event.Kind != EventDepositExpired {
		t.Errorf("expected kind %s, got %s", EventDepositExpired, event.Kind)
	}
	if event.BookingID != "booking-1" {
		t.Errorf("expected booking id from metadata, got %q", event.BookingID)
	}
	if event.ConfirmationRef != "" {
		t.Errorf("expected empty confirmation ref, got %q", event.ConfirmationRef)
	}
}

func TestVerifyEvent_UnrecognizedTypePassedThrough(t *testing.T) {
	t.Parallel()

	provider := verifierForTest()
	payload := checkoutEventPayload("invoice.paid", "")
	signature := signPayload(payload, testWebhookSecret, time.Now())

	event, err := provider.VerifyEvent(payload, signature)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if event.Kind != EventKind("invoice.paid") {
		t.Errorf("expected the kind to pass through, got %s", event.Kind)
	}
	if event.BookingID != "" {
		t.Errorf("expected no booking id for an unhandled kind, got %q", event.BookingID)
	}
}

func TestVerifyEvent_RejectsBadSignatures(t *testing.T) {
	t.Parallel()

	payload := checkoutEventPayload("checkout.session.completed", "pi_test_456")

	testCases := []struct {
		name      string
		payload   []byte
		signature string
	}{
		{
			name:      "missing header",
			payload:   payload,
			signature: "",
		},
		{
			name:      "garbage header",
			payload:   payload,
			signature: "t=0,v1=deadbeef",
		},
		{
			name:      "wrong secret",
			payload:   payload,
			signature: signPayload(payload, "whsec_other_secret", time.Now()),
		},
		{
			name:      "tampered payload",
			payload:   append(append([]byte{}, payload...), ' '),
			signature: signPayload(payload, testWebhookSecret, time.Now()),
		},
		{
			name:      "stale timestamp",
			payload:   payload,
			signature: signPayload(payload, testWebhookSecret, time.Now().Add(-time.Hour)),
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			provider := verifierForTest()
			event, err := provider.VerifyEvent(tc.payload, tc.signature)
			if !errors.Is(err, ErrInvalidSignature) {
				t.Errorf("expected ErrInvalidSignature, got %v", err)
			}
			if event != nil {
				t.Error("expected no event on a rejected signature")
			}
		})
	}
}
