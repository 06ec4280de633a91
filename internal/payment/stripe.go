package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/webhook"

	"driveus/internal/domain"
)

// StripeProvider implements Provider and Verifier against Stripe
// Checkout.
type StripeProvider struct {
	webhookSecret string
	frontendURL   string
}

// NewStripeProvider creates a Stripe-backed payment provider.
func NewStripeProvider(secretKey, webhookSecret, frontendURL string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{
		webhookSecret: webhookSecret,
		frontendURL:   frontendURL,
	}
}

var (
	_ Provider = (*StripeProvider)(nil)
	_ Verifier = (*StripeProvider)(nil)
)

// CreateDepositSession opens a Stripe Checkout session for the deposit.
// The booking id travels in the session metadata so the webhook can
// reconcile the confirmation.
func (p *StripeProvider) CreateDepositSession(ctx context.Context, booking *domain.Booking, amount float64) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("eur"),
					UnitAmount: stripe.Int64(int64(math.Round(amount * 100))),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(fmt.Sprintf("DriveUs booking deposit (%.0f€)", amount)),
						Description: stripe.String(fmt.Sprintf("Booking %s → %s", booking.Pickup, booking.Dropoff)),
					},
				},
			},
		},
		SuccessURL: stripe.String(fmt.Sprintf("%s/payment/success?booking_id=%s&session_id={CHECKOUT_SESSION_ID}", p.frontendURL, booking.ID)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/payment/cancelled?booking_id=%s", p.frontendURL, booking.ID)),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", booking.ID)

	if booking.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(booking.CustomerEmail)
	}

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &CheckoutSession{URL: s.URL, SessionRef: s.ID}, nil
}

// VerifyEvent checks the Stripe-Signature header against the raw
// payload and decodes the checkout session events reconciliation
// understands. Other event types come back with just their kind.
func (p *StripeProvider) VerifyEvent(payload []byte, signature string) (*Event, error) {
	ev, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	kind := EventKind(ev.Type)
	if kind != EventDepositCompleted && kind != EventDepositExpired {
		return &Event{Kind: kind}, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", ev.Type, err)
	}

	event := &Event{
		Kind:       kind,
		BookingID:  cs.Metadata["booking_id"],
		SessionRef: cs.ID,
	}
	if cs.PaymentIntent != nil {
		event.ConfirmationRef = cs.PaymentIntent.ID
	}
	return event, nil
}
