package tests

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"driveus/internal/domain"
	"driveus/internal/service"
)

func notifiableBooking() *domain.Booking {
	return &domain.Booking{
		ID:            "booking-9",
		Pickup:        "Gare de Lyon",
		Dropoff:       "Orly",
		DistanceKm:    18,
		Price:         54,
		PickupAt:      time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC),
		CreatedAt:     time.Date(2025, 3, 11, 9, 30, 0, 0, time.UTC),
		Status:        domain.BookingStatusPending,
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
	}
}

func TestNotification_BookingCreated_SendsAdminAndCustomer(t *testing.T) {
	t.Parallel()

	mailer := NewMockMailer()
	svc := service.NewNotificationService(mailer, "ops@driveus.example")

	if err := svc.BookingCreated(context.Background(), notifiableBooking()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	sent := mailer.Sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 mails, got %d", len(sent))
	}
	if sent[0].To != "ops@driveus.example" {
		t.Errorf("expected admin mail first, got %q", sent[0].To)
	}
	if sent[1].To != "ada@example.com" {
		t.Errorf("expected customer mail, got %q", sent[1].To)
	}
	if !strings.Contains(sent[1].Text, "Hello Ada") {
		t.Errorf("expected customer greeting, got %q", sent[1].Text)
	}
	if !strings.Contains(sent[0].Text, "booking-9") {
		t.Error("expected booking summary in admin mail")
	}
}

func TestNotification_NoCustomerEmail_AdminOnly(t *testing.T) {
	t.Parallel()

	mailer := NewMockMailer()
	svc := service.NewNotificationService(mailer, "ops@driveus.example")

	b := notifiableBooking()
	b.CustomerEmail = ""

	if err := svc.BookingCreated(context.Background(), b); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if sent := mailer.Sent(); len(sent) != 1 || sent[0].To != "ops@driveus.example" {
		t.Errorf("expected a single admin mail, got %v", sent)
	}
}

func TestNotification_StatusChanged(t *testing.T) {
	t.Parallel()

	mailer := NewMockMailer()
	svc := service.NewNotificationService(mailer, "ops@driveus.example")

	b := notifiableBooking()
	b.Status = domain.BookingStatusConfirmed

	err := svc.StatusChanged(context.Background(), b, domain.BookingStatusPending, domain.BookingStatusConfirmed)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	sent := mailer.Sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 mails, got %d", len(sent))
	}
	if !strings.Contains(sent[0].Subject, "pending") || !strings.Contains(sent[0].Subject, "confirmed") {
		t.Errorf("expected both statuses in admin subject, got %q", sent[0].Subject)
	}
}

func TestNotification_DeliveryFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	mailer := NewMockMailer()
	mailer.SendError = errors.New("smtp relay down")
	svc := service.NewNotificationService(mailer, "ops@driveus.example")

	if err := svc.BookingCreated(context.Background(), notifiableBooking()); err != nil {
		t.Errorf("delivery failure must not propagate, got: %v", err)
	}
}

func TestNotification_NilMailerDisablesDelivery(t *testing.T) {
	t.Parallel()

	svc := service.NewNotificationService(nil, "ops@driveus.example")

	if err := svc.BookingCreated(context.Background(), notifiableBooking()); err != nil {
		t.Errorf("expected no error with nil mailer, got: %v", err)
	}
	err := svc.StatusChanged(context.Background(), notifiableBooking(), domain.BookingStatusPending, domain.BookingStatusCancelled)
	if err != nil {
		t.Errorf("expected no error with nil mailer, got: %v", err)
	}
}
