package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"driveus/internal/domain"
	"driveus/internal/mail"
)

// NotificationService emits booking lifecycle emails to the operator
// and, when an address is known, to the customer. Callers fire and
// forget: a delivery failure is logged and never propagates into the
// transaction that triggered it.
type NotificationService struct {
	mailer     mail.Mailer
	adminEmail string
}

// NewNotificationService creates a new NotificationService. A nil
// mailer disables delivery.
func NewNotificationService(mailer mail.Mailer, adminEmail string) *NotificationService {
	return &NotificationService{
		mailer:     mailer,
		adminEmail: adminEmail,
	}
}

// BookingCreated notifies about a newly created booking.
func (s *NotificationService) BookingCreated(ctx context.Context, booking *domain.Booking) error {
	if s.mailer == nil {
		return nil
	}

	subjectAdmin := fmt.Sprintf("New booking (%s) - %s → %s", booking.Status, booking.Pickup, booking.Dropoff)
	textAdmin := "New booking created.\n\n" + bookingLines(booking)
	s.send(ctx, s.adminEmail, subjectAdmin, textAdmin)

	if booking.CustomerEmail != "" {
		greeting := "Hello"
		if booking.CustomerName != "" {
			greeting += " " + booking.CustomerName
		}
		text := fmt.Sprintf(
			"%s,\n\nWe have received your booking request.\nCurrent status: %s.\n\n%s\n\nYou will receive an email as soon as the ride is confirmed.\n\nDriveUs",
			greeting, booking.Status, bookingLines(booking),
		)
		s.send(ctx, booking.CustomerEmail, "Your DriveUs request has been received", text)
	}

	return nil
}

// StatusChanged notifies about a ride-status transition.
func (s *NotificationService) StatusChanged(ctx context.Context, booking *domain.Booking, from, to domain.BookingStatus) error {
	if s.mailer == nil {
		return nil
	}

	subjectAdmin := fmt.Sprintf("Status changed: %s → %s (%s)", from, to, booking.ID)
	textAdmin := fmt.Sprintf("Previous: %s\nNew: %s\n\n%s", from, to, bookingLines(booking))
	s.send(ctx, s.adminEmail, subjectAdmin, textAdmin)

	if booking.CustomerEmail != "" {
		greeting := "Hello"
		if booking.CustomerName != "" {
			greeting += " " + booking.CustomerName
		}
		text := fmt.Sprintf(
			"%s,\n\nThe status of your booking has been updated: %s → %s.\n\n%s\n\nDriveUs",
			greeting, from, to, bookingLines(booking),
		)
		s.send(ctx, booking.CustomerEmail, fmt.Sprintf("Your DriveUs booking update: %s", to), text)
	}

	return nil
}

func (s *NotificationService) send(ctx context.Context, to, subject, text string) {
	if err := s.mailer.Send(ctx, to, subject, text); err != nil {
		log.Printf("notification: send to %s failed: %v", to, err)
	}
}

// bookingLines renders the booking summary shared by every mail.
func bookingLines(b *domain.Booking) string {
	lines := []string{
		fmt.Sprintf("ID: %s", b.ID),
		fmt.Sprintf("Status: %s", b.Status),
		fmt.Sprintf("Pickup: %s", b.Pickup),
		fmt.Sprintf("Dropoff: %s", b.Dropoff),
		fmt.Sprintf("Distance: %.3f km", b.DistanceKm),
		fmt.Sprintf("Price: %.2f €", b.Price),
		fmt.Sprintf("Pickup time: %s", b.PickupAt.Format("2006-01-02 15:04")),
		fmt.Sprintf("Created: %s", b.CreatedAt.Format("2006-01-02 15:04")),
	}
	if b.CustomerName != "" {
		lines = append(lines, fmt.Sprintf("Customer: %s", b.CustomerName))
	}
	if b.CustomerPhone != "" {
		lines = append(lines, fmt.Sprintf("Phone: %s", b.CustomerPhone))
	}
	if b.CustomerEmail != "" {
		lines = append(lines, fmt.Sprintf("Email: %s", b.CustomerEmail))
	}
	if b.Notes != "" {
		lines = append(lines, fmt.Sprintf("Notes: %s", b.Notes))
	}
	return strings.Join(lines, "\n")
}
