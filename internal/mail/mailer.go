package mail

import "context"

// Mailer sends plain-text transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, text string) error
}
