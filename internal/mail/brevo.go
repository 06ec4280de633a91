package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoClient sends transactional email through the Brevo HTTP API.
type BrevoClient struct {
	apiKey      string
	senderName  string
	senderEmail string
	httpClient  *http.Client
}

// NewBrevoClient creates a new Brevo mail client.
func NewBrevoClient(apiKey, senderName, senderEmail string) *BrevoClient {
	return &BrevoClient{
		apiKey:      apiKey,
		senderName:  senderName,
		senderEmail: senderEmail,
		httpClient:  &http.Client{Timeout: 20 * time.Second},
	}
}

var _ Mailer = (*BrevoClient)(nil)

type brevoAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoMessage struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	TextContent string         `json:"textContent"`
}

// Send delivers one plain-text message.
func (c *BrevoClient) Send(ctx context.Context, to, subject, text string) error {
	payload, err := json.Marshal(brevoMessage{
		Sender:      brevoAddress{Name: c.senderName, Email: c.senderEmail},
		To:          []brevoAddress{{Email: to}},
		Subject:     subject,
		TextContent: text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoEndpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("brevo send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send: unexpected status %d", resp.StatusCode)
	}
	return nil
}
