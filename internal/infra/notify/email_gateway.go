// File: internal/infra/notify/email_gateway.go
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"translator-booking/internal/domain/ports/adapter"
)

var _ adapter.EmailSender = (*EmailGateway)(nil)

// EmailGateway delivers mail through the transactional-email HTTP API the
// platform already uses. Transport errors and non-2xx responses are returned
// to the caller; retry policy belongs to the dispatcher.
type EmailGateway struct {
	endpoint string
	apiKey   string
	from     string
	client   *http.Client
}

func NewEmailGateway(endpoint, apiKey, from string) (*EmailGateway, error) {
	if endpoint == "" {
		return nil, errors.New("email gateway endpoint empty")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid email gateway url: %w", err)
	}
	return &EmailGateway{
		endpoint: endpoint,
		apiKey:   apiKey,
		from:     from,
		client:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *EmailGateway) SendEmail(ctx context.Context, msg adapter.EmailMessage) error {
	payload := map[string]any{
		"from":    g.from,
		"to":      msg.To,
		"subject": msg.Subject,
		"text":    msg.Body,
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("email gateway: unexpected status %d", resp.StatusCode)
	}
	return nil
}
