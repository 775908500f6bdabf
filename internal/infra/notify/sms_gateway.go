// File: internal/infra/notify/sms_gateway.go
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

var _ adapter.SMSSender = (*SMSGateway)(nil)

// SMSGateway delivers texts through the SMS provider's HTTP API.
type SMSGateway struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewSMSGateway(endpoint, apiKey string) (*SMSGateway, error) {
	if endpoint == "" {
		return nil, errors.New("sms gateway endpoint empty")
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid sms gateway url: %w", err)
	}
	return &SMSGateway{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *SMSGateway) SendSMS(ctx context.Context, msg adapter.SMSMessage) error {
	payload := map[string]any{
		"to":   msg.To,
		"text": msg.Body,
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
		return fmt.Errorf("sms gateway: unexpected status %d", resp.StatusCode)
	}
	return nil
}
