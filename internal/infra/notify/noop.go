package notify

import (
	"context"
	"sync"

	"translator-booking/internal/domain/ports/adapter"
)

var (
	_ adapter.EmailSender = (*NoopNotifier)(nil)
	_ adapter.SMSSender   = (*NoopNotifier)(nil)
)

// NoopNotifier records messages in memory instead of sending them. Used in
// dev mode and tests.
type NoopNotifier struct {
	mu     sync.Mutex
	Emails []adapter.EmailMessage
	Texts  []adapter.SMSMessage
}

func NewNoopNotifier() *NoopNotifier { return &NoopNotifier{} }

func (n *NoopNotifier) SendEmail(ctx context.Context, msg adapter.EmailMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Emails = append(n.Emails, msg)
	return nil
}

func (n *NoopNotifier) SendSMS(ctx context.Context, msg adapter.SMSMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Texts = append(n.Texts, msg)
	return nil
}
