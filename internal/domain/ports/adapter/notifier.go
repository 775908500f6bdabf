package adapter

import "context"

// EmailMessage is a single email to one recipient.
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// SMSMessage is a single text message to one phone number.
type SMSMessage struct {
	To   string
	Body string
}

// EmailSender delivers one email. Delivery is best-effort; the caller decides
// how failures affect the surrounding operation.
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
}

// SMSSender delivers one SMS.
type SMSSender interface {
	SendSMS(ctx context.Context, msg SMSMessage) error
}
