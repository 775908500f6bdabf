// File: internal/usecase/notification_uc.go
package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"translator-booking/internal/domain"
	"translator-booking/internal/domain/model"
	"translator-booking/internal/domain/ports/adapter"
	"translator-booking/internal/domain/ports/repository"
	"translator-booking/internal/infra/metrics"
)

// Compile-time check
var _ NotificationUseCase = (*notificationUC)(nil)

// NotificationUseCase fans job events out to translators and customers.
// Delivery is best-effort: one recipient failing never blocks the rest, and
// a failed send never rolls back the transition that triggered it.
type NotificationUseCase interface {
	// BroadcastJobAvailable emails every translator in the job's eligibility
	// set and returns how many sends succeeded.
	BroadcastJobAvailable(ctx context.Context, job *model.Job) (int, error)
	// NotifyAssignment tells the customer and the winning translator. It is
	// deduplicated within a short window so a re-fired transition does not
	// double-send.
	NotifyAssignment(ctx context.Context, job *model.Job) error
	NotifyCancellation(ctx context.Context, job *model.Job, formerTranslatorID string) error
	// ConfirmJobEmail acknowledges a changed contact address by mailing the
	// new address.
	ConfirmJobEmail(ctx context.Context, job *model.Job) error
	// ResendNotification re-broadcasts on demand. Deliberately not deduped:
	// an operator asking again means send again.
	ResendNotification(ctx context.Context, jobID string) (int, error)
	// ResendSMS texts the assigned translator, failing with ErrNoAssignee
	// when the job has nobody to text.
	ResendSMS(ctx context.Context, jobID string) error
}

type notificationUC struct {
	jobs         repository.JobRepository
	users        repository.UserRepository
	dedup        repository.NotificationDedup
	email        adapter.EmailSender
	sms          adapter.SMSSender
	perRecipient time.Duration
	dedupWindow  time.Duration
	log          *zerolog.Logger
}

func NewNotificationUseCase(
	jobs repository.JobRepository,
	users repository.UserRepository,
	dedup repository.NotificationDedup,
	email adapter.EmailSender,
	sms adapter.SMSSender,
	dedupWindow time.Duration,
	logger *zerolog.Logger,
) *notificationUC {
	if dedupWindow <= 0 {
		dedupWindow = 5 * time.Minute
	}
	l := logger.With().Str("component", "NotificationUC").Logger()
	return &notificationUC{
		jobs:         jobs,
		users:        users,
		dedup:        dedup,
		email:        email,
		sms:          sms,
		perRecipient: 10 * time.Second,
		dedupWindow:  dedupWindow,
		log:          &l,
	}
}

func (n *notificationUC) BroadcastJobAvailable(ctx context.Context, job *model.Job) (int, error) {
	translators, err := n.users.EligibleTranslators(ctx, repository.NoTX, job)
	if err != nil {
		return 0, err
	}

	subject := fmt.Sprintf("New translation job: %s -> %s", job.FromLanguage, job.ToLanguage)
	body := fmt.Sprintf(
		"A new %d-minute %s to %s session (%s) is available. First to accept gets it.",
		job.Duration, job.FromLanguage, job.ToLanguage, job.DueAt.Format(time.RFC1123),
	)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sent int
	)
	for _, t := range translators {
		wg.Add(1)
		go func(t *model.User) {
			defer wg.Done()
			// Each recipient gets its own deadline so a slow mail gateway
			// cannot stall the whole fan-out.
			rctx, cancel := context.WithTimeout(ctx, n.perRecipient)
			defer cancel()
			err := n.email.SendEmail(rctx, adapter.EmailMessage{To: t.Email, Subject: subject, Body: body})
			if err != nil {
				metrics.IncNotification("email", "failed")
				n.log.Warn().Err(err).Str("job_id", job.ID).Str("translator_id", t.ID).Msg("broadcast email failed")
				return
			}
			metrics.IncNotification("email", "sent")
			mu.Lock()
			sent++
			mu.Unlock()
		}(t)
	}
	wg.Wait()
	return sent, nil
}

func (n *notificationUC) NotifyAssignment(ctx context.Context, job *model.Job) error {
	if job.AssignedTranslatorID == nil {
		return domain.ErrNoAssignee
	}
	translatorID := *job.AssignedTranslatorID

	key := fmt.Sprintf("notify:assign:%s:%s", job.ID, translatorID)
	fresh, err := n.dedup.MarkSent(ctx, key, n.dedupWindow)
	if err != nil {
		// Dedup store trouble must not silence the notification.
		n.log.Warn().Err(err).Str("job_id", job.ID).Msg("assignment dedup check failed")
	} else if !fresh {
		return nil
	}

	customer, err := n.users.FindByID(ctx, repository.NoTX, job.CustomerID)
	if err != nil {
		return err
	}
	translator, err := n.users.FindByID(ctx, repository.NoTX, translatorID)
	if err != nil {
		return err
	}

	n.sendEmail(ctx, job, adapter.EmailMessage{
		To:      customerAddress(job, customer),
		Subject: "Your booking has a translator",
		Body:    fmt.Sprintf("%s accepted your %s session.", translator.Name, job.DueAt.Format(time.RFC1123)),
	})
	n.sendEmail(ctx, job, adapter.EmailMessage{
		To:      translator.Email,
		Subject: "Booking confirmed",
		Body:    fmt.Sprintf("You are booked for the %s -> %s session at %s.", job.FromLanguage, job.ToLanguage, job.DueAt.Format(time.RFC1123)),
	})
	n.sendSMS(ctx, job, adapter.SMSMessage{
		To:   translator.Phone,
		Body: fmt.Sprintf("Booking %s confirmed for %s.", job.ID, job.DueAt.Format("Mon 15:04")),
	})
	return nil
}

func (n *notificationUC) NotifyCancellation(ctx context.Context, job *model.Job, formerTranslatorID string) error {
	customer, err := n.users.FindByID(ctx, repository.NoTX, job.CustomerID)
	if err != nil {
		return err
	}
	n.sendEmail(ctx, job, adapter.EmailMessage{
		To:      customerAddress(job, customer),
		Subject: "Booking cancelled",
		Body:    fmt.Sprintf("Your %s session was cancelled.", job.DueAt.Format(time.RFC1123)),
	})
	if formerTranslatorID != "" {
		translator, err := n.users.FindByID(ctx, repository.NoTX, formerTranslatorID)
		if err != nil {
			return err
		}
		n.sendEmail(ctx, job, adapter.EmailMessage{
			To:      translator.Email,
			Subject: "Booking cancelled",
			Body:    fmt.Sprintf("The %s session you had accepted was cancelled.", job.DueAt.Format(time.RFC1123)),
		})
	}
	return nil
}

func (n *notificationUC) ConfirmJobEmail(ctx context.Context, job *model.Job) error {
	if job.ContactEmail == nil || *job.ContactEmail == "" {
		return fmt.Errorf("%w: job has no contact address", domain.ErrValidation)
	}
	rctx, cancel := context.WithTimeout(ctx, n.perRecipient)
	defer cancel()
	if err := n.email.SendEmail(rctx, adapter.EmailMessage{
		To:      *job.ContactEmail,
		Subject: "Booking contact address updated",
		Body:    fmt.Sprintf("Messages about your %s session will now go to this address.", job.DueAt.Format(time.RFC1123)),
	}); err != nil {
		metrics.IncNotification("email", "failed")
		return err
	}
	metrics.IncNotification("email", "sent")
	return nil
}

// customerAddress prefers the job's contact override over the customer's
// account address.
func customerAddress(job *model.Job, customer *model.User) string {
	if job.ContactEmail != nil && *job.ContactEmail != "" {
		return *job.ContactEmail
	}
	return customer.Email
}

func (n *notificationUC) ResendNotification(ctx context.Context, jobID string) (int, error) {
	job, err := n.jobs.FindByID(ctx, repository.NoTX, jobID)
	if err != nil {
		return 0, err
	}
	return n.BroadcastJobAvailable(ctx, job)
}

func (n *notificationUC) ResendSMS(ctx context.Context, jobID string) error {
	job, err := n.jobs.FindByID(ctx, repository.NoTX, jobID)
	if err != nil {
		return err
	}
	if job.AssignedTranslatorID == nil {
		return domain.ErrNoAssignee
	}
	translator, err := n.users.FindByID(ctx, repository.NoTX, *job.AssignedTranslatorID)
	if err != nil {
		return err
	}
	rctx, cancel := context.WithTimeout(ctx, n.perRecipient)
	defer cancel()
	if err := n.sms.SendSMS(rctx, adapter.SMSMessage{
		To:   translator.Phone,
		Body: fmt.Sprintf("Reminder: booking %s at %s.", job.ID, job.DueAt.Format("Mon 15:04")),
	}); err != nil {
		metrics.IncNotification("sms", "failed")
		return err
	}
	metrics.IncNotification("sms", "sent")
	return nil
}

func (n *notificationUC) sendEmail(ctx context.Context, job *model.Job, msg adapter.EmailMessage) {
	rctx, cancel := context.WithTimeout(ctx, n.perRecipient)
	defer cancel()
	if err := n.email.SendEmail(rctx, msg); err != nil {
		metrics.IncNotification("email", "failed")
		n.log.Warn().Err(err).Str("job_id", job.ID).Str("to", msg.To).Msg("email send failed")
		return
	}
	metrics.IncNotification("email", "sent")
}

func (n *notificationUC) sendSMS(ctx context.Context, job *model.Job, msg adapter.SMSMessage) {
	rctx, cancel := context.WithTimeout(ctx, n.perRecipient)
	defer cancel()
	if err := n.sms.SendSMS(rctx, msg); err != nil {
		metrics.IncNotification("sms", "failed")
		n.log.Warn().Err(err).Str("job_id", job.ID).Str("to", msg.To).Msg("sms send failed")
		return
	}
	metrics.IncNotification("sms", "sent")
}
