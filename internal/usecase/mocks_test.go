//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"translator-booking/internal/domain"
	"translator-booking/internal/domain/model"
	"translator-booking/internal/domain/ports/adapter"
	"translator-booking/internal/domain/ports/repository"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// -----------------------------
// In-memory job repository
// -----------------------------

// memJobRepo implements repository.JobRepository with a mutex-guarded map.
// TryAssign holds the lock across check and write, giving the same
// compare-and-set semantics as the conditional UPDATE in Postgres.
type memJobRepo struct {
	mu      sync.Mutex
	store   map[string]*model.Job
	order   []string
	saveErr error
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{store: make(map[string]*model.Job)}
}

func (m *memJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.Job) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[job.ID]; !ok {
		m.order = append(m.order, job.ID)
	}
	cp := *job
	m.store[job.ID] = &cp
	return nil
}

func (m *memJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *memJobRepo) List(ctx context.Context, tx repository.Tx, f repository.JobFilter) ([]*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Job
	for _, id := range m.order {
		j := m.store[id]
		if f.UserID != "" {
			assigned := j.AssignedTranslatorID != nil && *j.AssignedTranslatorID == f.UserID
			if j.CustomerID != f.UserID && !assigned {
				continue
			}
		}
		if f.OpenOnly && j.Status != model.JobStatusOpen {
			continue
		}
		if f.TerminalOnly && !j.Status.IsTerminal() {
			continue
		}
		if len(f.Statuses) > 0 {
			hit := false
			for _, s := range f.Statuses {
				if j.Status == s {
					hit = true
					break
				}
			}
			if !hit {
				continue
			}
		}
		cp := *j
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memJobRepo) TryAssign(ctx context.Context, jobID, translatorID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[jobID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if j.Status != model.JobStatusOpen || j.AssignedTranslatorID != nil {
		return false, nil
	}
	id := translatorID
	j.AssignedTranslatorID = &id
	j.Status = model.JobStatusAssigned
	j.UpdatedAt = time.Now()
	return true, nil
}

func (m *memJobRepo) ApplyOverride(ctx context.Context, tx repository.Tx, jobID string, o model.AdminOverride) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	if o.AdminComments != nil {
		j.AdminComments = o.AdminComments
	}
	if o.Flagged != nil {
		j.Flagged = *o.Flagged
	}
	if o.SessionTime != nil {
		j.SessionTime = o.SessionTime
	}
	if o.ManuallyHandled != nil {
		j.ManuallyHandled = *o.ManuallyHandled
	}
	if o.EditedByAdmin != nil {
		j.EditedByAdmin = *o.EditedByAdmin
	}
	return nil
}

func (m *memJobRepo) FindOpenOlderThan(ctx context.Context, tx repository.Tx, cutoff time.Time) ([]*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Job
	for _, id := range m.order {
		j := m.store[id]
		if j.Status == model.JobStatusOpen && j.CreatedAt.Before(cutoff) {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

// -----------------------------
// In-memory user repository
// -----------------------------

type memUserRepo struct {
	mu    sync.RWMutex
	store map[string]*model.User
}

func newMemUserRepo(users ...*model.User) *memUserRepo {
	m := &memUserRepo{store: make(map[string]*model.User)}
	for _, u := range users {
		cp := *u
		m.store[u.ID] = &cp
	}
	return m
}

func (m *memUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *memUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) EligibleTranslators(ctx context.Context, tx repository.Tx, job *model.Job) ([]*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.User
	for _, u := range m.store {
		if u.Role == model.RoleTranslator && speaksBoth(u, job) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memUserRepo) IsEligible(ctx context.Context, tx repository.Tx, translatorID string, job *model.Job) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[translatorID]
	if !ok {
		return false, nil
	}
	return u.Role == model.RoleTranslator && speaksBoth(u, job), nil
}

func speaksBoth(u *model.User, job *model.Job) bool {
	var from, to bool
	for _, l := range u.Languages {
		if l == job.FromLanguage {
			from = true
		}
		if l == job.ToLanguage {
			to = true
		}
	}
	return from && to
}

// -----------------------------
// Transaction manager
// -----------------------------

// fakeTxManager invokes the callback directly; the mem repos ignore the
// handle anyway. It counts invocations so tests can assert the path taken.
type fakeTxManager struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return fn(ctx, repository.NoTX)
}

// -----------------------------
// Dedup store
// -----------------------------

type memDedup struct {
	mu      sync.Mutex
	seen    map[string]bool
	lastTTL time.Duration
	err     error
}

func newMemDedup() *memDedup { return &memDedup{seen: make(map[string]bool)} }

func (m *memDedup) MarkSent(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTTL = ttl
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

// -----------------------------
// Notifier adapters
// -----------------------------

type mockEmailSender struct {
	mu   sync.Mutex
	Sent []adapter.EmailMessage

	SendEmailFunc func(ctx context.Context, msg adapter.EmailMessage) error
}

func (m *mockEmailSender) SendEmail(ctx context.Context, msg adapter.EmailMessage) error {
	if m.SendEmailFunc != nil {
		if err := m.SendEmailFunc(ctx, msg); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return nil
}

func (m *mockEmailSender) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

type mockSMSSender struct {
	mu   sync.Mutex
	Sent []adapter.SMSMessage

	SendSMSFunc func(ctx context.Context, msg adapter.SMSMessage) error
}

func (m *mockSMSSender) SendSMS(ctx context.Context, msg adapter.SMSMessage) error {
	if m.SendSMSFunc != nil {
		if err := m.SendSMSFunc(ctx, msg); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return nil
}

// -----------------------------
// Dispatcher spy for lifecycle tests
// -----------------------------

type mockDispatcher struct {
	mu            sync.Mutex
	Broadcasts    []string // job ids
	Assignments   []string
	Cancellations []string
	EmailConfirms []string
}

func (m *mockDispatcher) BroadcastJobAvailable(ctx context.Context, job *model.Job) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Broadcasts = append(m.Broadcasts, job.ID)
	return 1, nil
}

func (m *mockDispatcher) NotifyAssignment(ctx context.Context, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Assignments = append(m.Assignments, job.ID)
	return nil
}

func (m *mockDispatcher) NotifyCancellation(ctx context.Context, job *model.Job, former string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cancellations = append(m.Cancellations, job.ID)
	return nil
}

func (m *mockDispatcher) ConfirmJobEmail(ctx context.Context, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmailConfirms = append(m.EmailConfirms, job.ID)
	return nil
}

func (m *mockDispatcher) ResendNotification(ctx context.Context, jobID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Broadcasts = append(m.Broadcasts, jobID)
	return 1, nil
}

func (m *mockDispatcher) ResendSMS(ctx context.Context, jobID string) error { return nil }

func (m *mockDispatcher) broadcastCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Broadcasts)
}

func (m *mockDispatcher) cancellationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Cancellations)
}
