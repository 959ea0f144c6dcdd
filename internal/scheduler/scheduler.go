package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bookvault/borrowing-service/internal/model"
)

const reminderWindow = 3 * 24 * time.Hour

// LoanSource is the read-only slice of the loan store the sweeps need.
type LoanSource interface {
	GetOverdueLoans(ctx context.Context, now time.Time) ([]model.Loan, error)
	GetLoansDueBetween(ctx context.Context, from, to time.Time) ([]model.Loan, error)
}

// Notifier emits the sweep notifications. The sweeps never mutate a
// loan, they only read and emit.
type Notifier interface {
	PublishLoanOverdue(ctx context.Context, loan model.Loan, overdueDays int)
	PublishDueDateReminder(ctx context.Context, loan model.Loan, daysUntilDue int)
}

type Config struct {
	OverdueInterval  time.Duration `yaml:"overdueInterval" envconfig:"SWEEP_OVERDUE_INTERVAL" default:"1h"`
	ReminderInterval time.Duration `yaml:"reminderInterval" envconfig:"SWEEP_REMINDER_INTERVAL" default:"24h"`
}

// Scheduler runs the overdue and reminder sweeps on independent
// timers. Each sweep holds its own lock, so a run that outlasts its
// interval is skipped rather than stacked.
type Scheduler struct {
	loans    LoanSource
	notifier Notifier
	cfg      Config
	now      func() time.Time
	log      *zap.Logger

	overdueMu  sync.Mutex
	reminderMu sync.Mutex
}

func New(loans LoanSource, notifier Notifier, cfg Config, log *zap.Logger) *Scheduler {
	return &Scheduler{
		loans:    loans,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
		log:      log.Named("scheduler"),
	}
}

func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

func (s *Scheduler) Run(ctx context.Context) error {
	overdue := time.NewTicker(s.cfg.OverdueInterval)
	defer overdue.Stop()
	reminder := time.NewTicker(s.cfg.ReminderInterval)
	defer reminder.Stop()

	for {
		select {
		case <-overdue.C:
			s.RunOverdueSweep(ctx)
		case <-reminder.C:
			s.RunReminderSweep(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

// RunOverdueSweep publishes loan.overdue for every loan that is still
// ACTIVE past its due date. It re-emits on every run; consumers dedupe
// by (loanId, eventType, day bucket).
func (s *Scheduler) RunOverdueSweep(ctx context.Context) {
	if !s.overdueMu.TryLock() {
		s.log.Warn("overdue sweep still running, skipping tick")
		return
	}
	defer s.overdueMu.Unlock()

	now := s.now()
	loans, err := s.loans.GetOverdueLoans(ctx, now)
	if err != nil {
		s.log.Error("query overdue loans", zap.Error(err))
		return
	}
	s.log.Info("overdue sweep", zap.Int("loans", len(loans)))

	for _, loan := range loans {
		overdueDays := int(now.Sub(loan.DueAt).Hours() / 24)
		s.notifier.PublishLoanOverdue(ctx, loan, overdueDays)
	}
}

// RunReminderSweep publishes loan.due.reminder for ACTIVE loans due
// within the next three days.
func (s *Scheduler) RunReminderSweep(ctx context.Context) {
	if !s.reminderMu.TryLock() {
		s.log.Warn("reminder sweep still running, skipping tick")
		return
	}
	defer s.reminderMu.Unlock()

	now := s.now()
	loans, err := s.loans.GetLoansDueBetween(ctx, now, now.Add(reminderWindow))
	if err != nil {
		s.log.Error("query loans due soon", zap.Error(err))
		return
	}
	s.log.Info("reminder sweep", zap.Int("loans", len(loans)))

	for _, loan := range loans {
		daysUntilDue := int(loan.DueAt.Sub(now).Hours() / 24)
		s.notifier.PublishDueDateReminder(ctx, loan, daysUntilDue)
	}
}
