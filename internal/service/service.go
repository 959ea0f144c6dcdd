package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookvault/borrowing-service/internal/catalog"
	"github.com/bookvault/borrowing-service/internal/errs"
	"github.com/bookvault/borrowing-service/internal/events"
	"github.com/bookvault/borrowing-service/internal/model"
)

const unknownBookTitle = "Unknown Book"

// Repository is the loan-store contract the orchestrator needs.
type Repository interface {
	CreateLoan(ctx context.Context, loan model.Loan, msgs ...events.Message) (model.Loan, error)
	ReturnLoan(ctx context.Context, id uuid.UUID, returnedAt time.Time, fine float64, msgs ...events.Message) (model.Loan, error)
	GetLoan(ctx context.Context, id uuid.UUID) (model.Loan, error)
	HasActiveLoan(ctx context.Context, userID, bookID int64) (bool, error)
	GetUserLoans(ctx context.Context, userID int64) ([]model.Loan, error)
	GetUserActiveLoans(ctx context.Context, userID int64) ([]model.Loan, error)
	GetBookLoans(ctx context.Context, bookID int64) ([]model.Loan, error)
	GetOverdueLoans(ctx context.Context, now time.Time) ([]model.Loan, error)
	GetBorrowedCount(ctx context.Context, bookID int64) (int, error)
	GetLoanStats(ctx context.Context, now time.Time) (model.LoanStats, error)
}

// Service orchestrates the loan lifecycle: it owns the loan store
// writes, drives the synchronous catalog calls and hands domain
// events to the outbox. The loan record is the source of truth; the
// remote inventory count may drift until reconciled out of band.
type Service struct {
	log       *zap.Logger
	repo      Repository
	catalog   catalog.Client
	publisher events.Publisher
	now       func() time.Time
}

func NewService(repo Repository, catalogClient catalog.Client, publisher events.Publisher, log *zap.Logger) *Service {
	return &Service{
		log:       log,
		repo:      repo,
		catalog:   catalogClient,
		publisher: publisher,
		now:       time.Now,
	}
}

// WithClock replaces the wall clock. Every due/overdue computation
// goes through it so tests can drive time deterministically.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) CreateLoan(ctx context.Context, req model.CreateLoanRequest) (model.Loan, error) {
	s.log.Info("creating loan",
		zap.Int64("userId", req.UserID),
		zap.Int64("bookId", req.BookID),
		zap.Int("quantity", req.Quantity))

	if req.Quantity <= 0 {
		return model.Loan{}, errs.ErrInvalidQuantity
	}
	if !s.catalog.CheckAvailability(ctx, req.BookID, req.Quantity) {
		return model.Loan{}, errs.ErrBookUnavailable
	}
	exists, err := s.repo.HasActiveLoan(ctx, req.UserID, req.BookID)
	if err != nil {
		return model.Loan{}, err
	}
	if exists {
		return model.Loan{}, errs.ErrDuplicateLoan
	}

	now := s.now()
	loan := model.Loan{
		ID:         uuid.New(),
		UserID:     req.UserID,
		BookID:     req.BookID,
		Quantity:   req.Quantity,
		BorrowedAt: now,
		DueAt:      now.Add(model.LoanPeriod),
		Status:     model.StatusActive,
	}

	// the loan.created row commits in the same tx as the loan itself
	created, err := s.repo.CreateLoan(ctx, loan, s.loanCreatedMessages(ctx, loan)...)
	if err != nil {
		return model.Loan{}, err
	}

	if err := s.catalog.AdjustQuantity(ctx, loan.BookID, -loan.Quantity); err != nil {
		s.log.Error("decrement book quantity",
			zap.Int64("bookId", loan.BookID),
			zap.Error(err))
	}

	s.log.Info("created loan", zap.String("loanId", created.ID.String()))
	return created, nil
}

func (s *Service) ReturnLoan(ctx context.Context, id uuid.UUID) error {
	s.log.Info("returning loan", zap.String("loanId", id.String()))

	loan, err := s.repo.GetLoan(ctx, id)
	if err != nil {
		return err
	}
	if loan.IsReturned() {
		return errs.ErrAlreadyReturned
	}

	returnedAt := s.now()
	fine := fineFor(loan.DueAt, returnedAt)
	loan.ReturnedAt = &returnedAt
	loan.FineAmount = fine

	returned, err := s.repo.ReturnLoan(ctx, id, returnedAt, fine, s.loanReturnedMessages(ctx, loan)...)
	if err != nil {
		return err
	}

	if err := s.catalog.AdjustQuantity(ctx, returned.BookID, returned.Quantity); err != nil {
		s.log.Error("increment book quantity",
			zap.Int64("bookId", returned.BookID),
			zap.Error(err))
	}

	s.log.Info("returned loan", zap.String("loanId", id.String()), zap.Float64("fine", fine))
	return nil
}

func (s *Service) GetLoan(ctx context.Context, id uuid.UUID) (model.Loan, error) {
	return s.repo.GetLoan(ctx, id)
}

func (s *Service) GetUserLoans(ctx context.Context, userID int64) ([]model.Loan, error) {
	return s.repo.GetUserLoans(ctx, userID)
}

func (s *Service) GetUserActiveLoans(ctx context.Context, userID int64) ([]model.Loan, error) {
	return s.repo.GetUserActiveLoans(ctx, userID)
}

func (s *Service) GetBookLoans(ctx context.Context, bookID int64) ([]model.Loan, error) {
	return s.repo.GetBookLoans(ctx, bookID)
}

func (s *Service) GetOverdueLoans(ctx context.Context) ([]model.Loan, error) {
	return s.repo.GetOverdueLoans(ctx, s.now())
}

func (s *Service) GetBorrowedCount(ctx context.Context, bookID int64) (int, error) {
	return s.repo.GetBorrowedCount(ctx, bookID)
}

func (s *Service) GetLoanStats(ctx context.Context) (model.LoanStats, error) {
	return s.repo.GetLoanStats(ctx, s.now())
}

// PublishLoanOverdue emits a loan.overdue notification; used by the
// overdue sweep, which republishes on every tick for every loan that
// is still overdue.
func (s *Service) PublishLoanOverdue(ctx context.Context, loan model.Loan, overdueDays int) {
	dueAt := loan.DueAt
	s.publish(ctx, events.TopicLoanOverdue, events.LoanEvent{
		LoanID:      loan.ID.String(),
		UserID:      loan.UserID,
		Email:       events.UserEmail(loan.UserID),
		BookID:      loan.BookID,
		BookTitle:   s.bookTitle(ctx, loan.BookID),
		DueDate:     &dueAt,
		OverdueDays: overdueDays,
		Timestamp:   s.now(),
	})
}

// PublishDueDateReminder emits a loan.due.reminder for a loan due
// within the reminder window.
func (s *Service) PublishDueDateReminder(ctx context.Context, loan model.Loan, daysUntilDue int) {
	dueAt := loan.DueAt
	s.publish(ctx, events.TopicLoanDueReminder, events.LoanEvent{
		LoanID:       loan.ID.String(),
		UserID:       loan.UserID,
		Email:        events.UserEmail(loan.UserID),
		BookID:       loan.BookID,
		BookTitle:    s.bookTitle(ctx, loan.BookID),
		DueDate:      &dueAt,
		DaysUntilDue: daysUntilDue,
		Timestamp:    s.now(),
	})
}

func (s *Service) loanCreatedMessages(ctx context.Context, loan model.Loan) []events.Message {
	dueAt := loan.DueAt
	msg, err := events.NewMessage(events.TopicLoanCreated, events.LoanEvent{
		LoanID:    loan.ID.String(),
		UserID:    loan.UserID,
		Email:     events.UserEmail(loan.UserID),
		BookID:    loan.BookID,
		BookTitle: s.bookTitle(ctx, loan.BookID),
		Quantity:  loan.Quantity,
		DueDate:   &dueAt,
		Timestamp: s.now(),
	})
	if err != nil {
		s.log.Error("build loan.created event", zap.Error(err))
		return nil
	}
	return []events.Message{msg}
}

func (s *Service) loanReturnedMessages(ctx context.Context, loan model.Loan) []events.Message {
	msgs := make([]events.Message, 0, 2)
	msg, err := events.NewMessage(events.TopicLoanReturned, events.LoanEvent{
		LoanID:     loan.ID.String(),
		UserID:     loan.UserID,
		Email:      events.UserEmail(loan.UserID),
		BookID:     loan.BookID,
		BookTitle:  s.bookTitle(ctx, loan.BookID),
		ReturnedAt: loan.ReturnedAt,
		FineAmount: loan.FineAmount,
		Timestamp:  s.now(),
	})
	if err != nil {
		s.log.Error("build loan.returned event", zap.Error(err))
	} else {
		msgs = append(msgs, msg)
	}

	if loan.FineAmount > 0 {
		fineMsg, err := events.NewMessage(events.TopicLoanOverdueFine, events.LoanEvent{
			LoanID:      loan.ID.String(),
			UserID:      loan.UserID,
			FineAmount:  loan.FineAmount,
			OverdueDays: daysBetween(loan.DueAt, *loan.ReturnedAt),
			Timestamp:   s.now(),
		})
		if err != nil {
			s.log.Error("build loan.overdue.fine event", zap.Error(err))
		} else {
			msgs = append(msgs, fineMsg)
		}
	}
	return msgs
}

func (s *Service) publish(ctx context.Context, topic string, event events.LoanEvent) {
	msg, err := events.NewMessage(topic, event)
	if err != nil {
		s.log.Error("build event", zap.String("topic", topic), zap.Error(err))
		return
	}
	s.publisher.Publish(ctx, msg)
}

// bookTitle enriches events best-effort; the catalog being down must
// not block a loan.
func (s *Service) bookTitle(ctx context.Context, bookID int64) string {
	book, err := s.catalog.GetBookInfo(ctx, bookID)
	if err != nil || book.Title == "" {
		return unknownBookTitle
	}
	return book.Title
}

func fineFor(dueAt, returnedAt time.Time) float64 {
	if !returnedAt.After(dueAt) {
		return 0
	}
	return float64(daysBetween(dueAt, returnedAt)) * model.FineRatePerDay
}

// daysBetween floors to whole 24h periods.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
