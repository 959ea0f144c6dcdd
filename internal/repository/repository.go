package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookvault/borrowing-service/internal/errs"
	"github.com/bookvault/borrowing-service/internal/events"
	"github.com/bookvault/borrowing-service/internal/model"
)

type Repository interface {
	CreateLoan(ctx context.Context, loan model.Loan, msgs ...events.Message) (model.Loan, error)
	ReturnLoan(ctx context.Context, id uuid.UUID, returnedAt time.Time, fine float64, msgs ...events.Message) (model.Loan, error)
	GetLoan(ctx context.Context, id uuid.UUID) (model.Loan, error)
	HasActiveLoan(ctx context.Context, userID, bookID int64) (bool, error)
	GetUserLoans(ctx context.Context, userID int64) ([]model.Loan, error)
	GetUserActiveLoans(ctx context.Context, userID int64) ([]model.Loan, error)
	GetBookLoans(ctx context.Context, bookID int64) ([]model.Loan, error)
	GetOverdueLoans(ctx context.Context, now time.Time) ([]model.Loan, error)
	GetLoansDueBetween(ctx context.Context, from, to time.Time) ([]model.Loan, error)
	GetBorrowedCount(ctx context.Context, bookID int64) (int, error)
	GetLoanStats(ctx context.Context, now time.Time) (model.LoanStats, error)

	events.Enqueuer
	events.OutboxSource
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	loansTableName  = `loans`
	outboxTableName = `event_outbox`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var loanColumns = []string{"id", "user_id", "book_id", "quantity", "borrowed_at", "due_at", "returned_at", "status", "fine_amount"}

// CreateLoan inserts the loan and its outbox rows in one transaction.
// A concurrent insert for the same (user, book) trips the partial
// unique index on ACTIVE loans and maps to ErrDuplicateLoan.
func (r *repository) CreateLoan(ctx context.Context, loan model.Loan, msgs ...events.Message) (model.Loan, error) {
	q, args, err := qb.Insert(loansTableName).
		Columns("id", "user_id", "book_id", "quantity", "borrowed_at", "due_at", "status", "fine_amount").
		Values(loan.ID, loan.UserID, loan.BookID, loan.Quantity, loan.BorrowedAt, loan.DueAt, loan.Status, loan.FineAmount).
		Suffix("returning " + columns()).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Loan{}, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	var created model.Loan
	if err := tx.GetContext(ctx, &created, q, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Loan{}, errs.ErrDuplicateLoan
		}
		r.log.Error("CreateLoan", zap.String("q", q), zap.Any("args", args))
		return model.Loan{}, err
	}
	if err := r.enqueueEvents(ctx, tx, msgs...); err != nil {
		return model.Loan{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Loan{}, errors.Wrap(err, "commit tx")
	}
	return created, nil
}

// ReturnLoan closes the loan and records its outbox rows atomically.
// The status guard makes a second return report ErrAlreadyReturned
// without touching returned_at or the fine.
func (r *repository) ReturnLoan(ctx context.Context, id uuid.UUID, returnedAt time.Time, fine float64, msgs ...events.Message) (model.Loan, error) {
	q, args, err := qb.Update(loansTableName).
		Set("status", model.StatusReturned).
		Set("returned_at", returnedAt).
		Set("fine_amount", fine).
		Where(sq.Eq{"id": id, "status": model.StatusActive}).
		Suffix("returning " + columns()).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Loan{}, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	var returned model.Loan
	if err := tx.GetContext(ctx, &returned, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrAlreadyReturned
		}
		return model.Loan{}, err
	}
	if err := r.enqueueEvents(ctx, tx, msgs...); err != nil {
		return model.Loan{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Loan{}, errors.Wrap(err, "commit tx")
	}
	return returned, nil
}

func (r *repository) GetLoan(ctx context.Context, id uuid.UUID) (model.Loan, error) {
	q, args, err := qb.Select(loanColumns...).
		From(loansTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrNotFound
		}
		return model.Loan{}, err
	}
	return loan, nil
}

func (r *repository) HasActiveLoan(ctx context.Context, userID, bookID int64) (bool, error) {
	q := `select exists(select 1 from loans where user_id = $1 and book_id = $2 and status = $3)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, userID, bookID, model.StatusActive).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *repository) GetUserLoans(ctx context.Context, userID int64) ([]model.Loan, error) {
	return r.selectLoans(ctx, sq.Eq{"user_id": userID})
}

func (r *repository) GetUserActiveLoans(ctx context.Context, userID int64) ([]model.Loan, error) {
	return r.selectLoans(ctx, sq.Eq{"user_id": userID, "status": model.StatusActive})
}

func (r *repository) GetBookLoans(ctx context.Context, bookID int64) ([]model.Loan, error) {
	return r.selectLoans(ctx, sq.Eq{"book_id": bookID})
}

func (r *repository) GetOverdueLoans(ctx context.Context, now time.Time) ([]model.Loan, error) {
	return r.selectLoans(ctx, sq.And{
		sq.Eq{"status": model.StatusActive},
		sq.Lt{"due_at": now},
	})
}

func (r *repository) GetLoansDueBetween(ctx context.Context, from, to time.Time) ([]model.Loan, error) {
	return r.selectLoans(ctx, sq.And{
		sq.Eq{"status": model.StatusActive},
		sq.GtOrEq{"due_at": from},
		sq.LtOrEq{"due_at": to},
	})
}

func (r *repository) selectLoans(ctx context.Context, pred interface{}) ([]model.Loan, error) {
	q, args, err := qb.Select(loanColumns...).
		From(loansTableName).
		Where(pred).
		OrderBy("borrowed_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	loans := make([]model.Loan, 0)
	if err := r.db.SelectContext(ctx, &loans, q, args...); err != nil {
		r.log.Error("selectLoans", zap.String("q", q), zap.Any("args", args))
		return nil, err
	}
	return loans, nil
}

func (r *repository) GetBorrowedCount(ctx context.Context, bookID int64) (int, error) {
	q := `
	select coalesce(sum(quantity), 0) from loans
	where book_id = $1 and status = $2
`
	var count int
	if err := r.db.QueryRowContext(ctx, q, bookID, model.StatusActive).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) GetLoanStats(ctx context.Context, now time.Time) (model.LoanStats, error) {
	q := `
	select count(*)                                                      as total_loans,
	       count(*) filter (where status = 'ACTIVE')                     as active_loans,
	       count(*) filter (where status = 'ACTIVE' and due_at < $1)     as overdue_loans,
	       count(*) filter (where status = 'RETURNED')                   as returned_loans
	from loans
`
	var stats model.LoanStats
	if err := r.db.GetContext(ctx, &stats, q, now); err != nil {
		return model.LoanStats{}, err
	}
	return stats, nil
}

func columns() string {
	return strings.Join(loanColumns, ", ")
}
