package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookvault/borrowing-service/internal/model"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go

type LoanService interface {
	CreateLoan(ctx context.Context, req model.CreateLoanRequest) (model.Loan, error)
	ReturnLoan(ctx context.Context, id uuid.UUID) error
	GetLoan(ctx context.Context, id uuid.UUID) (model.Loan, error)
	GetUserLoans(ctx context.Context, userID int64) ([]model.Loan, error)
	GetUserActiveLoans(ctx context.Context, userID int64) ([]model.Loan, error)
	GetBookLoans(ctx context.Context, bookID int64) ([]model.Loan, error)
	GetOverdueLoans(ctx context.Context) ([]model.Loan, error)
	GetBorrowedCount(ctx context.Context, bookID int64) (int, error)
	GetLoanStats(ctx context.Context) (model.LoanStats, error)
}
