package model

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusReturned Status = "RETURNED"
)

// LoanPeriod is the fixed borrowing period applied to every new loan.
const LoanPeriod = 14 * 24 * time.Hour

// FineRatePerDay is charged for every full day a returned loan is overdue.
const FineRatePerDay = 0.5

type Loan struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     int64      `json:"userId" db:"user_id"`
	BookID     int64      `json:"bookId" db:"book_id"`
	Quantity   int        `json:"quantity" db:"quantity"`
	BorrowedAt time.Time  `json:"borrowedAt" db:"borrowed_at"`
	DueAt      time.Time  `json:"dueAt" db:"due_at"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty" db:"returned_at"`
	Status     Status     `json:"status" db:"status"`
	FineAmount float64    `json:"fineAmount" db:"fine_amount"`
}

func (l Loan) IsReturned() bool {
	return l.ReturnedAt != nil
}

type CreateLoanRequest struct {
	UserID   int64 `json:"userId" validate:"required"`
	BookID   int64 `json:"bookId" validate:"required"`
	Quantity int   `json:"quantity" validate:"required,gt=0"`
}

type BorrowedCountResponse struct {
	BorrowedCount int `json:"borrowedCount"`
}

type LoanStats struct {
	TotalLoans    int `json:"totalLoans" db:"total_loans"`
	ActiveLoans   int `json:"activeLoans" db:"active_loans"`
	OverdueLoans  int `json:"overdueLoans" db:"overdue_loans"`
	ReturnedLoans int `json:"returnedLoans" db:"returned_loans"`
}

// Book is the slice of the catalog service's book representation
// the borrowing service cares about.
type Book struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}
