package errs

import (
	"errors"
)

var (
	ErrNotFound        = errors.New("loan not found")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	ErrBookUnavailable = errors.New("book not available or insufficient quantity")
	ErrDuplicateLoan   = errors.New("user already has an active loan for this book")
	ErrAlreadyReturned = errors.New("loan has already been returned")
)
