package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookvault/borrowing-service/internal/errs"
	"github.com/bookvault/borrowing-service/internal/handler"
	"github.com/bookvault/borrowing-service/internal/model"
	"github.com/bookvault/borrowing-service/pkg/validate"

	service_mocks "github.com/bookvault/borrowing-service/internal/handler/mocks"
)

var (
	testLoanID     = uuid.MustParse("8f14e45f-ceea-467f-9575-cfa4ea3f9aab")
	testBorrowedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

func testLoan() model.Loan {
	return model.Loan{
		ID:         testLoanID,
		UserID:     1,
		BookID:     5,
		Quantity:   1,
		BorrowedAt: testBorrowedAt,
		DueAt:      testBorrowedAt.Add(14 * 24 * time.Hour),
		Status:     model.StatusActive,
	}
}

func TestHandler_CreateLoan(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLoanService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "created",
			body: `{"userId":1,"bookId":5,"quantity":1}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					CreateLoan(context.Background(), model.CreateLoanRequest{UserID: 1, BookID: 5, Quantity: 1}).
					Return(testLoan(), nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":"8f14e45f-ceea-467f-9575-cfa4ea3f9aab","userId":1,"bookId":5,"quantity":1,"borrowedAt":"2024-03-01T12:00:00Z","dueAt":"2024-03-15T12:00:00Z","status":"ACTIVE","fineAmount":0}`,
			},
		},
		{
			name:         "err. non-positive quantity",
			body:         `{"userId":1,"bookId":5,"quantity":0}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
		{
			name: "err. book unavailable",
			body: `{"userId":1,"bookId":5,"quantity":2}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					CreateLoan(context.Background(), model.CreateLoanRequest{UserID: 1, BookID: 5, Quantity: 2}).
					Return(model.Loan{}, errs.ErrBookUnavailable)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"book not available or insufficient quantity"}`,
			},
		},
		{
			name: "err. duplicate active loan",
			body: `{"userId":2,"bookId":7,"quantity":1}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					CreateLoan(context.Background(), model.CreateLoanRequest{UserID: 2, BookID: 7, Quantity: 1}).
					Return(model.Loan{}, errs.ErrDuplicateLoan)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"user already has an active loan for this book"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLoanService(c)
			tt.mockBehavior(svc)

			e := newTestRouter(svc)

			r := httptest.NewRequest(http.MethodPost, "/api/borrowing/v1/loans", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_ReturnLoan(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLoanService)

	var tests = []struct {
		name         string
		loanID       string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:   "ok",
			loanID: testLoanID.String(),
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					ReturnLoan(context.Background(), testLoanID).
					Return(nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: "",
			},
		},
		{
			name:   "err. unknown loan",
			loanID: testLoanID.String(),
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					ReturnLoan(context.Background(), testLoanID).
					Return(errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"loan not found"}`,
			},
		},
		{
			name:   "err. already returned",
			loanID: testLoanID.String(),
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					ReturnLoan(context.Background(), testLoanID).
					Return(errs.ErrAlreadyReturned)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"loan has already been returned"}`,
			},
		},
		{
			name:         "err. malformed id",
			loanID:       "not-a-uuid",
			mockBehavior: func(r *service_mocks.MockLoanService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"invalid loan id"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLoanService(c)
			tt.mockBehavior(svc)

			e := newTestRouter(svc)

			r := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/borrowing/v1/loans/%s/return", tt.loanID), http.NoBody)
			w := httptest.NewRecorder()

			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_GetUserActiveLoans(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLoanService(c)
	svc.EXPECT().
		GetUserActiveLoans(context.Background(), int64(1)).
		Return([]model.Loan{testLoan()}, nil)

	e := newTestRouter(svc)

	r := httptest.NewRequest(http.MethodGet, "/api/borrowing/v1/users/1/loans/active", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		`[{"id":"8f14e45f-ceea-467f-9575-cfa4ea3f9aab","userId":1,"bookId":5,"quantity":1,"borrowedAt":"2024-03-01T12:00:00Z","dueAt":"2024-03-15T12:00:00Z","status":"ACTIVE","fineAmount":0}]`,
		strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_GetBorrowedCount(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLoanService(c)
	svc.EXPECT().
		GetBorrowedCount(context.Background(), int64(5)).
		Return(3, nil)

	e := newTestRouter(svc)

	r := httptest.NewRequest(http.MethodGet, "/api/borrowing/v1/books/5/borrowed-count", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"borrowedCount":3}`, strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_GetLoanStats(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLoanService(c)
	svc.EXPECT().
		GetLoanStats(context.Background()).
		Return(model.LoanStats{TotalLoans: 10, ActiveLoans: 4, OverdueLoans: 1, ReturnedLoans: 6}, nil)

	e := newTestRouter(svc)

	r := httptest.NewRequest(http.MethodGet, "/api/borrowing/v1/loans/stats", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"totalLoans":10,"activeLoans":4,"overdueLoans":1,"returnedLoans":6}`, strings.Trim(w.Body.String(), "\n"))
}

func newTestRouter(svc handler.LoanService) *echo.Echo {
	log := zap.NewExample().Named("test")
	h := handler.New(svc, log)

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.POST("/api/borrowing/v1/loans", h.CreateLoan)
	e.POST("/api/borrowing/v1/loans/:id/return", h.ReturnLoan)
	e.GET("/api/borrowing/v1/loans/:id", h.GetLoan)
	e.GET("/api/borrowing/v1/loans/stats", h.GetLoanStats)
	e.GET("/api/borrowing/v1/users/:userId/loans/active", h.GetUserActiveLoans)
	e.GET("/api/borrowing/v1/books/:bookId/borrowed-count", h.GetBorrowedCount)
	return e
}
