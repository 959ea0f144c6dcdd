package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookvault/borrowing-service/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	return NewClient(zap.NewNop(), Config{Host: u.Hostname(), Port: u.Port()}), ts
}

func TestClient_CheckAvailability(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("enough stock", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/catalog/v1/books/5", r.URL.Path)
			_ = json.NewEncoder(w).Encode(model.Book{ID: 5, Title: "The Go Programming Language", Quantity: 3})
		}))
		require.True(t, c.CheckAvailability(ctx, 5, 1))
		require.True(t, c.CheckAvailability(ctx, 5, 3))
	})

	t.Run("insufficient stock", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(model.Book{ID: 5, Quantity: 1})
		}))
		require.False(t, c.CheckAvailability(ctx, 5, 2))
	})

	t.Run("book not found", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		require.False(t, c.CheckAvailability(ctx, 404, 1))
	})

	t.Run("catalog down", func(t *testing.T) {
		c, ts := newTestClient(t, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		ts.Close()
		require.False(t, c.CheckAvailability(ctx, 5, 1))
	})
}

func TestClient_GetBookInfo(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(model.Book{ID: 7, Title: "Designing Data-Intensive Applications", Quantity: 2})
	}))

	book, err := c.GetBookInfo(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "Designing Data-Intensive Applications", book.Title)
	require.Equal(t, 2, book.Quantity)
}

func TestClient_AdjustQuantity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("sends signed delta", func(t *testing.T) {
		var got map[string]int
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPut, r.Method)
			require.Equal(t, "/api/catalog/v1/books/5/quantity", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		}))

		require.NoError(t, c.AdjustQuantity(ctx, 5, -2))
		require.Equal(t, map[string]int{"quantityChange": -2}, got)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		var calls int32
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
			}
		}))

		require.NoError(t, c.AdjustQuantity(ctx, 5, 1))
		require.EqualValues(t, 3, atomic.LoadInt32(&calls))
	})

	t.Run("gives up after bounded retries", func(t *testing.T) {
		var calls int32
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))

		require.Error(t, c.AdjustQuantity(ctx, 5, 1))
		require.EqualValues(t, adjustRetries, atomic.LoadInt32(&calls))
	})
}
