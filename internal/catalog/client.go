package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	cb "github.com/bookvault/borrowing-service/pkg/circuit_breaker"

	"github.com/bookvault/borrowing-service/internal/model"
)

// Client is the synchronous boundary to the catalog service, which
// owns the available-unit counts.
type Client interface {
	CheckAvailability(ctx context.Context, bookID int64, quantity int) bool
	AdjustQuantity(ctx context.Context, bookID int64, delta int) error
	GetBookInfo(ctx context.Context, bookID int64) (model.Book, error)
}

type Config struct {
	Host string `yaml:"host" envconfig:"CATALOG_HTTP_HOST" default:"catalog"`
	Port string `yaml:"port" envconfig:"CATALOG_HTTP_PORT" default:"8081"`
}

const (
	requestTimeout = 5 * time.Second
	adjustRetries  = 3
	retryBackoff   = 500 * time.Millisecond
)

type client struct {
	log     *zap.Logger
	client  *http.Client
	breaker cb.CircuitBreaker
	cfg     Config
}

func NewClient(log *zap.Logger, cfg Config) *client {
	return &client{
		log:     log.Named("catalog"),
		client:  &http.Client{Timeout: requestTimeout},
		breaker: cb.New(10, 15*time.Second, 0.5, 3),
		cfg:     cfg,
	}
}

// CheckAvailability treats every failure as unavailable: a loan must
// not be created on a guess.
func (c *client) CheckAvailability(ctx context.Context, bookID int64, quantity int) bool {
	book, err := c.GetBookInfo(ctx, bookID)
	if err != nil {
		c.log.Error("check availability", zap.Int64("bookId", bookID), zap.Error(err))
		return false
	}
	return book.Quantity >= quantity
}

func (c *client) GetBookInfo(ctx context.Context, bookID int64) (model.Book, error) {
	var book model.Book
	err := c.breaker.Call(func() error {
		req, err := http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			fmt.Sprintf("http://%s/api/catalog/v1/books/%d", net.JoinHostPort(c.cfg.Host, c.cfg.Port), bookID),
			http.NoBody)
		if err != nil {
			return err
		}
		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return errors.Errorf("catalog status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&book)
	})
	if err != nil {
		return model.Book{}, err
	}
	return book, nil
}

// AdjustQuantity applies a signed delta to the book's available count.
// Retries are bounded; the caller decides whether a final failure
// matters (for loans it is logged and swallowed).
func (c *client) AdjustQuantity(ctx context.Context, bookID int64, delta int) error {
	body, err := json.Marshal(map[string]int{"quantityChange": delta})
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < adjustRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		lastErr = c.breaker.Call(func() error {
			req, err := http.NewRequestWithContext(
				ctx,
				http.MethodPut,
				fmt.Sprintf("http://%s/api/catalog/v1/books/%d/quantity", net.JoinHostPort(c.cfg.Host, c.cfg.Port), bookID),
				bytes.NewReader(body))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			resp, err := c.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return errors.Errorf("catalog status %d", resp.StatusCode)
			}
			return nil
		})
		if lastErr == nil {
			return nil
		}
	}
	return errors.Wrapf(lastErr, "adjust quantity bookId %d by %d", bookID, delta)
}
