package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cb "github.com/bookvault/borrowing-service/pkg/circuit_breaker"
)

func Test_circuitBreaker_Call(t *testing.T) {
	successfulService := func() error { return nil }
	failingService := func() error { return errors.New("service error") }

	t.Run("opens after failure percentile and recovers", func(t *testing.T) {
		breaker := cb.New(10, 100*time.Millisecond, 0.5, 2)

		for i := 0; i < 10; i++ {
			require.NoError(t, breaker.Call(successfulService))
		}

		for i := 0; i < 5; i++ {
			require.Error(t, breaker.Call(failingService))
		}
		// 5/10 failed, breaker must be open now
		require.ErrorIs(t, breaker.Call(successfulService), cb.ErrOpenCB)

		time.Sleep(150 * time.Millisecond)

		// half-open probes succeed, breaker closes again
		for i := 0; i < 3; i++ {
			require.NoError(t, breaker.Call(successfulService))
		}
		require.NoError(t, breaker.Call(successfulService))
	})

	t.Run("half-open failure reopens", func(t *testing.T) {
		breaker := cb.New(4, 50*time.Millisecond, 0.5, 1)

		require.Error(t, breaker.Call(failingService))
		require.Error(t, breaker.Call(failingService))
		require.ErrorIs(t, breaker.Call(successfulService), cb.ErrOpenCB)

		time.Sleep(80 * time.Millisecond)

		require.Error(t, breaker.Call(failingService))
		require.ErrorIs(t, breaker.Call(successfulService), cb.ErrOpenCB)
	})

	t.Run("reset closes the breaker", func(t *testing.T) {
		breaker := cb.New(2, time.Minute, 0.5, 1)

		require.Error(t, breaker.Call(failingService))
		require.ErrorIs(t, breaker.Call(successfulService), cb.ErrOpenCB)

		breaker.Reset()
		require.NoError(t, breaker.Call(successfulService))
	})
}
