package infra

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCB() *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		OpenTimeout:      50 * time.Millisecond,
	})
}

func TestCircuitBreakerTripsOpen(t *testing.T) {
	cb := testCB()
	boom := errors.New("smtp down")

	for i := 0; i < 3; i++ {
		assert.Equal(t, CBClosed, cb.State())
		require.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
	}
	assert.Equal(t, CBOpen, cb.State())

	// While open, calls fast-fail without invoking fn.
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreakerRecovers(t *testing.T) {
	cb := testCB()
	boom := errors.New("smtp down")
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return boom })
	}
	require.Equal(t, CBOpen, cb.State())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, CBHalfOpen, cb.State())

	// Two successful probes close the breaker.
	require.NoError(t, cb.Execute(func() error { return nil }))
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, CBClosed, cb.State())
}

func TestCircuitBreakerProbeFailureReopens(t *testing.T) {
	cb := testCB()
	boom := errors.New("smtp down")
	for i := 0; i < 3; i++ {
		_ = cb.Execute(func() error { return boom })
	}
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, CBHalfOpen, cb.State())

	require.ErrorIs(t, cb.Execute(func() error { return boom }), boom)
	assert.Equal(t, CBOpen, cb.State())
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := testCB()
	boom := errors.New("smtp flaky")

	_ = cb.Execute(func() error { return boom })
	_ = cb.Execute(func() error { return boom })
	require.NoError(t, cb.Execute(func() error { return nil }))

	// The streak was broken: two more failures are not enough to trip.
	_ = cb.Execute(func() error { return boom })
	_ = cb.Execute(func() error { return boom })
	assert.Equal(t, CBClosed, cb.State())
}
