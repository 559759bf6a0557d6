package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, func(attempt int) error {
		calls++
		assert.Equal(t, calls-1, attempt)
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	boom := errors.New("permanent")
	calls := 0
	err := withRetry(context.Background(), 3, func(int) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestWithRetryStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		// Cancel while the retry loop is in its first backoff wait.
		cancel()
	}()
	err := withRetry(ctx, 3, func(int) error {
		calls++
		return errors.New("transient")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestJobEnvelopeRoundTrip(t *testing.T) {
	payload, err := json.Marshal(EmailJobPayload{
		ToEmail: "ops@medimex.example",
		Subject: "Low stock: Thermal fuse 10A",
		Body:    "Part TF-10A is down to 1 units (minimum 2).",
	})
	require.NoError(t, err)

	encoded, err := json.Marshal(Job{Type: "email", Payload: payload})
	require.NoError(t, err)

	var job Job
	require.NoError(t, json.Unmarshal(encoded, &job))
	assert.Equal(t, "email", job.Type)

	var decoded EmailJobPayload
	require.NoError(t, json.Unmarshal(job.Payload, &decoded))
	assert.Equal(t, "ops@medimex.example", decoded.ToEmail)
}

func TestEmailWorkerIgnoresMalformedPayload(t *testing.T) {
	w := NewEmailWorker(nil, nil)

	// Garbage and empty recipients are dropped, not retried.
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{not json`)))
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{"to_email":""}`)))
}
