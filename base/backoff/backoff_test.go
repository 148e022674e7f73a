package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExponential(t *testing.T) {
	req := require.New(t)
	b := NewExponential(time.Millisecond, 4*time.Millisecond)
	ctx := context.Background()

	want := []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond, 4 * time.Millisecond}
	for _, w := range want {
		req.Equal(w, b.NextDuration)
		req.NoError(b.Backoff(ctx))
	}
	req.Equal(4, b.Count())

	b.Reset()
	req.Equal(time.Millisecond, b.NextDuration)
	req.Equal(0, b.Count())
}

func TestBackoffCancelled(t *testing.T) {
	req := require.New(t)
	b := NewConstant(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req.Equal(context.Canceled, b.Backoff(ctx))
	req.Equal(0, b.Count())
}

func TestRetry(t *testing.T) {
	errFlaky := errors.New("flaky")
	errFatal := errors.New("fatal")

	tests := []struct {
		name      string
		retries   int
		failures  int
		failWith  error
		wantCalls int
		wantErr   error
	}{
		{name: "single attempt success", retries: 0, failures: 0, wantCalls: 1},
		{name: "single attempt failure", retries: 0, failures: 1, failWith: errFlaky, wantCalls: 1, wantErr: errFlaky},
		{name: "recovers within retries", retries: 2, failures: 2, failWith: errFlaky, wantCalls: 3},
		{name: "retries exhausted", retries: 2, failures: 5, failWith: errFlaky, wantCalls: 3, wantErr: errFlaky},
		{name: "non retryable", retries: 2, failures: 5, failWith: errFatal, wantCalls: 1, wantErr: errFatal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), NewConstant(time.Millisecond), tt.retries,
				func(err error) bool { return err == errFlaky },
				func() error {
					calls++
					if calls <= tt.failures {
						return tt.failWith
					}
					return nil
				})
			require.Equal(t, tt.wantErr, err)
			require.Equal(t, tt.wantCalls, calls)
		})
	}
}
