package backoff

import (
	"context"
	"math"
	"time"
)

type BackoffStrategy interface {
	GetBackoffDuration(int, time.Duration, time.Duration) time.Duration
}

type Backoff struct {
	LastDuration time.Duration
	NextDuration time.Duration
	start        time.Duration
	limit        time.Duration
	count        int
	strategy     BackoffStrategy
}

func NewBackoff(strategy BackoffStrategy, start time.Duration, limit time.Duration) *Backoff {
	backoff := Backoff{strategy: strategy, start: start, limit: limit}
	backoff.Reset()
	return &backoff
}

func (b *Backoff) Reset() {
	b.count = 0
	b.LastDuration = 0
	b.NextDuration = b.getNextDuration()
}

// Count returns how many times Backoff has slept to completion
func (b *Backoff) Count() int {
	return b.count
}

// Backoff sleeps NextDuration, it returns ctx.Err() if ctx is done first
func (b *Backoff) Backoff(ctx context.Context) error {
	timer := time.NewTimer(b.NextDuration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	b.count++
	b.LastDuration = b.NextDuration
	b.NextDuration = b.getNextDuration()
	return nil
}

func (b *Backoff) getNextDuration() time.Duration {
	backoff := b.strategy.GetBackoffDuration(b.count, b.start, b.LastDuration)
	if b.limit > 0 && backoff > b.limit {
		backoff = b.limit
	}
	return backoff
}

// Retry calls fn until it succeeds, retries are used up or shouldRetry rejects the error.
// retries is the number of extra attempts, 0 means a single call.
func Retry(ctx context.Context, b *Backoff, retries int, shouldRetry func(error) bool, fn func() error) error {
	err := fn()
	for i := 0; i < retries && err != nil; i++ {
		if shouldRetry != nil && !shouldRetry(err) {
			return err
		}
		if bErr := b.Backoff(ctx); bErr != nil {
			return err
		}
		err = fn()
	}
	return err
}

type exponential struct{}

func (exponential) GetBackoffDuration(backoffCount int, start time.Duration, lastBackoff time.Duration) time.Duration {
	period := int64(math.Pow(2, float64(backoffCount)))
	return time.Duration(period) * start
}

func NewExponential(start time.Duration, limit time.Duration) *Backoff {
	return NewBackoff(exponential{}, start, limit)
}

type constant struct{}

func (constant) GetBackoffDuration(_ int, start time.Duration, _ time.Duration) time.Duration {
	return start
}

func NewConstant(interval time.Duration) *Backoff {
	return NewBackoff(constant{}, interval, 0)
}
