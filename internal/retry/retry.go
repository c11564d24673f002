package retry

import (
	"context"
	"fmt"
	"time"
)

// Backoff describes an exponential backoff policy: the delay doubles from
// Base after every failed attempt and never exceeds Cap.
type Backoff struct {
	Base time.Duration
	Cap  time.Duration
}

func (b Backoff) delay(attempt int) time.Duration {
	d := b.Base << attempt
	if b.Cap > 0 && d > b.Cap {
		d = b.Cap
	}
	return d
}

// Do runs op up to attempts times, sleeping per the backoff policy between
// failures. It returns nil on the first success, the context error if the
// context is cancelled mid-wait, and otherwise the last error wrapped with
// the attempt count.
func Do(ctx context.Context, attempts int, b Backoff, op func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		timer := time.NewTimer(b.delay(i))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("after %d attempts: %w", attempts, err)
}
