package cache

import (
	"context"
	"errors"
	"time"
)

// ErrBackend marks failures talking to a remote cache.
var ErrBackend = errors.New("cache backend unavailable")

type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// transient marks err as worth another attempt. transient(nil) is nil.
func transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err}
}

func isTransient(err error) bool {
	return errors.As(err, new(transientError))
}

// backoff retries transient failures with exponentially growing pauses
// capped at maxDelay.
type backoff struct {
	attempts int
	delay    time.Duration
	maxDelay time.Duration
}

var redisBackoff = backoff{attempts: 3, delay: 100 * time.Millisecond, maxDelay: time.Second}

func (b backoff) run(ctx context.Context, fn func() error) error {
	delay := b.delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !isTransient(err) || attempt >= b.attempts {
			return err
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		if delay = 2 * delay; b.maxDelay > 0 && delay > b.maxDelay {
			delay = b.maxDelay
		}
	}
}
