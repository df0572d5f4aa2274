package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnreachable marks a remote backend that did not answer.
var ErrUnreachable = errors.New("backend unreachable")

type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as worth retrying. Transient(nil) is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err, or any error it wraps, was marked with
// Transient.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// Backoff configures exponential retry of a remote call.
type Backoff struct {
	Attempts int           // total calls, including the first
	Delay    time.Duration // wait before the first retry
	Max      time.Duration // upper bound on a single wait; zero means none
}

// DefaultBackoff is used when connecting to Redis and MongoDB: three calls,
// waiting one and then two seconds.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, Max: 8 * time.Second}

// Retry calls fn until it succeeds, returns an error not marked Transient, or
// the attempts run out. The last error is returned. A cancelled context stops
// the wait and returns ctx.Err().
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay

	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
		if b.Max > 0 && delay > b.Max {
			delay = b.Max
		}
	}
	return err
}
