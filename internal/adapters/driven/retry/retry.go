// Package retry implements the bounded exponential backoff shared by
// the provider adapters. Transient faults (rate limits, 5xx, network
// errors) are retried; everything else stops the loop immediately.
package retry

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// Policy describes a bounded exponential backoff.
type Policy struct {
	// Attempts is the total number of tries, including the first.
	Attempts int

	// Base is the delay before the second try; it doubles per retry.
	Base time.Duration

	// Cap bounds every delay, including Retry-After hints.
	Cap time.Duration
}

// Default is the policy the provider adapters use.
var Default = Policy{
	Attempts: 3,
	Base:     500 * time.Millisecond,
	Cap:      5 * time.Second,
}

// Transient marks an error as retryable. RetryAfter, when non-zero,
// overrides the computed backoff delay; it comes from the provider's
// Retry-After header.
type Transient struct {
	Err        error
	RetryAfter time.Duration
}

func (t *Transient) Error() string { return t.Err.Error() }

func (t *Transient) Unwrap() error { return t.Err }

// IsTransient reports whether err is marked retryable.
func IsTransient(err error) bool {
	var t *Transient
	return errors.As(err, &t)
}

// Delay returns the backoff before retry number retry (0-based).
func (p Policy) Delay(retry int) time.Duration {
	if retry < 0 {
		retry = 0
	}
	d := p.Base << retry
	if d > p.Cap || d <= 0 {
		d = p.Cap
	}
	return d
}

// Do runs fn until it succeeds, returns a non-transient error, or the
// attempt budget is spent. The last transient error is returned on
// exhaustion. Waits between tries are cancelled by the context.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	var last error
	for attempt := 0; attempt < p.Attempts; attempt++ {
		if attempt > 0 {
			delay := p.Delay(attempt - 1)
			var t *Transient
			if errors.As(last, &t) && t.RetryAfter > 0 {
				delay = t.RetryAfter
				if delay > p.Cap {
					delay = p.Cap
				}
			}
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		last = err
	}
	return last
}

// After extracts a Retry-After hint from response headers. Both the
// delta-seconds and HTTP-date forms are understood; absent or
// malformed values yield zero.
func After(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
