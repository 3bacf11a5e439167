// Package retry provides the single retry policy applied to every capability
// call in the triage pipeline: LLM completions, news lookups, and fact-check
// lookups all share this schedule instead of carrying their own ad-hoc loops.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// ErrInvalidPolicy is returned by Validate when a policy's fields are
// inconsistent (zero attempts, or a delay cap below the base delay).
var ErrInvalidPolicy = errors.New("retry: invalid policy")

// Policy defines how an operation is retried.
//
// Errors are split into two classes:
//   - Retryable errors (as judged by the Retryable predicate, typically rate
//     limits) are retried up to MaxAttempts total attempts with exponential
//     backoff: min(BaseDelay * 2^attempt + jitter, MaxDelay).
//   - All other errors get up to FallbackRetries extra attempts, each after a
//     flat FallbackDelay pause, then surface to the caller.
//
// A nil Retryable predicate treats no error as retryable; the fallback class
// still applies.
type Policy struct {
	// MaxAttempts is the total number of attempts for retryable errors,
	// including the first one. Must be >= 1.
	MaxAttempts int

	// BaseDelay seeds the exponential backoff between retryable attempts.
	BaseDelay time.Duration

	// MaxDelay caps the backoff. Zero means no cap.
	MaxDelay time.Duration

	// Jitter is the upper bound of the random delay added to each backoff
	// step. Zero disables jitter.
	Jitter time.Duration

	// Retryable decides whether an error belongs to the backoff class.
	Retryable func(error) bool

	// FallbackRetries is the number of extra attempts granted to errors the
	// Retryable predicate rejects. Zero fails fast on the first such error.
	FallbackRetries int

	// FallbackDelay is the flat pause before each fallback attempt.
	FallbackDelay time.Duration
}

// Validate reports whether the policy is usable.
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return ErrInvalidPolicy
	}
	if p.MaxDelay > 0 && p.BaseDelay > 0 && p.MaxDelay < p.BaseDelay {
		return ErrInvalidPolicy
	}
	return nil
}

// Do runs fn until it succeeds, the policy is exhausted, or the context is
// done. The error returned is the last error produced by fn, except when the
// context ends first, in which case the context error wins.
func (p Policy) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := p.Validate(); err != nil {
		return err
	}

	attempts := 0
	fallbacks := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}

		var delay time.Duration
		if p.Retryable != nil && p.Retryable(err) {
			attempts++
			if attempts >= p.MaxAttempts {
				return err
			}
			delay = p.backoff(attempts - 1)
		} else {
			if fallbacks >= p.FallbackRetries {
				return err
			}
			fallbacks++
			delay = p.FallbackDelay
		}

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// backoff computes the delay before retryable attempt number attempt
// (zero-based): min(BaseDelay * 2^attempt + jitter, MaxDelay).
func (p Policy) backoff(attempt int) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}

	// Shift saturates well before overflow for any sane schedule.
	if attempt > 30 {
		attempt = 30
	}
	delay := p.BaseDelay << uint(attempt)
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	if p.Jitter > 0 {
		// Jitter timing only, not security sensitive.
		delay += time.Duration(rand.Int63n(int64(p.Jitter))) // #nosec G404
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}

	return delay
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
