// Package dbretry bounds every database call with a per-attempt timeout
// and retries transient failures with exponential backoff. Permanent
// failures are never retried.
package dbretry

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Default policy values, overridable from config.
const (
	DefaultMaxRetries     = 3
	DefaultInitialDelay   = 200 * time.Millisecond
	DefaultAttemptTimeout = 5 * time.Second
)

// Policy controls the retry budget for one logical database call.
type Policy struct {
	MaxRetries     int           // retries after the first attempt
	InitialDelay   time.Duration // doubled on each retry
	AttemptTimeout time.Duration // deadline for a single attempt
}

// DefaultPolicy returns the policy used when the caller has no opinion.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:     DefaultMaxRetries,
		InitialDelay:   DefaultInitialDelay,
		AttemptTimeout: DefaultAttemptTimeout,
	}
}

func (p Policy) normalized() Policy {
	if p.MaxRetries < 0 {
		p.MaxRetries = 0
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = DefaultInitialDelay
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = DefaultAttemptTimeout
	}
	return p
}

// ExhaustedError is returned when the transient retry budget is spent.
// It wraps the last attempt's error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry budget exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Do runs op under the policy. Each attempt gets a child context with the
// per-attempt timeout; when the timer fires the executor stops waiting,
// but the underlying call is only cancelled as far as the driver honors
// the context. Transient failures are retried after InitialDelay*2^n;
// anything else propagates unchanged. At most MaxRetries+1 attempts run.
func Do(ctx context.Context, policy Policy, op func(ctx context.Context) error) error {
	policy = policy.normalized()

	var lastErr error
	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, policy.AttemptTimeout)
		err := runAttempt(attemptCtx, op)
		cancel()

		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}

		lastErr = err
		if attempt == policy.MaxRetries {
			break
		}

		delay := policy.InitialDelay << uint(attempt)
		log.Printf("⚠️ dbretry: transient failure (attempt %d/%d), retrying in %s: %v",
			attempt+1, policy.MaxRetries+1, delay, err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return &ExhaustedError{Attempts: policy.MaxRetries + 1, Last: lastErr}
}

// runAttempt races op against the attempt deadline. The op goroutine is
// abandoned, not killed, when the deadline wins; drivers that honor the
// context will abort the call themselves.
func runAttempt(ctx context.Context, op func(ctx context.Context) error) error {
	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
