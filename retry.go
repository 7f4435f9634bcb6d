package emailnator

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy configures Retry. The client never retries on its own; Retry
// is offered for callers that want a standard backoff around rate limits.
type RetryPolicy struct {
	// MaxRetries is the maximum number of retry attempts.
	MaxRetries int
	// BaseDelay is the initial delay between retry attempts.
	BaseDelay time.Duration
	// MaxDelay is the maximum delay between retry attempts.
	MaxDelay time.Duration
	// Multiplier is the factor by which the delay increases after each attempt.
	Multiplier float64
	// Jitter is the randomization factor (0.0 to 1.0) applied to delays.
	Jitter float64
	// RetryableOn reports whether err should trigger a retry.
	// Default: errors.Is(err, ErrRateLimited)
	RetryableOn func(err error) bool
}

// DefaultRetryPolicy returns the default retry policy.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:  3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
		Jitter:      0.2,
		RetryableOn: IsRateLimited,
	}
}

// IsRateLimited reports whether err is a rate-limit failure.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// ShouldRetry determines if a failed attempt should be retried.
func (r *RetryPolicy) ShouldRetry(attempt int, err error) bool {
	if err == nil || attempt >= r.MaxRetries {
		return false
	}
	retryable := r.RetryableOn
	if retryable == nil {
		retryable = IsRateLimited
	}
	return retryable(err)
}

// Delay calculates the delay before the next retry attempt with optional jitter.
func (r *RetryPolicy) Delay(attempt int) time.Duration {
	delay := float64(r.BaseDelay) * math.Pow(r.Multiplier, float64(attempt))
	if r.MaxDelay > 0 && delay > float64(r.MaxDelay) {
		delay = float64(r.MaxDelay)
	}

	if r.Jitter > 0 {
		jitterAmount := delay * r.Jitter
		delay = delay - jitterAmount + (rand.Float64() * 2 * jitterAmount)
	}

	return time.Duration(delay)
}

// Wait waits for the appropriate delay before retrying.
func (r *RetryPolicy) Wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(r.Delay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retry calls fn until it succeeds, fails with a non-retryable error, the
// policy's retries are exhausted or ctx is done. A nil policy uses
// DefaultRetryPolicy. The last error from fn is returned.
//
// Example:
//
//	var client *emailnator.Client
//	err := emailnator.Retry(ctx, nil, func(ctx context.Context) error {
//	    var err error
//	    client, err = emailnator.New(ctx)
//	    return err
//	})
func Retry(ctx context.Context, policy *RetryPolicy, fn func(context.Context) error) error {
	if policy == nil {
		policy = DefaultRetryPolicy()
	}

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if !policy.ShouldRetry(attempt, err) {
			return err
		}
		if waitErr := policy.Wait(ctx, attempt); waitErr != nil {
			return err
		}
	}
}
