package fetch

import (
	"context"
	"time"
)

// Policy is an explicit retry-policy value: attempt bound, backoff base,
// per-attempt timeout and the retryable-error predicate.
type Policy struct {
	MaxAttempts int
	BackoffBase time.Duration
	Timeout     time.Duration
	Retryable   func(error) bool
}

func (p Policy) retryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return IsRetryable(err)
}

// Do runs fn under the policy: each attempt gets its own deadline, failed
// retryable attempts back off exponentially (base × 2^attempt). The last
// error is returned once attempts are exhausted.
func Do[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := p.BackoffBase << (attempt - 1)
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}

		actx := ctx
		cancel := func() {}
		if p.Timeout > 0 {
			actx, cancel = context.WithTimeout(ctx, p.Timeout)
		}
		v, err := fn(actx)
		cancel()

		if err == nil {
			return v, nil
		}
		lastErr = err
		if !p.retryable(err) {
			return zero, err
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
	}
	return zero, lastErr
}

// WithFallback exhausts retries against primary, tries secondary exactly
// once, and finally computes the offline value. The offline path cannot
// fail, so neither can WithFallback.
func WithFallback[T any](
	ctx context.Context,
	p Policy,
	primary func(context.Context) (T, error),
	secondary func(context.Context) (T, error),
	offline func() T,
) T {
	v, err := Do(ctx, p, primary)
	if err == nil {
		return v
	}

	if secondary != nil {
		single := p
		single.MaxAttempts = 1
		if v, err = Do(ctx, single, secondary); err == nil {
			return v
		}
	}

	return offline()
}
