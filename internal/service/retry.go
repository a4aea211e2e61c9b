package service

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/quizdeck/internal/course"
	"github.com/abhisek/quizdeck/internal/quiz"
)

// RetryConfig controls retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns the retry policy used by the CLI.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     4 * time.Second,
		Multiplier:  2.0,
	}
}

// RetryService is a decorator that retries transient errors with
// exponential backoff and jitter. Submit is safe to retry because
// submissions are keyed by token.
type RetryService struct {
	inner  Service
	config RetryConfig
}

// WithRetry wraps a Service with retry logic.
func WithRetry(s Service, cfg RetryConfig) Service {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryService{inner: s, config: cfg}
}

func (r *RetryService) Catalog(ctx context.Context) ([]course.Outline, error) {
	return retry(ctx, r, func() ([]course.Outline, error) { return r.inner.Catalog(ctx) })
}

func (r *RetryService) Preview(ctx context.Context, quizID string) (*quiz.Preview, error) {
	return retry(ctx, r, func() (*quiz.Preview, error) { return r.inner.Preview(ctx, quizID) })
}

func (r *RetryService) Submit(ctx context.Context, sub quiz.Submission) (*quiz.Attempt, error) {
	return retry(ctx, r, func() (*quiz.Attempt, error) { return r.inner.Submit(ctx, sub) })
}

func (r *RetryService) Results(ctx context.Context, quizID string) (*Results, error) {
	return retry(ctx, r, func() (*Results, error) { return r.inner.Results(ctx, quizID) })
}

func (r *RetryService) Modules(ctx context.Context, courseID string) ([]course.Module, error) {
	return retry(ctx, r, func() ([]course.Module, error) { return r.inner.Modules(ctx, courseID) })
}

func (r *RetryService) Lessons(ctx context.Context, moduleID string) ([]course.Lesson, error) {
	return retry(ctx, r, func() ([]course.Lesson, error) { return r.inner.Lessons(ctx, moduleID) })
}

func retry[T any](ctx context.Context, r *RetryService, call func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := range r.config.MaxAttempts {
		v, err := call()
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return zero, err
		}

		// Last attempt: return without sleeping.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(r.backoff(attempt)):
		}
	}

	return zero, lastErr
}

// shouldRetry determines if an error is retryable.
func shouldRetry(err error) bool {
	// Context errors are never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Retrying cannot change the answer to these.
	if errors.Is(err, ErrNotFound) {
		return false
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return false
	}
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return false
	}

	// Unavailable and other errors (network, etc.) are treated as transient.
	return true
}

// backoff computes the wait duration for the given attempt.
func (r *RetryService) backoff(attempt int) time.Duration {
	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
