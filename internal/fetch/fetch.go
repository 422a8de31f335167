// Package fetch provides bounded retry with exponential backoff and an
// all-or-nothing parallel fetch combinator.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gatallahx/before-you-bet/internal/telemetry"
)

// Policy bounds a retried operation.
type Policy struct {
	MaxAttempts int           // total attempts, including the first
	BaseDelay   time.Duration // delay before attempt i is BaseDelay * 2^(i-1)
}

// DefaultPolicy matches the client defaults.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second}
}

// BatchError is the all-or-nothing failure of a batch fetch. It carries
// the batch id, the item whose fetch ultimately failed, and that item's
// original error.
type BatchError struct {
	BatchID uuid.UUID
	Item    string
	Err     error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %s: fetch %s: %v", e.BatchID, e.Item, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// retryable is implemented by errors that look transient. Anything else
// (not-found, invalid input) cannot succeed on a repeat call.
type retryable interface {
	Retryable() bool
}

func isRetryable(err error) bool {
	var r retryable
	return errors.As(err, &r) && r.Retryable()
}

// Retry runs fn up to p.MaxAttempts times, waiting BaseDelay * 2^i after
// failed attempt i. Attempts are strictly sequential: the next attempt is
// never issued while one is outstanding or a backoff wait is pending. The
// final attempt's error is propagated unchanged, as is any non-retryable
// error. Cancellation aborts both attempts and backoff waits.
func Retry[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	var lastErr error
	delay := p.BaseDelay

	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			telemetry.RetryAttempts.Inc()
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return zero, err
		}
	}

	return zero, lastErr
}

// All fetches every item concurrently and succeeds only if all succeed.
// Results preserve the input order regardless of completion order. On any
// item's final failure the whole call fails with a *BatchError naming the
// first failing item in input order; completed sibling results are
// discarded, and in-flight siblings are allowed to finish rather than
// cancelled. concurrency <= 0 means unbounded.
func All[T any](ctx context.Context, items []string, concurrency int, fn func(context.Context, string) (T, error)) ([]T, error) {
	batchID := uuid.New()

	results := make([]T, len(items))
	errs := make([]error, len(items))

	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			results[i], errs[i] = fn(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			telemetry.Batches.WithLabelValues("failed").Inc()
			return nil, &BatchError{BatchID: batchID, Item: items[i], Err: err}
		}
	}

	telemetry.Batches.WithLabelValues("ok").Inc()
	return results, nil
}

// Result is one item's outcome in a best-effort batch.
type Result[T any] struct {
	Item  string
	Value T
	Err   error
}

// Each is the best-effort counterpart of All: every item is fetched
// concurrently and each result or error is reported per item, in input
// order. Callers that tolerate partial data use this instead of All.
func Each[T any](ctx context.Context, items []string, concurrency int, fn func(context.Context, string) (T, error)) []Result[T] {
	results := make([]Result[T], len(items))

	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			v, err := fn(ctx, item)
			results[i] = Result[T]{Item: item, Value: v, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
