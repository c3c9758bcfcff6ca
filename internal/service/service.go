package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fittrack/planner/internal/domain"
	"fittrack/planner/internal/repository"

	"github.com/cenkalti/backoff/v4"
)

// --- Error Definitions ---
var (
	// ErrConflict is returned when a concurrent write already changed the plan.
	ErrConflict = errors.New("plan was changed concurrently")
	// ErrExportDisabled is returned when no object storage is configured.
	ErrExportDisabled = errors.New("plan export is not configured")
)

// StoreOptions bounds calls to the document store.
type StoreOptions struct {
	Timeout     time.Duration
	ReadRetries int
	// RetryInterval is the first backoff interval; zero uses a 100ms default.
	RetryInterval time.Duration
}

func (o StoreOptions) withDefaults() StoreOptions {
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	if o.ReadRetries < 0 {
		o.ReadRetries = 0
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = 100 * time.Millisecond
	}
	return o
}

// read runs a store read with a per-attempt timeout, retrying transient
// failures with exponential backoff. Other errors stop the retry loop.
func read[T any](ctx context.Context, opts StoreOptions, op func(ctx context.Context) (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = opts.RetryInterval
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(opts.ReadRetries)), ctx)

	return backoff.RetryWithData(func() (T, error) {
		callCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
		defer cancel()

		v, err := op(callCtx)
		if err != nil && !errors.Is(err, domain.ErrTransientIO) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}, policy)
}

// write runs a store write once with a timeout. Writes are never retried.
func write[T any](ctx context.Context, opts StoreOptions, op func(ctx context.Context) (T, error)) (T, error) {
	callCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	return op(callCtx)
}

// notFoundAs translates the repository miss into a domain error.
func notFoundAs(err error, target error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return target
	}
	return err
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}
