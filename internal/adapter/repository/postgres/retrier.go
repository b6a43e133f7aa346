package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// PostgreSQL error codes worth another attempt.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrLockNotAvailable     = "55P03"
)

// RetryPolicy bounds how often and how long a posting is retried.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryPolicy returns the policy used by NewRetrier.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      3,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
		MaxElapsedTime:  10 * time.Second,
	}
}

// Retrier implements usecase.Retrier with exponential backoff.
type Retrier struct {
	policy RetryPolicy
	logger zerolog.Logger
}

// NewRetrier creates a retrier with DefaultRetryPolicy.
func NewRetrier(logger zerolog.Logger) *Retrier {
	return NewRetrierWithPolicy(DefaultRetryPolicy(), logger)
}

// NewRetrierWithPolicy creates a retrier. Zero fields in policy fall back to the defaults;
// a negative MaxRetries disables retries.
func NewRetrierWithPolicy(policy RetryPolicy, logger zerolog.Logger) *Retrier {
	def := DefaultRetryPolicy()
	if policy.MaxRetries == 0 {
		policy.MaxRetries = def.MaxRetries
	}
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = def.InitialInterval
	}
	if policy.MaxInterval <= 0 {
		policy.MaxInterval = def.MaxInterval
	}
	if policy.MaxElapsedTime <= 0 {
		policy.MaxElapsedTime = def.MaxElapsedTime
	}

	return &Retrier{
		policy: policy,
		logger: logger.With().Str("component", "pg_retrier").Logger(),
	}
}

// Retry runs operation until it succeeds, fails with a non-retryable error,
// or the policy is exhausted. Only deadlocks, serialization failures and lock
// timeouts are retried.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.policy.InitialInterval
	b.MaxInterval = r.policy.MaxInterval
	b.MaxElapsedTime = r.policy.MaxElapsedTime

	attempt := 0

	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		code, retryable := retryableCode(err)
		if !retryable {
			return backoff.Permanent(err)
		}

		attempt++
		if attempt > r.policy.MaxRetries {
			r.logger.Error().
				Err(err).
				Str("pg_code", code).
				Int("attempts", attempt).
				Msg("giving up on retryable database error")
			return backoff.Permanent(err)
		}

		r.logger.Warn().
			Err(err).
			Str("pg_code", code).
			Int("retry", attempt).
			Msg("retryable database error, retrying")

		return err
	}, backoff.WithContext(b, ctx))
}

// retryableCode returns the SQLSTATE of err and whether it is worth retrying.
func retryableCode(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}

	switch pgErr.Code {
	case pgErrDeadlock, pgErrSerializationFailure, pgErrLockNotAvailable:
		return pgErr.Code, true
	}
	return pgErr.Code, false
}
