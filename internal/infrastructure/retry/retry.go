// Package retry dials external dependencies with exponential backoff at startup.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// Policy bounds a retry loop.
type Policy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultPolicy returns the policy used for startup connections.
func DefaultPolicy(maxElapsed time.Duration) Policy {
	return Policy{
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		MaxElapsedTime:  maxElapsed,
	}
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Connect calls dial until it succeeds, the policy gives up or ctx is done.
// name identifies the dependency in logs.
func Connect[T any](ctx context.Context, logger zerolog.Logger, name string, p Policy, dial func(context.Context) (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.MaxElapsedTime = p.MaxElapsedTime

	attempt := 0
	operation := func() (T, error) {
		attempt++
		return dial(ctx)
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn().Err(err).
			Str("dependency", name).
			Int("attempt", attempt).
			Dur("retry_in", wait).
			Msg("connection failed, retrying")
	}

	v, err := backoff.RetryNotifyWithData(operation, backoff.WithContext(b, ctx), notify)
	if err != nil {
		logger.Error().Err(err).Str("dependency", name).Int("attempts", attempt).Msg("giving up on connection")
		return v, err
	}

	logger.Info().Str("dependency", name).Int("attempts", attempt).Msg("connected")
	return v, nil
}
