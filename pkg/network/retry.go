package network

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Caqil/mpc-ecdsa/pkg/logger"
)

// RetryTransport retries transient failures of an inner Transport with
// exponential backoff. Protocol errors are never retried.
type RetryTransport struct {
	inner  Transport
	config *RetryConfig
	log    *logger.Logger
}

// NewRetryTransport wraps inner with the given retry policy
func NewRetryTransport(inner Transport, config *RetryConfig, log *logger.Logger) (*RetryTransport, error) {
	if inner == nil {
		return nil, ErrInvalidConfig
	}
	if config == nil {
		config = DefaultRetryConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	return &RetryTransport{inner: inner, config: config, log: log}, nil
}

// IsPermanent reports whether err must not be retried
func IsPermanent(err error) bool {
	return errors.Is(err, ErrDuplicateShareWrite) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrTransportClosed) ||
		errors.Is(err, ErrInvalidPartyID) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Register retries inner.Register
func (r *RetryTransport) Register(ctx context.Context, partyID int) ([]int, error) {
	var parties []int
	err := r.do(ctx, "register", func() error {
		var err error
		parties, err = r.inner.Register(ctx, partyID)
		return err
	})
	return parties, err
}

// Parties retries inner.Parties
func (r *RetryTransport) Parties(ctx context.Context) ([]int, error) {
	var parties []int
	err := r.do(ctx, "parties", func() error {
		var err error
		parties, err = r.inner.Parties(ctx)
		return err
	})
	return parties, err
}

// Send retries inner.Send
func (r *RetryTransport) Send(ctx context.Context, to int, name, value string) error {
	return r.do(ctx, "send", func() error {
		return r.inner.Send(ctx, to, name, value)
	})
}

// Receive retries inner.Receive
func (r *RetryTransport) Receive(ctx context.Context, partyID int, name string) (string, error) {
	var value string
	err := r.do(ctx, "receive", func() error {
		var err error
		value, err = r.inner.Receive(ctx, partyID, name)
		return err
	})
	return value, err
}

func (r *RetryTransport) do(ctx context.Context, op string, fn func() error) error {
	backoff := r.config.InitialBackoff

	var lastErr error
	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil || IsPermanent(lastErr) {
			return lastErr
		}

		if attempt == r.config.MaxAttempts {
			break
		}

		r.log.Warn().Str("op", op).Int("attempt", attempt).Dur("backoff", backoff).Err(lastErr).Msg("transport failure, retrying")

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-timer.C:
		}

		backoff = time.Duration(float64(backoff) * r.config.Multiplier)
		if backoff > r.config.MaxBackoff {
			backoff = r.config.MaxBackoff
		}
	}

	return fmt.Errorf("%w: %s after %d attempts: %w", ErrRetriesExhausted, op, r.config.MaxAttempts, lastErr)
}
