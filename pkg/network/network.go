// Package network provides the transport that moves shares between
// protocol parties
package network

import (
	"context"
	"time"
)

// Transport exchanges named values between parties. Every (party, name)
// slot is written at most once; reads are single-resolution waits on
// exactly one slot.
type Transport interface {
	// Register announces a party and returns every party joined so far
	Register(ctx context.Context, partyID int) ([]int, error)

	// Parties returns the parties currently joined
	Parties(ctx context.Context) ([]int, error)

	// Send posts value under the slot (to, name)
	Send(ctx context.Context, to int, name, value string) error

	// Receive returns the value of slot (partyID, name), waiting until it
	// is posted or ctx is done
	Receive(ctx context.Context, partyID int, name string) (string, error)
}

// RetryConfig configures bounded retries of transient transport failures
type RetryConfig struct {
	// MaxAttempts is the total number of attempts including the first
	MaxAttempts int `json:"max_attempts"`

	// InitialBackoff is the wait before the second attempt
	InitialBackoff time.Duration `json:"initial_backoff"`

	// MaxBackoff caps the exponential backoff
	MaxBackoff time.Duration `json:"max_backoff"`

	// Multiplier grows the backoff after every failed attempt
	Multiplier float64 `json:"multiplier"`
}

// DefaultRetryConfig returns the default retry policy
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     2 * time.Second,
		Multiplier:     2,
	}
}

// Validate validates the retry configuration
func (c *RetryConfig) Validate() error {
	if c.MaxAttempts < 1 {
		return ErrInvalidConfig
	}

	if c.InitialBackoff < 0 || c.MaxBackoff < c.InitialBackoff {
		return ErrInvalidConfig
	}

	if c.Multiplier < 1 {
		return ErrInvalidConfig
	}

	return nil
}
