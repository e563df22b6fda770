package network

import "errors"

var (
	// ErrInvalidPartyID is returned when party ID is invalid
	ErrInvalidPartyID = errors.New("invalid party ID")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidName is returned when a slot name is empty
	ErrInvalidName = errors.New("slot name cannot be empty")

	// ErrDuplicateShareWrite is returned when a slot is written more than once
	ErrDuplicateShareWrite = errors.New("slot already written")

	// ErrTimeout is returned when a value does not arrive before the deadline
	ErrTimeout = errors.New("share not received before deadline")

	// ErrTransportClosed is returned when transport is closed
	ErrTransportClosed = errors.New("transport closed")

	// ErrRetriesExhausted is returned when a transient failure persists past the retry budget
	ErrRetriesExhausted = errors.New("transport retries exhausted")
)
