package mpc

import "errors"

var (
	// ErrInvalidConfig is returned when (n, k) cannot support the protocols
	ErrInvalidConfig = errors.New("invalid MPC configuration")

	// ErrInvalidPartyID is returned when a party ID is outside 1..n and not the dealer
	ErrInvalidPartyID = errors.New("invalid party ID")

	// ErrNilTransport is returned when no transport is supplied
	ErrNilTransport = errors.New("transport cannot be nil")

	// ErrNilField is returned when no field is supplied
	ErrNilField = errors.New("field cannot be nil")

	// ErrShareAlreadySet is returned when a write-once share is set twice
	ErrShareAlreadySet = errors.New("share value already set")

	// ErrShareUnknown is returned when a share's value is required but not known
	ErrShareUnknown = errors.New("share value unknown")

	// ErrSecretUnknown is returned when splitting a secret whose value is not known
	ErrSecretUnknown = errors.New("secret value unknown")

	// ErrNotOwner is returned when an engine computes a share owned by another party
	ErrNotOwner = errors.New("share is owned by another party")

	// ErrNameInUse is returned when a variable name is reused within one engine
	ErrNameInUse = errors.New("variable name already in use")

	// ErrInvalidEncoding is returned when a wire value cannot be decoded
	ErrInvalidEncoding = errors.New("invalid value encoding")

	// ErrNilValue is returned when a nil element is assigned
	ErrNilValue = errors.New("value cannot be nil")
)
