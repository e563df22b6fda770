package keygen

import "errors"

var (
	// ErrNilEngine is returned when no engine is supplied
	ErrNilEngine = errors.New("engine cannot be nil")

	// ErrNilCurve is returned when a nil curve is provided
	ErrNilCurve = errors.New("curve cannot be nil")

	// ErrFieldMismatch is returned when the engine does not compute modulo the curve order
	ErrFieldMismatch = errors.New("engine field is not the curve scalar field")

	// ErrInvalidPartyID is returned when a computing role is given the dealer engine
	ErrInvalidPartyID = errors.New("invalid party ID")

	// ErrEmptySession is returned when no session id is supplied
	ErrEmptySession = errors.New("session id cannot be empty")

	// ErrInvalidKeyShare is returned when a key share is inconsistent
	ErrInvalidKeyShare = errors.New("invalid key share")

	// ErrMissingPublicShare is returned when a party's public share is absent
	ErrMissingPublicShare = errors.New("missing public share")
)
