package signing

import "errors"

var (
	// ErrInvalidKeyShare is returned when the key share is invalid
	ErrInvalidKeyShare = errors.New("invalid key share")

	// ErrInvalidMessage is returned when the message digest is invalid
	ErrInvalidMessage = errors.New("invalid message hash")

	// ErrInvalidSignature is returned when signature verification fails
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInsufficientParties is returned when not enough parties participate
	ErrInsufficientParties = errors.New("insufficient parties for threshold")

	// ErrInvalidState is returned when a step is called out of order
	ErrInvalidState = errors.New("invalid protocol state")

	// ErrInvalidNonce is returned when the nonce point gives r = 0
	ErrInvalidNonce = errors.New("invalid nonce")

	// ErrInvalidPartyID is returned when a party ID is invalid
	ErrInvalidPartyID = errors.New("invalid party ID")

	// ErrDuplicateParty is returned when a party ID appears twice
	ErrDuplicateParty = errors.New("duplicate party ID")

	// ErrNilCurve is returned when curve is nil
	ErrNilCurve = errors.New("curve cannot be nil")

	// ErrNilEngine is returned when engine is nil
	ErrNilEngine = errors.New("engine cannot be nil")

	// ErrInvalidSessionID is returned when session ID is empty
	ErrInvalidSessionID = errors.New("invalid session ID")

	// ErrInvalidS is returned when the reconstructed S value is zero
	ErrInvalidS = errors.New("invalid S value")

	// ErrKeyMismatch is returned when a revealed key does not match the public key
	ErrKeyMismatch = errors.New("revealed key does not match public key")
)
