package security

import (
	"errors"
	"math/big"
)

var (
	// ErrInvalidThreshold is returned when threshold parameters are invalid
	ErrInvalidThreshold = errors.New("invalid threshold: must satisfy 1 <= k <= n")

	// ErrDegreeReduction is returned when n is too small for share multiplication
	ErrDegreeReduction = errors.New("invalid threshold: multiplication requires n >= 2k-1")

	// ErrInvalidPartyID is returned when party ID is out of range
	ErrInvalidPartyID = errors.New("invalid party ID: must be in range [1, n]")

	// ErrInvalidPartyCount is returned when party count is too small
	ErrInvalidPartyCount = errors.New("invalid party count: must be >= 1")

	// ErrInvalidRange is returned when a value is outside expected range
	ErrInvalidRange = errors.New("value out of valid range")
)

// ValidateThreshold checks 1 <= threshold <= parties
func ValidateThreshold(threshold, parties int) error {
	if parties < 1 {
		return ErrInvalidPartyCount
	}

	if threshold < 1 || threshold > parties {
		return ErrInvalidThreshold
	}

	return nil
}

// ValidateDegreeReduction checks that the product of two degree-(k-1)
// sharings can still be interpolated from the n parties: n >= 2k-1
func ValidateDegreeReduction(threshold, parties int) error {
	if err := ValidateThreshold(threshold, parties); err != nil {
		return err
	}

	if parties < 2*threshold-1 {
		return ErrDegreeReduction
	}

	return nil
}

// ValidatePartyID checks if a 1-indexed party ID is valid for given party count
func ValidatePartyID(partyID, parties int) error {
	if parties < 1 {
		return ErrInvalidPartyCount
	}

	if partyID < 1 || partyID > parties {
		return ErrInvalidPartyID
	}

	return nil
}

// ValidateScalarInRange checks if scalar is in valid range [1, max)
func ValidateScalarInRange(value, max *big.Int) error {
	if value == nil || max == nil || value.Sign() <= 0 || value.Cmp(max) >= 0 {
		return ErrInvalidRange
	}

	return nil
}
