package security

import (
	"errors"
	"math/big"
	"testing"
)

func TestValidateDegreeReduction(t *testing.T) {
	tests := []struct {
		threshold, parties int
		want               error
	}{
		{2, 3, nil},
		{3, 5, nil},
		{1, 1, nil},
		{3, 3, ErrDegreeReduction},
		{4, 6, ErrDegreeReduction},
		{0, 3, ErrInvalidThreshold},
		{4, 3, ErrInvalidThreshold},
		{1, 0, ErrInvalidPartyCount},
	}

	for _, tt := range tests {
		err := ValidateDegreeReduction(tt.threshold, tt.parties)
		if !errors.Is(err, tt.want) {
			t.Errorf("ValidateDegreeReduction(%d, %d) = %v, want %v", tt.threshold, tt.parties, err, tt.want)
		}
	}
}

func TestValidatePartyID(t *testing.T) {
	if err := ValidatePartyID(3, 3); err != nil {
		t.Errorf("Expected party 3 of 3 to be valid: %v", err)
	}
	if err := ValidatePartyID(0, 3); !errors.Is(err, ErrInvalidPartyID) {
		t.Errorf("Expected ErrInvalidPartyID, got %v", err)
	}
	if err := ValidatePartyID(4, 3); !errors.Is(err, ErrInvalidPartyID) {
		t.Errorf("Expected ErrInvalidPartyID, got %v", err)
	}
}

func TestValidateScalarInRange(t *testing.T) {
	max := big.NewInt(13)
	for _, v := range []*big.Int{nil, big.NewInt(0), big.NewInt(13), big.NewInt(-1)} {
		if err := ValidateScalarInRange(v, max); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("Expected ErrInvalidRange for %v, got %v", v, err)
		}
	}
	if err := ValidateScalarInRange(big.NewInt(12), max); err != nil {
		t.Errorf("Expected 12 to be in range: %v", err)
	}
}

func TestSecureZero(t *testing.T) {
	data := []byte{1, 2, 3}
	SecureZero(data)
	for i, b := range data {
		if b != 0 {
			t.Errorf("byte %d not zeroed", i)
		}
	}

	b := big.NewInt(99)
	SecureZeroBigInt(b)
	if b.Sign() != 0 {
		t.Error("big.Int not zeroed")
	}

	if !ConstantTimeCompare([]byte("ab"), []byte("ab")) || ConstantTimeCompare([]byte("ab"), []byte("ac")) {
		t.Error("ConstantTimeCompare mismatch")
	}
}
