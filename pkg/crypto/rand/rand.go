// Package rand provides cryptographically secure random number generation
package rand

import (
	"crypto/rand"
	"io"
	"math/big"
)

// Reader is the default cryptographically secure random number generator
var Reader io.Reader = rand.Reader

// GenerateRandomBytes generates n cryptographically secure random bytes
func GenerateRandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrInvalidLength
	}

	bytes := make([]byte, n)
	if _, err := io.ReadFull(Reader, bytes); err != nil {
		return nil, err
	}

	return bytes, nil
}

// GenerateUniform generates a uniformly distributed integer in [0, max)
func GenerateUniform(max *big.Int) (*big.Int, error) {
	if max == nil {
		return nil, ErrNilMax
	}

	if max.Sign() <= 0 {
		return nil, ErrInvalidMax
	}

	return rand.Int(Reader, max)
}

// GenerateRandomScalar generates a random scalar in range [1, max)
func GenerateRandomScalar(max *big.Int) (*big.Int, error) {
	value, err := GenerateUniform(max)
	if err != nil {
		return nil, err
	}

	// Rejecting zero keeps the distribution uniform over [1, max)
	for value.Sign() == 0 {
		if value, err = GenerateUniform(max); err != nil {
			return nil, err
		}
	}

	return value, nil
}
