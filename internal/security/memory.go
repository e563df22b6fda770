// Package security provides parameter validation and helpers for
// protecting sensitive data
package security

import (
	"crypto/subtle"
	"math/big"
	"runtime"
)

// SecureZero securely zeros out a byte slice to prevent secrets from remaining in memory
func SecureZero(data []byte) {
	if len(data) == 0 {
		return
	}

	zeros := make([]byte, len(data))
	subtle.ConstantTimeCopy(1, data, zeros)

	runtime.KeepAlive(data)
}

// SecureZeroBigInt sets b to zero. Go's big.Int does not expose its
// backing words, so the old limbs are left to the garbage collector.
func SecureZeroBigInt(b *big.Int) {
	if b == nil {
		return
	}

	b.SetInt64(0)

	runtime.KeepAlive(b)
}

// ConstantTimeCompare compares two byte slices in constant time
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
