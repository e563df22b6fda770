// Package hash provides the message hash H used by threshold ECDSA
package hash

import (
	"crypto/sha256"
	"hash"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// HashFunction represents a cryptographic hash function
type HashFunction int

const (
	// SHA256 uses SHA-256 hash function
	SHA256 HashFunction = iota
	// Keccak256 uses the legacy Keccak-256 hash used by Ethereum
	Keccak256
)

// String returns the configuration name of the hash function
func (h HashFunction) String() string {
	switch h {
	case SHA256:
		return "sha256"
	case Keccak256:
		return "keccak256"
	default:
		return "unknown"
	}
}

// ParseHashFunction maps a configuration name to a HashFunction
func ParseHashFunction(name string) (HashFunction, error) {
	switch strings.ToLower(name) {
	case "sha256", "sha-256", "":
		return SHA256, nil
	case "keccak256", "keccak-256":
		return Keccak256, nil
	default:
		return 0, ErrUnsupportedHash
	}
}

// Hash computes the digest of data using the specified hash function
func Hash(data []byte, hashFunc HashFunction) []byte {
	var h hash.Hash

	switch hashFunc {
	case Keccak256:
		h = sha3.NewLegacyKeccak256()
	default:
		h = sha256.New()
	}

	h.Write(data)
	return h.Sum(nil)
}

// DigestToScalar converts a message digest to the ECDSA scalar e: the
// leftmost bitlen(N) bits of the digest, reduced mod N
func DigestToScalar(digest []byte, order *big.Int) (*big.Int, error) {
	if len(digest) == 0 {
		return nil, ErrInvalidLength
	}

	orderBits := order.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(digest) > orderBytes {
		digest = digest[:orderBytes]
	}

	e := new(big.Int).SetBytes(digest)
	if excess := len(digest)*8 - orderBits; excess > 0 {
		e.Rsh(e, uint(excess))
	}

	return e.Mod(e, order), nil
}
