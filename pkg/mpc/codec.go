package mpc

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/Caqil/mpc-ecdsa/internal/math"
)

// EncodeValue renders a field element as 0x-prefixed lowercase hex
func EncodeValue(v *math.Element) string {
	return v.String()
}

// DecodeValue parses 0x-prefixed hex or decimal text into field f.
// Values outside [0, m) are rejected rather than silently reduced.
func DecodeValue(f *math.Field, s string) (*math.Element, error) {
	s = strings.TrimSpace(s)

	var (
		v  *big.Int
		ok bool
	)
	if hexDigits, found := strings.CutPrefix(s, "0x"); found {
		v, ok = new(big.Int).SetString(hexDigits, 16)
	} else {
		v, ok = new(big.Int).SetString(s, 10)
	}

	if !ok || v.Sign() < 0 || v.Cmp(f.Modulus()) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEncoding, s)
	}

	return f.NewElement(v), nil
}

// slotName is the transport slot name carrying share (name, owner)
func slotName(name string, owner int) string {
	return fmt.Sprintf("vars/p%d/%s", owner, name)
}

// publicSlotName is the transport slot name carrying a public value from origin
func publicSlotName(name string, origin int) string {
	return fmt.Sprintf("pub/p%d/%s", origin, name)
}
