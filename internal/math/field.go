// Package math provides prime-field arithmetic, polynomials and Shamir
// secret sharing for the MPC protocols.
package math

import (
	"fmt"
	"math/big"

	"github.com/Caqil/mpc-ecdsa/pkg/crypto/rand"
)

// demoPrime is P = 2^256 - 2^32 - 977, the base-field prime of secp256k1.
// It is only used for plain scalar arithmetic, never for ECDSA scalars.
var demoPrime, _ = new(big.Int).SetString("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", 16)

var demoField = &Field{name: "demo-p256k1", modulus: demoPrime}

// Field is a prime field Z/mZ. Every Element is bound to exactly one Field.
type Field struct {
	name    string
	modulus *big.Int
}

// NewField creates a field over the given prime modulus
func NewField(name string, modulus *big.Int) (*Field, error) {
	if modulus == nil || modulus.Sign() <= 0 {
		return nil, ErrInvalidModulus
	}
	return &Field{name: name, modulus: new(big.Int).Set(modulus)}, nil
}

// DemoField returns the field over the generic demo prime P
func DemoField() *Field {
	return demoField
}

// Name returns the field's label
func (f *Field) Name() string {
	return f.name
}

// Modulus returns a copy of the field modulus
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.modulus)
}

// Equal reports whether both fields share the same modulus
func (f *Field) Equal(other *Field) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f == other || f.modulus.Cmp(other.modulus) == 0
}

// NewElement normalizes v into [0, m). A nil v yields zero.
func (f *Field) NewElement(v *big.Int) *Element {
	value := new(big.Int)
	if v != nil {
		value.Mod(v, f.modulus)
	}
	return &Element{value: value, field: f}
}

// FromInt64 builds an element from a machine integer
func (f *Field) FromInt64(v int64) *Element {
	return f.NewElement(big.NewInt(v))
}

// Zero returns the additive identity
func (f *Field) Zero() *Element {
	return f.NewElement(nil)
}

// One returns the multiplicative identity
func (f *Field) One() *Element {
	return f.FromInt64(1)
}

// Rand returns a uniformly distributed element of [0, m)
func (f *Field) Rand() (*Element, error) {
	v, err := rand.GenerateUniform(f.modulus)
	if err != nil {
		return nil, err
	}
	return &Element{value: v, field: f}, nil
}

// Element is a value of a prime field, always held in [0, m)
type Element struct {
	value *big.Int
	field *Field
}

// Field returns the field the element belongs to
func (e *Element) Field() *Field {
	return e.field
}

// Value returns a copy of the underlying integer
func (e *Element) Value() *big.Int {
	return new(big.Int).Set(e.value)
}

// IsZero reports whether e ≡ 0
func (e *Element) IsZero() bool {
	return e.value.Sign() == 0
}

// Equal reports whether both elements are the same value in the same field
func (e *Element) Equal(other *Element) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.field.Equal(other.field) && e.value.Cmp(other.value) == 0
}

// Add returns e + o mod m
func (e *Element) Add(o *Element) (*Element, error) {
	if err := e.compatible(o); err != nil {
		return nil, err
	}
	return e.field.NewElement(new(big.Int).Add(e.value, o.value)), nil
}

// Sub returns e - o mod m
func (e *Element) Sub(o *Element) (*Element, error) {
	if err := e.compatible(o); err != nil {
		return nil, err
	}
	return e.field.NewElement(new(big.Int).Sub(e.value, o.value)), nil
}

// Mul returns e * o mod m
func (e *Element) Mul(o *Element) (*Element, error) {
	if err := e.compatible(o); err != nil {
		return nil, err
	}
	return e.field.NewElement(new(big.Int).Mul(e.value, o.value)), nil
}

// Neg returns -e mod m
func (e *Element) Neg() *Element {
	return e.field.NewElement(new(big.Int).Neg(e.value))
}

// Inv returns the unique y with e*y ≡ 1 (mod m), computed from the
// Bézout coefficients of the extended Euclidean algorithm on (m, e).
func (e *Element) Inv() (*Element, error) {
	if e.value.Sign() == 0 {
		return nil, ErrFieldInverseOfZero
	}

	y := new(big.Int)
	gcd := new(big.Int).GCD(nil, y, e.field.modulus, e.value)
	if gcd.Cmp(big.NewInt(1)) != 0 {
		return nil, ErrNotInvertible
	}

	return e.field.NewElement(y), nil
}

// String returns the 0x-prefixed hexadecimal form
func (e *Element) String() string {
	return "0x" + e.value.Text(16)
}

func (e *Element) compatible(o *Element) error {
	if e == nil || o == nil {
		return ErrNilElement
	}
	if !e.field.Equal(o.field) {
		return fmt.Errorf("%w: %s vs %s", ErrModulusMismatch, e.field.name, o.field.name)
	}
	return nil
}
