// Package curve provides the elliptic curve collaborator for threshold
// ECDSA: point arithmetic, encodings and point interpolation.
package curve

import (
	"crypto/elliptic"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/Caqil/mpc-ecdsa/internal/math"
)

// CurveType represents the type of elliptic curve
type CurveType int

const (
	// Secp256k1 is the Bitcoin/Ethereum curve
	Secp256k1 CurveType = iota
	// P256 is the NIST P-256 curve
	P256
)

// String returns the curve name used in configuration files
func (t CurveType) String() string {
	switch t {
	case Secp256k1:
		return "secp256k1"
	case P256:
		return "P-256"
	default:
		return "unknown"
	}
}

// ParseCurveType maps a configuration name to a CurveType
func ParseCurveType(name string) (CurveType, error) {
	switch strings.ToLower(name) {
	case "secp256k1", "":
		return Secp256k1, nil
	case "p-256", "p256", "secp256r1":
		return P256, nil
	default:
		return 0, ErrUnsupportedCurve
	}
}

// Point represents an affine point on an elliptic curve
type Point struct {
	X     *big.Int
	Y     *big.Int
	curve Curve
}

// Curve defines the elliptic curve operations the protocols consume
type Curve interface {
	// Params returns the curve parameters
	Params() *CurveParams

	// ScalarBaseMult computes k*G where G is the generator
	ScalarBaseMult(k *big.Int) (*Point, error)

	// ScalarMult computes k*P for point P
	ScalarMult(p *Point, k *big.Int) (*Point, error)

	// Add computes P1 + P2
	Add(p1, p2 *Point) (*Point, error)

	// Negate computes -P
	Negate(p *Point) (*Point, error)

	// IsOnCurve verifies if point P is on the curve
	IsOnCurve(p *Point) bool

	// Marshal encodes a point in SEC1 compressed form
	Marshal(p *Point) []byte

	// MarshalUncompressed encodes a point in SEC1 uncompressed form
	MarshalUncompressed(p *Point) []byte

	// Unmarshal decodes a compressed or uncompressed point
	Unmarshal(data []byte) (*Point, error)

	// Generator returns the generator point
	Generator() *Point

	// Order returns the order of the base point
	Order() *big.Int

	// ScalarField returns the prime field of order N used for all scalars
	ScalarField() *math.Field

	// Name returns the curve name
	Name() string
}

// CurveParams contains the parameters of an elliptic curve
type CurveParams struct {
	// Name of the curve
	Name string

	// P is the prime field modulus
	P *big.Int

	// N is the order of the base point
	N *big.Int

	// B is the curve equation parameter
	B *big.Int

	// Gx, Gy are the coordinates of the generator
	Gx, Gy *big.Int

	// BitSize is the size of the curve in bits
	BitSize int

	// Curve is the underlying elliptic.Curve used by crypto/ecdsa
	Curve elliptic.Curve
}

// NewCurve creates a new curve instance based on the curve type
func NewCurve(curveType CurveType) (Curve, error) {
	switch curveType {
	case Secp256k1:
		return newSecp256k1()
	case P256:
		return newP256()
	default:
		return nil, ErrUnsupportedCurve
	}
}

// newParams copies the parameters of a standard curve
func newParams(name string, c elliptic.Curve) *CurveParams {
	params := c.Params()
	return &CurveParams{
		Name:    name,
		P:       params.P,
		N:       params.N,
		B:       params.B,
		Gx:      params.Gx,
		Gy:      params.Gy,
		BitSize: params.BitSize,
		Curve:   c,
	}
}

// normalizeScalar reduces k mod N and rejects zero
func normalizeScalar(k, n *big.Int) (*big.Int, error) {
	if k == nil || k.Sign() < 0 {
		return nil, ErrInvalidScalar
	}
	k = new(big.Int).Mod(k, n)
	if k.Sign() == 0 {
		return nil, ErrScalarZero
	}
	return k, nil
}

// IsEqual checks if two points are equal
func (p *Point) IsEqual(other *Point) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.X.Cmp(other.X) == 0 && p.Y.Cmp(other.Y) == 0
}

// Clone creates a deep copy of the point
func (p *Point) Clone() *Point {
	if p == nil {
		return nil
	}
	return &Point{
		X:     new(big.Int).Set(p.X),
		Y:     new(big.Int).Set(p.Y),
		curve: p.curve,
	}
}

// Curve returns the curve the point was produced by, if known
func (p *Point) Curve() Curve {
	return p.curve
}

// Bytes returns the compressed encoding of the point
func (p *Point) Bytes() []byte {
	if p.curve == nil {
		return nil
	}
	return p.curve.Marshal(p)
}

// EncodeHex returns the hex of the compressed SEC1 encoding
func EncodeHex(p *Point) string {
	return hex.EncodeToString(p.Bytes())
}

// DecodeHex parses a hex SEC1 point on c
func DecodeHex(c Curve, s string) (*Point, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, ErrInvalidEncoding
	}
	return c.Unmarshal(data)
}

// paddedBytes returns the bytes of a big.Int, padded to the specified length
func paddedBytes(value *big.Int, length int) []byte {
	bytes := value.Bytes()
	if len(bytes) >= length {
		return bytes
	}

	padded := make([]byte, length)
	copy(padded[length-len(bytes):], bytes)
	return padded
}
