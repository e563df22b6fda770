package curve

import (
	"crypto/elliptic"
	"math/big"

	"github.com/Caqil/mpc-ecdsa/internal/math"
)

// p256Curve implements the Curve interface for NIST P-256
type p256Curve struct {
	params *CurveParams
	curve  elliptic.Curve
	field  *math.Field
}

// newP256 creates a new P-256 curve instance
func newP256() (Curve, error) {
	stdCurve := elliptic.P256()
	params := newParams("P-256", stdCurve)

	field, err := math.NewField("p256-n", params.N)
	if err != nil {
		return nil, err
	}

	return &p256Curve{params: params, curve: stdCurve, field: field}, nil
}

func (c *p256Curve) Params() *CurveParams {
	return c.params
}

func (c *p256Curve) ScalarBaseMult(k *big.Int) (*Point, error) {
	k, err := normalizeScalar(k, c.params.N)
	if err != nil {
		return nil, err
	}

	x, y := c.curve.ScalarBaseMult(paddedBytes(k, 32))
	return c.affine(x, y)
}

func (c *p256Curve) ScalarMult(p *Point, k *big.Int) (*Point, error) {
	if !c.IsOnCurve(p) {
		return nil, ErrInvalidPoint
	}

	k, err := normalizeScalar(k, c.params.N)
	if err != nil {
		return nil, err
	}

	x, y := c.curve.ScalarMult(p.X, p.Y, paddedBytes(k, 32))
	return c.affine(x, y)
}

func (c *p256Curve) Add(p1, p2 *Point) (*Point, error) {
	if !c.IsOnCurve(p1) || !c.IsOnCurve(p2) {
		return nil, ErrInvalidPoint
	}

	x, y := c.curve.Add(p1.X, p1.Y, p2.X, p2.Y)
	return c.affine(x, y)
}

func (c *p256Curve) Negate(p *Point) (*Point, error) {
	if !c.IsOnCurve(p) {
		return nil, ErrInvalidPoint
	}

	negY := new(big.Int).Sub(c.params.P, p.Y)
	negY.Mod(negY, c.params.P)

	return &Point{X: new(big.Int).Set(p.X), Y: negY, curve: c}, nil
}

func (c *p256Curve) IsOnCurve(p *Point) bool {
	if p == nil || p.X == nil || p.Y == nil {
		return false
	}
	return c.curve.IsOnCurve(p.X, p.Y)
}

func (c *p256Curve) Marshal(p *Point) []byte {
	if !c.IsOnCurve(p) {
		return nil
	}
	return elliptic.MarshalCompressed(c.curve, p.X, p.Y)
}

func (c *p256Curve) MarshalUncompressed(p *Point) []byte {
	if !c.IsOnCurve(p) {
		return nil
	}
	//nolint:staticcheck // SEC1 uncompressed encoding of a public point
	return elliptic.Marshal(c.curve, p.X, p.Y)
}

func (c *p256Curve) Unmarshal(data []byte) (*Point, error) {
	var x, y *big.Int

	switch len(data) {
	case 33:
		x, y = elliptic.UnmarshalCompressed(c.curve, data)
	case 65:
		//nolint:staticcheck // SEC1 uncompressed encoding of a public point
		x, y = elliptic.Unmarshal(c.curve, data)
	default:
		return nil, ErrInvalidEncoding
	}

	if x == nil {
		return nil, ErrInvalidEncoding
	}

	return &Point{X: x, Y: y, curve: c}, nil
}

func (c *p256Curve) Generator() *Point {
	return &Point{
		X:     new(big.Int).Set(c.params.Gx),
		Y:     new(big.Int).Set(c.params.Gy),
		curve: c,
	}
}

func (c *p256Curve) Order() *big.Int {
	return new(big.Int).Set(c.params.N)
}

func (c *p256Curve) ScalarField() *math.Field {
	return c.field
}

func (c *p256Curve) Name() string {
	return c.params.Name
}

// affine wraps a crypto/elliptic result; infinity is reported as (0, 0)
func (c *p256Curve) affine(x, y *big.Int) (*Point, error) {
	if x.Sign() == 0 && y.Sign() == 0 {
		return nil, ErrPointAtInfinity
	}
	return &Point{X: x, Y: y, curve: c}, nil
}
