package curve

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/Caqil/mpc-ecdsa/internal/math"
)

// secp256k1Curve implements the Curve interface for secp256k1 using btcec
type secp256k1Curve struct {
	params *CurveParams
	field  *math.Field
}

// newSecp256k1 creates a new secp256k1 curve instance using btcec
func newSecp256k1() (Curve, error) {
	params := newParams("secp256k1", btcec.S256())

	field, err := math.NewField("secp256k1-n", params.N)
	if err != nil {
		return nil, err
	}

	return &secp256k1Curve{params: params, field: field}, nil
}

func (c *secp256k1Curve) Params() *CurveParams {
	return c.params
}

func (c *secp256k1Curve) ScalarBaseMult(k *big.Int) (*Point, error) {
	k, err := normalizeScalar(k, c.params.N)
	if err != nil {
		return nil, err
	}

	privKey, _ := btcec.PrivKeyFromBytes(paddedBytes(k, 32))
	pubKey := privKey.PubKey()

	return &Point{X: pubKey.X(), Y: pubKey.Y(), curve: c}, nil
}

func (c *secp256k1Curve) ScalarMult(p *Point, k *big.Int) (*Point, error) {
	if !c.IsOnCurve(p) {
		return nil, ErrInvalidPoint
	}

	k, err := normalizeScalar(k, c.params.N)
	if err != nil {
		return nil, err
	}

	x, y := btcec.S256().ScalarMult(p.X, p.Y, k.Bytes())
	return c.affine(x, y)
}

func (c *secp256k1Curve) Add(p1, p2 *Point) (*Point, error) {
	if !c.IsOnCurve(p1) || !c.IsOnCurve(p2) {
		return nil, ErrInvalidPoint
	}

	x, y := btcec.S256().Add(p1.X, p1.Y, p2.X, p2.Y)
	return c.affine(x, y)
}

func (c *secp256k1Curve) Negate(p *Point) (*Point, error) {
	if !c.IsOnCurve(p) {
		return nil, ErrInvalidPoint
	}

	// (x, y) -> (x, -y mod P)
	negY := new(big.Int).Sub(c.params.P, p.Y)
	negY.Mod(negY, c.params.P)

	return &Point{X: new(big.Int).Set(p.X), Y: negY, curve: c}, nil
}

func (c *secp256k1Curve) IsOnCurve(p *Point) bool {
	if p == nil || p.X == nil || p.Y == nil {
		return false
	}
	return btcec.S256().IsOnCurve(p.X, p.Y)
}

func (c *secp256k1Curve) Marshal(p *Point) []byte {
	pubKey := c.publicKey(p)
	if pubKey == nil {
		return nil
	}
	return pubKey.SerializeCompressed()
}

func (c *secp256k1Curve) MarshalUncompressed(p *Point) []byte {
	pubKey := c.publicKey(p)
	if pubKey == nil {
		return nil
	}
	return pubKey.SerializeUncompressed()
}

func (c *secp256k1Curve) Unmarshal(data []byte) (*Point, error) {
	if len(data) != 33 && len(data) != 65 {
		return nil, ErrInvalidEncoding
	}

	pubKey, err := btcec.ParsePubKey(data)
	if err != nil {
		return nil, ErrInvalidEncoding
	}

	return &Point{X: pubKey.X(), Y: pubKey.Y(), curve: c}, nil
}

func (c *secp256k1Curve) Generator() *Point {
	return &Point{
		X:     new(big.Int).Set(c.params.Gx),
		Y:     new(big.Int).Set(c.params.Gy),
		curve: c,
	}
}

func (c *secp256k1Curve) Order() *big.Int {
	return new(big.Int).Set(c.params.N)
}

func (c *secp256k1Curve) ScalarField() *math.Field {
	return c.field
}

func (c *secp256k1Curve) Name() string {
	return c.params.Name
}

// affine wraps a btcec result; btcec reports infinity as (0, 0)
func (c *secp256k1Curve) affine(x, y *big.Int) (*Point, error) {
	if x.Sign() == 0 && y.Sign() == 0 {
		return nil, ErrPointAtInfinity
	}
	return &Point{X: x, Y: y, curve: c}, nil
}

// publicKey converts p to a btcec public key for SEC1 serialization
func (c *secp256k1Curve) publicKey(p *Point) *btcec.PublicKey {
	if !c.IsOnCurve(p) {
		return nil
	}

	var xField, yField btcec.FieldVal
	xField.SetByteSlice(paddedBytes(p.X, 32))
	yField.SetByteSlice(paddedBytes(p.Y, 32))

	return btcec.NewPublicKey(&xField, &yField)
}
