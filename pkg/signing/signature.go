package signing

import (
	"crypto/ecdsa"
	"encoding/asn1"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/Caqil/mpc-ecdsa/pkg/crypto/curve"
)

// Signature is a standard ECDSA signature (r, s)
type Signature struct {
	R *big.Int
	S *big.Int
}

type derSignature struct {
	R, S *big.Int
}

// DER returns the ASN.1 DER encoding SEQUENCE { r INTEGER, s INTEGER }.
// S is kept as computed; it is not normalized to low-S.
func (sig *Signature) DER() ([]byte, error) {
	return asn1.Marshal(derSignature{R: sig.R, S: sig.S})
}

// ParseDER decodes a DER signature
func ParseDER(data []byte) (*Signature, error) {
	var der derSignature
	rest, err := asn1.Unmarshal(data, &der)
	if err != nil || len(rest) != 0 {
		return nil, ErrInvalidSignature
	}
	return &Signature{R: der.R, S: der.S}, nil
}

// Bytes serializes the signature as 32-byte R || 32-byte S
func (sig *Signature) Bytes() []byte {
	result := make([]byte, 64)
	sig.R.FillBytes(result[:32])
	sig.S.FillBytes(result[32:])
	return result
}

// Verify checks the signature over digest against the public key on c
func (sig *Signature) Verify(c curve.Curve, publicKey *curve.Point, digest []byte) bool {
	if sig == nil || c == nil || publicKey == nil || len(digest) == 0 {
		return false
	}
	if sig.R == nil || sig.S == nil {
		return false
	}

	order := c.Order()
	if sig.R.Sign() <= 0 || sig.R.Cmp(order) >= 0 {
		return false
	}
	if sig.S.Sign() <= 0 || sig.S.Cmp(order) >= 0 {
		return false
	}
	if !c.IsOnCurve(publicKey) {
		return false
	}

	if c.Name() == curve.Secp256k1.String() {
		return verifySecp256k1(c, publicKey, digest, sig)
	}

	key := &ecdsa.PublicKey{Curve: c.Params().Curve, X: publicKey.X, Y: publicKey.Y}
	return ecdsa.Verify(key, digest, sig.R, sig.S)
}

// verifySecp256k1 verifies with btcec, which applies the same hash
// truncation as crypto/ecdsa for 32-byte digests
func verifySecp256k1(c curve.Curve, publicKey *curve.Point, digest []byte, sig *Signature) bool {
	pub, err := btcec.ParsePubKey(c.Marshal(publicKey))
	if err != nil {
		return false
	}

	var r, s btcec.ModNScalar
	if r.SetByteSlice(sig.R.Bytes()) || s.SetByteSlice(sig.S.Bytes()) {
		return false
	}

	return btcecdsa.NewSignature(&r, &s).Verify(digest, pub)
}
