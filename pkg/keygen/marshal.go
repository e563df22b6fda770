package keygen

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/Caqil/mpc-ecdsa/pkg/crypto/curve"
)

type keyShareJSON struct {
	PartyID      int            `json:"party_id"`
	Threshold    int            `json:"threshold"`
	Parties      int            `json:"parties"`
	Curve        string         `json:"curve"`
	Share        string         `json:"share"`
	PublicKey    string         `json:"public_key"`
	PublicShares map[int]string `json:"public_shares"`
}

// MarshalJSON encodes the key share with hex scalars and compressed points
func (ks *KeyShare) MarshalJSON() ([]byte, error) {
	if ks.Curve == nil || ks.Share == nil || ks.PublicKey == nil {
		return nil, ErrInvalidKeyShare
	}

	out := keyShareJSON{
		PartyID:      ks.PartyID,
		Threshold:    ks.Threshold,
		Parties:      ks.Parties,
		Curve:        ks.Curve.Name(),
		Share:        "0x" + ks.Share.Text(16),
		PublicKey:    curve.EncodeHex(ks.PublicKey),
		PublicShares: make(map[int]string, len(ks.PublicShares)),
	}
	for j, p := range ks.PublicShares {
		out.PublicShares[j] = curve.EncodeHex(p)
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes a key share written by MarshalJSON
func (ks *KeyShare) UnmarshalJSON(data []byte) error {
	var in keyShareJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	curveType, err := curve.ParseCurveType(in.Curve)
	if err != nil {
		return err
	}
	c, err := curve.NewCurve(curveType)
	if err != nil {
		return err
	}

	share, ok := new(big.Int).SetString(in.Share, 0)
	if !ok {
		return fmt.Errorf("%w: share encoding", ErrInvalidKeyShare)
	}

	pub, err := curve.DecodeHex(c, in.PublicKey)
	if err != nil {
		return fmt.Errorf("%w: public key: %w", ErrInvalidKeyShare, err)
	}

	shares := make(map[int]*curve.Point, len(in.PublicShares))
	for j, raw := range in.PublicShares {
		p, err := curve.DecodeHex(c, raw)
		if err != nil {
			return fmt.Errorf("%w: public share %d: %w", ErrInvalidKeyShare, j, err)
		}
		shares[j] = p
	}

	*ks = KeyShare{
		PartyID:      in.PartyID,
		Threshold:    in.Threshold,
		Parties:      in.Parties,
		Share:        share,
		PublicKey:    pub,
		PublicShares: shares,
		Curve:        c,
	}
	return nil
}
