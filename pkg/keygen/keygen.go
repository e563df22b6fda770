// Package keygen implements distributed generation of a shared ECDSA key
package keygen

import (
	"context"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/Caqil/mpc-ecdsa/internal/security"
	"github.com/Caqil/mpc-ecdsa/pkg/crypto/curve"
	"github.com/Caqil/mpc-ecdsa/pkg/logger"
	"github.com/Caqil/mpc-ecdsa/pkg/mpc"
)

// KeyShare represents a party's share of the distributed key
type KeyShare struct {
	// PartyID is this party's identifier
	PartyID int

	// Threshold is the minimum number of parties needed to sign
	Threshold int

	// Parties is the total number of parties
	Parties int

	// Share is this party's fragment x_i of the private key
	Share *big.Int

	// PublicKey is the group's public key Q = x·G
	PublicKey *curve.Point

	// PublicShares holds Q_j = x_j·G for every party j
	PublicShares map[int]*curve.Point

	// Curve is the elliptic curve being used
	Curve curve.Curve
}

// Validate checks that the share matches the published Q_i and that the
// public shares interpolate to the public key
func (ks *KeyShare) Validate() error {
	if ks.Curve == nil {
		return ErrNilCurve
	}
	if ks.Share == nil || ks.PublicKey == nil {
		return fmt.Errorf("%w: missing share or public key", ErrInvalidKeyShare)
	}

	if err := security.ValidateThreshold(ks.Threshold, ks.Parties); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKeyShare, err)
	}
	if err := security.ValidateScalarInRange(ks.Share, ks.Curve.Order()); err != nil {
		return fmt.Errorf("%w: share: %w", ErrInvalidKeyShare, err)
	}

	own, ok := ks.PublicShares[ks.PartyID]
	if !ok {
		return fmt.Errorf("%w: party %d", ErrMissingPublicShare, ks.PartyID)
	}

	q, err := ks.Curve.ScalarBaseMult(ks.Share)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKeyShare, err)
	}
	if !q.IsEqual(own) {
		return fmt.Errorf("%w: share does not match public share", ErrInvalidKeyShare)
	}

	pub, err := InterpolatePublicKey(ks.Curve, ks.PublicShares, ks.Threshold)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKeyShare, err)
	}
	if !pub.IsEqual(ks.PublicKey) {
		return fmt.Errorf("%w: public shares do not match public key", ErrInvalidKeyShare)
	}

	return nil
}

// NewSessionID returns a fresh protocol session identifier
func NewSessionID() string {
	return uuid.NewString()
}

// VariableName namespaces a protocol variable under a session
func VariableName(session, name string) string {
	return session + "/" + name
}

// DKG runs key generation for one computing party
type DKG struct {
	engine  *mpc.Engine
	curve   curve.Curve
	session string
	log     *logger.Logger
}

// NewDKG creates the key generation role of the party behind engine
func NewDKG(engine *mpc.Engine, c curve.Curve, session string, log *logger.Logger) (*DKG, error) {
	if err := checkEngine(engine, c, session); err != nil {
		return nil, err
	}
	if engine.ID() == mpc.DealerID {
		return nil, fmt.Errorf("%w: dealer cannot hold a key share", ErrInvalidPartyID)
	}
	if log == nil {
		log = logger.Nop()
	}

	return &DKG{
		engine:  engine,
		curve:   c,
		session: session,
		log:     log.Party("keygen", engine.ID()).With().Str("session", session).Logger(),
	}, nil
}

// Run generates a jointly random private key fragment x_i, publishes
// Q_i = x_i·G to every party and the dealer, and interpolates Q
func (d *DKG) Run(ctx context.Context) (*KeyShare, error) {
	id := d.engine.ID()
	config := d.engine.Config()

	priv := mpc.NewShare(VariableName(d.session, "priv"), id)
	if err := d.engine.RandShared(ctx, priv); err != nil {
		return nil, fmt.Errorf("keygen: %w", err)
	}

	x := priv.Value().Value()
	pubShare, err := d.curve.ScalarBaseMult(x)
	if err != nil {
		return nil, fmt.Errorf("keygen: public share: %w", err)
	}

	to := append(config.Parties(), mpc.DealerID)
	if err := d.engine.Publish(ctx, VariableName(d.session, "pub"), curve.EncodeHex(pubShare), to); err != nil {
		return nil, fmt.Errorf("keygen: %w", err)
	}

	shares, err := ReceivePublicShares(ctx, d.engine, d.curve, VariableName(d.session, "pub"), config.Parties())
	if err != nil {
		return nil, fmt.Errorf("keygen: %w", err)
	}

	pub, err := InterpolatePublicKey(d.curve, shares, config.K)
	if err != nil {
		return nil, fmt.Errorf("keygen: public key: %w", err)
	}

	d.log.Info().Str("pubkey", curve.EncodeHex(pub)).Msg("key generated")

	return &KeyShare{
		PartyID:      id,
		Threshold:    config.K,
		Parties:      config.N,
		Share:        x,
		PublicKey:    pub,
		PublicShares: shares,
		Curve:        d.curve,
	}, nil
}

// Observe lets the dealer learn the public key from the published Q_i
// without holding any key material
func Observe(ctx context.Context, engine *mpc.Engine, c curve.Curve, session string) (*curve.Point, map[int]*curve.Point, error) {
	if err := checkEngine(engine, c, session); err != nil {
		return nil, nil, err
	}

	config := engine.Config()
	shares, err := ReceivePublicShares(ctx, engine, c, VariableName(session, "pub"), config.Parties())
	if err != nil {
		return nil, nil, fmt.Errorf("observe keygen: %w", err)
	}

	pub, err := InterpolatePublicKey(c, shares, config.K)
	if err != nil {
		return nil, nil, fmt.Errorf("observe keygen: %w", err)
	}
	return pub, shares, nil
}

// ReceivePublicShares waits for the point published under name by each party
func ReceivePublicShares(ctx context.Context, engine *mpc.Engine, c curve.Curve, name string, parties []int) (map[int]*curve.Point, error) {
	shares := make(map[int]*curve.Point, len(parties))
	for _, j := range parties {
		raw, err := engine.ReceivePublic(ctx, name, j)
		if err != nil {
			return nil, err
		}
		p, err := curve.DecodeHex(c, raw)
		if err != nil {
			return nil, fmt.Errorf("public share of party %d: %w", j, err)
		}
		shares[j] = p
	}
	return shares, nil
}

// InterpolatePublicKey computes Σ λ_j·Q_j in the curve-order field
func InterpolatePublicKey(c curve.Curve, shares map[int]*curve.Point, threshold int) (*curve.Point, error) {
	list := make([]*curve.PointShare, 0, len(shares))
	for j, p := range shares {
		list = append(list, &curve.PointShare{Index: j, Point: p})
	}
	return curve.Interpolate(c, list, threshold)
}

func checkEngine(engine *mpc.Engine, c curve.Curve, session string) error {
	if engine == nil {
		return ErrNilEngine
	}
	if c == nil {
		return ErrNilCurve
	}
	if session == "" {
		return ErrEmptySession
	}
	if !engine.Field().Equal(c.ScalarField()) {
		return fmt.Errorf("%w: %s", ErrFieldMismatch, engine.Field().Name())
	}
	return nil
}
