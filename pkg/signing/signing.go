// Package signing implements threshold ECDSA signing on top of the
// shared-arithmetic engine.
//
// Every party holds a fragment x_i of the private key and a jointly random
// nonce fragment k_i. The nonce point R = k·G is interpolated from the
// published R_i = k_i·G and r = R.x mod n. Each party then computes
//
//	β_i = e + r·x_i
//	s_i = (k^-1)_i · β_i   (engine Mul with degree reduction)
//
// so the s_i are a degree-(t-1) sharing of s = k^-1(e + r·x). A
// coordinator reconstructs s from any t fragments and only releases the
// signature after it verifies against Q.
package signing

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Caqil/mpc-ecdsa/pkg/crypto/curve"
	"github.com/Caqil/mpc-ecdsa/pkg/crypto/hash"
	"github.com/Caqil/mpc-ecdsa/pkg/keygen"
	"github.com/Caqil/mpc-ecdsa/pkg/logger"
	"github.com/Caqil/mpc-ecdsa/pkg/mpc"
)

// Option configures a Signer or Coordinator
type Option func(*options)

type options struct {
	hashFunc hash.HashFunction
	log      *logger.Logger
}

// WithHash selects the message hash used by Sign
func WithHash(fn hash.HashFunction) Option {
	return func(o *options) {
		o.hashFunc = fn
	}
}

// WithLogger sets the logger
func WithLogger(log *logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func buildOptions(opts []Option) *options {
	o := &options{hashFunc: hash.SHA256, log: logger.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Signer is the signing role of one computing party
type Signer struct {
	engine   *mpc.Engine
	curve    curve.Curve
	session  string
	hashFunc hash.HashFunction
	log      *logger.Logger

	state  State
	key    *keygen.KeyShare
	nonce  *mpc.Share
	rPoint *curve.Point
	r      *big.Int
	share  *mpc.Share
}

// NewSigner creates an idle signer for one session
func NewSigner(engine *mpc.Engine, c curve.Curve, session string, opts ...Option) (*Signer, error) {
	if err := checkRole(engine, c, session); err != nil {
		return nil, err
	}
	if engine.ID() == mpc.DealerID {
		return nil, fmt.Errorf("%w: dealer cannot sign", ErrInvalidPartyID)
	}

	o := buildOptions(opts)
	return &Signer{
		engine:   engine,
		curve:    c,
		session:  session,
		hashFunc: o.hashFunc,
		log:      o.log.Party("signer", engine.ID()).With().Str("session", session).Logger(),
	}, nil
}

// State returns the current protocol state
func (s *Signer) State() State {
	return s.state
}

// KeyShare returns the key share, or nil before key generation
func (s *Signer) KeyShare() *keygen.KeyShare {
	return s.key
}

// Nonce returns R and r once the nonce is generated
func (s *Signer) Nonce() (*curve.Point, *big.Int) {
	return s.rPoint, s.r
}

// GenerateKey runs distributed key generation
func (s *Signer) GenerateKey(ctx context.Context) (*keygen.KeyShare, error) {
	if err := s.expect(StateIdle); err != nil {
		return nil, err
	}

	dkg, err := keygen.NewDKG(s.engine, s.curve, s.session, s.log)
	if err != nil {
		return nil, err
	}
	key, err := dkg.Run(ctx)
	if err != nil {
		return nil, err
	}

	s.key = key
	s.state = StateKeyGenerated
	return key, nil
}

// LoadKey installs a key share produced by an earlier key generation
func (s *Signer) LoadKey(key *keygen.KeyShare) error {
	if err := s.expect(StateIdle); err != nil {
		return err
	}
	if key == nil || key.PartyID != s.engine.ID() {
		return ErrInvalidKeyShare
	}
	if key.Curve == nil || key.Curve.Name() != s.curve.Name() {
		return fmt.Errorf("%w: curve mismatch", ErrInvalidKeyShare)
	}
	if err := key.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidKeyShare, err)
	}

	s.key = key
	s.state = StateKeyGenerated
	return nil
}

// GenerateNonce draws the jointly random nonce fragment k_i, publishes
// R_i = k_i·G to every party and the dealer, and fixes R and r
func (s *Signer) GenerateNonce(ctx context.Context) error {
	if err := s.expect(StateKeyGenerated); err != nil {
		return err
	}

	nonce := mpc.NewShare(keygen.VariableName(s.session, "nonce"), s.engine.ID())
	if err := s.engine.RandShared(ctx, nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	rPoint, r, err := publishAndInterpolateNonce(ctx, s.engine, s.curve, s.session, nonce.Value().Value())
	if err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	s.nonce, s.rPoint, s.r = nonce, rPoint, r
	s.state = StateNonceGenerated
	s.log.Debug().Msg("nonce generated")
	return nil
}

// ComputeShare computes s_i = (k^-1)_i · (e + r·x_i) for the digest
func (s *Signer) ComputeShare(ctx context.Context, digest []byte) error {
	if err := s.expect(StateNonceGenerated); err != nil {
		return err
	}
	if len(digest) == 0 {
		return ErrInvalidMessage
	}

	field := s.engine.Field()
	id := s.engine.ID()

	e, err := hash.DigestToScalar(digest, s.curve.Order())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	kinv := mpc.NewShare(keygen.VariableName(s.session, "kinv"), id)
	if err := s.engine.Invert(ctx, kinv, s.nonce); err != nil {
		return fmt.Errorf("compute share: %w", err)
	}

	x := mpc.NewShareWithValue(keygen.VariableName(s.session, "priv"), id, field.NewElement(s.key.Share))
	rx := mpc.NewShare(keygen.VariableName(s.session, "rx"), id)
	if err := s.engine.MulConst(ctx, rx, x, field.NewElement(s.r)); err != nil {
		return fmt.Errorf("compute share: %w", err)
	}

	beta := mpc.NewShare(keygen.VariableName(s.session, "beta"), id)
	if err := s.engine.AddConst(ctx, beta, rx, field.NewElement(e)); err != nil {
		return fmt.Errorf("compute share: %w", err)
	}

	share := mpc.NewShare(signatureShareName(s.session), id)
	if err := s.engine.Mul(ctx, share, kinv, beta); err != nil {
		return fmt.Errorf("compute share: %w", err)
	}

	s.share = share
	s.state = StateShareComputed
	s.log.Debug().Msg("signature share computed")
	return nil
}

// SendShare delivers s_i to the coordinator
func (s *Signer) SendShare(ctx context.Context, coordinator int) error {
	if err := s.expect(StateShareComputed); err != nil {
		return err
	}

	if err := s.engine.SendShare(ctx, s.share, coordinator); err != nil {
		return fmt.Errorf("send signature share: %w", err)
	}

	s.state = StateShareSent
	s.log.Info().Int("coordinator", coordinator).Msg("signature share sent")
	return nil
}

// Sign hashes msg and runs every remaining step up to SendShare. A
// nonce generated ahead of time is used as is.
func (s *Signer) Sign(ctx context.Context, msg []byte, coordinator int) error {
	if s.state == StateKeyGenerated {
		if err := s.GenerateNonce(ctx); err != nil {
			return err
		}
	}

	if err := s.ComputeShare(ctx, hash.Hash(msg, s.hashFunc)); err != nil {
		return err
	}
	return s.SendShare(ctx, coordinator)
}

// DiscloseKeyShare sends x_i to the coordinator so that RevealKey can
// rebuild the private key. For tests and debugging only.
func (s *Signer) DiscloseKeyShare(ctx context.Context, coordinator int) error {
	if s.key == nil {
		return fmt.Errorf("%w: no key share", ErrInvalidState)
	}

	x := mpc.NewShareWithValue(keyDisclosureName(s.session), s.engine.ID(), s.engine.Field().NewElement(s.key.Share))
	return s.engine.SendShare(ctx, x, coordinator)
}

func (s *Signer) expect(want State) error {
	if s.state != want {
		return fmt.Errorf("%w: in %s, want %s", ErrInvalidState, s.state, want)
	}
	return nil
}

// publishAndInterpolateNonce publishes R_i = k_i·G and returns R and r
func publishAndInterpolateNonce(ctx context.Context, engine *mpc.Engine, c curve.Curve, session string, k *big.Int) (*curve.Point, *big.Int, error) {
	ri, err := c.ScalarBaseMult(k)
	if err != nil {
		return nil, nil, err
	}

	config := engine.Config()
	to := append(config.Parties(), mpc.DealerID)
	if err := engine.Publish(ctx, nonceName(session), curve.EncodeHex(ri), to); err != nil {
		return nil, nil, err
	}

	return receiveNonce(ctx, engine, c, session)
}

// receiveNonce collects every R_j and interpolates R
func receiveNonce(ctx context.Context, engine *mpc.Engine, c curve.Curve, session string) (*curve.Point, *big.Int, error) {
	config := engine.Config()
	shares, err := keygen.ReceivePublicShares(ctx, engine, c, nonceName(session), config.Parties())
	if err != nil {
		return nil, nil, err
	}

	rPoint, err := keygen.InterpolatePublicKey(c, shares, config.K)
	if err != nil {
		return nil, nil, err
	}

	r := new(big.Int).Mod(rPoint.X, c.Order())
	if r.Sign() == 0 {
		return nil, nil, ErrInvalidNonce
	}
	return rPoint, r, nil
}

func checkRole(engine *mpc.Engine, c curve.Curve, session string) error {
	if engine == nil {
		return ErrNilEngine
	}
	if c == nil {
		return ErrNilCurve
	}
	if session == "" {
		return ErrInvalidSessionID
	}
	if !engine.Field().Equal(c.ScalarField()) {
		return fmt.Errorf("%w: engine field %s", keygen.ErrFieldMismatch, engine.Field().Name())
	}
	return nil
}

func nonceName(session string) string {
	return keygen.VariableName(session, "R")
}

func signatureShareName(session string) string {
	return keygen.VariableName(session, "s")
}

func keyDisclosureName(session string) string {
	return keygen.VariableName(session, "priv/disclosed")
}
