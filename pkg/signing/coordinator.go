package signing

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Caqil/mpc-ecdsa/internal/security"
	"github.com/Caqil/mpc-ecdsa/pkg/crypto/curve"
	"github.com/Caqil/mpc-ecdsa/pkg/crypto/hash"
	"github.com/Caqil/mpc-ecdsa/pkg/logger"
	"github.com/Caqil/mpc-ecdsa/pkg/mpc"
)

// Coordinator collects signature shares and releases verified signatures
type Coordinator struct {
	engine   *mpc.Engine
	curve    curve.Curve
	session  string
	hashFunc hash.HashFunction
	log      *logger.Logger

	state     State
	rPoint    *curve.Point
	r         *big.Int
	signature *Signature
}

// NewCoordinator creates the coordinator of a session. The engine
// normally runs as mpc.DealerID.
func NewCoordinator(engine *mpc.Engine, c curve.Curve, session string, opts ...Option) (*Coordinator, error) {
	if err := checkRole(engine, c, session); err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	return &Coordinator{
		engine:   engine,
		curve:    c,
		session:  session,
		hashFunc: o.hashFunc,
		log:      o.log.Party("coordinator", engine.ID()).With().Str("session", session).Logger(),
	}, nil
}

// State returns the current protocol state
func (co *Coordinator) State() State {
	return co.state
}

// Signature returns the verified signature once ready
func (co *Coordinator) Signature() *Signature {
	return co.signature
}

// Nonce waits for the published R_i and fixes R and r
func (co *Coordinator) Nonce(ctx context.Context) (*curve.Point, *big.Int, error) {
	if co.rPoint != nil {
		return co.rPoint, co.r, nil
	}

	rPoint, r, err := receiveNonce(ctx, co.engine, co.curve, co.session)
	if err != nil {
		return nil, nil, fmt.Errorf("coordinator nonce: %w", err)
	}

	co.rPoint, co.r = rPoint, r
	return rPoint, r, nil
}

// Collect receives s_i from each signer, reconstructs s and returns the
// signature only if it verifies against publicKey over digest
func (co *Coordinator) Collect(ctx context.Context, signers []int, publicKey *curve.Point, digest []byte) (*Signature, error) {
	if co.state != StateIdle {
		return nil, fmt.Errorf("%w: in %s, want %s", ErrInvalidState, co.state, StateIdle)
	}
	if err := co.checkSigners(signers); err != nil {
		return nil, err
	}

	_, r, err := co.Nonce(ctx)
	if err != nil {
		return nil, err
	}

	secret := mpc.NewSecret(signatureShareName(co.session), co.engine.Field())
	for _, id := range signers {
		if err := co.engine.CollectShare(ctx, secret, id); err != nil {
			return nil, fmt.Errorf("collect signature: %w", err)
		}
	}

	s, err := secret.Reconstruct(co.engine.Config().K)
	if err != nil {
		return nil, fmt.Errorf("collect signature: %w", err)
	}
	co.state = StateCoordinatorReconstructed

	if s.IsZero() {
		return nil, ErrInvalidS
	}

	sig := &Signature{R: r, S: s.Value()}
	if !sig.Verify(co.curve, publicKey, digest) {
		co.log.Error().Ints("signers", signers).Msg("reconstructed signature does not verify")
		return nil, ErrInvalidSignature
	}

	co.signature = sig
	co.state = StateSignatureReady
	co.log.Info().Ints("signers", signers).Msg("signature ready")
	return sig, nil
}

// CollectMessage hashes msg with the configured hash and calls Collect
func (co *Coordinator) CollectMessage(ctx context.Context, signers []int, publicKey *curve.Point, msg []byte) (*Signature, error) {
	return co.Collect(ctx, signers, publicKey, hash.Hash(msg, co.hashFunc))
}

// RevealKey rebuilds the private key from fragments disclosed with
// Signer.DiscloseKeyShare and checks it against publicKey. For tests and
// debugging only.
func (co *Coordinator) RevealKey(ctx context.Context, signers []int, publicKey *curve.Point) (*big.Int, error) {
	if err := co.checkSigners(signers); err != nil {
		return nil, err
	}

	secret := mpc.NewSecret(keyDisclosureName(co.session), co.engine.Field())
	for _, id := range signers {
		if err := co.engine.CollectShare(ctx, secret, id); err != nil {
			return nil, fmt.Errorf("reveal key: %w", err)
		}
	}

	x, err := secret.Reconstruct(co.engine.Config().K)
	if err != nil {
		return nil, fmt.Errorf("reveal key: %w", err)
	}

	q, err := co.curve.ScalarBaseMult(x.Value())
	if err != nil {
		return nil, fmt.Errorf("reveal key: %w", err)
	}
	if !q.IsEqual(publicKey) {
		return nil, ErrKeyMismatch
	}

	co.log.Warn().Ints("signers", signers).Msg("private key revealed")
	return x.Value(), nil
}

func (co *Coordinator) checkSigners(signers []int) error {
	config := co.engine.Config()
	if len(signers) < config.K {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientParties, len(signers), config.K)
	}

	seen := make(map[int]bool, len(signers))
	for _, id := range signers {
		if err := security.ValidatePartyID(id, config.N); err != nil {
			return fmt.Errorf("%w: %d: %w", ErrInvalidPartyID, id, err)
		}
		if seen[id] {
			return fmt.Errorf("%w: %d", ErrDuplicateParty, id)
		}
		seen[id] = true
	}
	return nil
}
