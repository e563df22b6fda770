// Package mpc implements threshold arithmetic on Shamir-shared values.
// Each party runs an Engine; linear operations are local, while
// multiplication, opening and joint randomness exchange shares through a
// network.Transport.
package mpc

import (
	"context"
	"fmt"
	"time"

	"github.com/Caqil/mpc-ecdsa/internal/math"
	"github.com/Caqil/mpc-ecdsa/internal/security"
	"github.com/Caqil/mpc-ecdsa/pkg/logger"
	"github.com/Caqil/mpc-ecdsa/pkg/network"
)

// Engine performs the protocol operations of one party
type Engine struct {
	id        int
	config    *Config
	transport network.Transport
	field     *math.Field
	log       *logger.Logger
	timeout   time.Duration
	inverter  Inverter
	registry  *Registry
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(log *logger.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithReceiveTimeout bounds every suspending read
func WithReceiveTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithEngineConfig applies the tunables of cfg
func WithEngineConfig(cfg *EngineConfig) Option {
	return func(e *Engine) {
		e.timeout = cfg.ReceiveTimeout
	}
}

// WithInverter replaces the inversion strategy
func WithInverter(inv Inverter) Option {
	return func(e *Engine) {
		e.inverter = inv
	}
}

// WithRegistry records and guards the names of produced variables
func WithRegistry(r *Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// NewEngine creates the engine of party id. The dealer uses DealerID.
func NewEngine(id int, config *Config, transport network.Transport, field *math.Field, opts ...Option) (*Engine, error) {
	if config == nil {
		return nil, ErrInvalidConfig
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, ErrNilTransport
	}
	if field == nil {
		return nil, ErrNilField
	}
	if id != DealerID {
		if err := security.ValidatePartyID(id, config.N); err != nil {
			return nil, fmt.Errorf("%w: %d: %w", ErrInvalidPartyID, id, err)
		}
	}

	e := &Engine{
		id:        id,
		config:    config,
		transport: transport,
		field:     field,
		log:       logger.Nop(),
		timeout:   DefaultEngineConfig().ReceiveTimeout,
		inverter:  MaskedInverter{},
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.timeout <= 0 {
		return nil, fmt.Errorf("%w: receive timeout must be positive", ErrInvalidConfig)
	}
	e.log = e.log.Party("mpc", id)

	return e, nil
}

// ID returns the party ID of the engine
func (e *Engine) ID() int {
	return e.id
}

// Config returns the sharing configuration
func (e *Engine) Config() *Config {
	return e.config
}

// Field returns the field the engine computes in
func (e *Engine) Field() *math.Field {
	return e.field
}

// Register joins the transport and returns the parties joined so far
func (e *Engine) Register(ctx context.Context) ([]int, error) {
	parties, err := e.transport.Register(ctx, e.id)
	if err != nil {
		return nil, fmt.Errorf("register party %d: %w", e.id, err)
	}
	e.log.Debug().Ints("parties", parties).Msg("registered")
	return parties, nil
}

// Split shares secret locally and returns the fragment of every party
func (e *Engine) Split(secret *Secret) (map[int]*Share, error) {
	return secret.Split(e.config.N, e.config.K)
}

// Deal splits secret and sends fragment j to party j
func (e *Engine) Deal(ctx context.Context, secret *Secret) error {
	shares, err := e.Split(secret)
	if err != nil {
		return err
	}

	for _, id := range e.config.Parties() {
		if err := e.SendShare(ctx, shares[id], id); err != nil {
			return fmt.Errorf("deal %q: %w", secret.Name, err)
		}
	}

	e.log.Debug().Str("var", secret.Name).Msg("secret dealt")
	return nil
}

// SendShare posts a known share to party to
func (e *Engine) SendShare(ctx context.Context, share *Share, to int) error {
	if !share.Known() {
		return fmt.Errorf("send %q: %w", share.Name, ErrShareUnknown)
	}

	if err := e.transport.Send(ctx, to, slotName(share.Name, share.Owner), EncodeValue(share.Value())); err != nil {
		return fmt.Errorf("send %q to party %d: %w", share.Name, to, err)
	}
	return nil
}

// ReceiveShare fills share from the transport. A known share is left as is.
func (e *Engine) ReceiveShare(ctx context.Context, share *Share) error {
	if share.Known() {
		return nil
	}

	v, err := e.receive(ctx, slotName(share.Name, share.Owner))
	if err != nil {
		return fmt.Errorf("receive %q of party %d: %w", share.Name, share.Owner, err)
	}
	return share.Set(v)
}

// CollectShare receives the fragment of secret held by party from
func (e *Engine) CollectShare(ctx context.Context, secret *Secret, from int) error {
	share := NewShare(secret.Name, from)
	if err := e.ReceiveShare(ctx, share); err != nil {
		return err
	}
	if err := secret.SetShare(from, share.Value()); err != nil {
		return fmt.Errorf("collect %q: %w", secret.Name, err)
	}

	e.log.Debug().Str("var", secret.Name).Int("from", from).Msg("share collected")
	return nil
}

// Publish sends a public value to every listed party
func (e *Engine) Publish(ctx context.Context, name, value string, to []int) error {
	for _, id := range to {
		if err := e.transport.Send(ctx, id, publicSlotName(name, e.id), value); err != nil {
			return fmt.Errorf("publish %q to party %d: %w", name, id, err)
		}
	}
	return nil
}

// ReceivePublic waits for the public value name published by from
func (e *Engine) ReceivePublic(ctx context.Context, name string, from int) (string, error) {
	rctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	v, err := e.transport.Receive(rctx, e.id, publicSlotName(name, from))
	if err != nil {
		return "", fmt.Errorf("receive public %q from party %d: %w", name, from, err)
	}
	return v, nil
}

// Add sets result to a + b
func (e *Engine) Add(ctx context.Context, result, a, b *Share) error {
	return e.binary(ctx, "add", result, a, b, (*math.Element).Add)
}

// Sub sets result to a - b
func (e *Engine) Sub(ctx context.Context, result, a, b *Share) error {
	return e.binary(ctx, "sub", result, a, b, (*math.Element).Sub)
}

// AddConst sets result to a + c for a public constant c
func (e *Engine) AddConst(ctx context.Context, result, a *Share, c *math.Element) error {
	return e.withConst(ctx, "add const", result, a, c, (*math.Element).Add)
}

// MulConst sets result to c * a for a public constant c
func (e *Engine) MulConst(ctx context.Context, result, a *Share, c *math.Element) error {
	return e.withConst(ctx, "mul const", result, a, c, (*math.Element).Mul)
}

// Mul sets result to a * b. The local product lies on a polynomial of
// degree 2(k-1), so every party re-shares it and each receiver
// interpolates the n sub-shares back to degree k-1.
func (e *Engine) Mul(ctx context.Context, result, a, b *Share) error {
	if err := e.prepare(ctx, result, a, b); err != nil {
		return fmt.Errorf("mul %q: %w", result.Name, err)
	}

	d, err := a.Value().Mul(b.Value())
	if err != nil {
		return fmt.Errorf("mul %q: %w", result.Name, err)
	}

	if err := e.reshare(ctx, reshareName(result.Name, e.id), d); err != nil {
		return fmt.Errorf("mul %q: %w", result.Name, err)
	}

	points := make([]*math.Point, 0, e.config.N)
	for _, i := range e.config.Parties() {
		sub := NewShare(reshareName(result.Name, i), e.id)
		if err := e.ReceiveShare(ctx, sub); err != nil {
			return fmt.Errorf("mul %q: %w", result.Name, err)
		}
		points = append(points, &math.Point{X: e.field.FromInt64(int64(i)), Y: sub.Value()})
	}

	v, err := math.Reconstruct(points, e.config.ProductThreshold())
	if err != nil {
		return fmt.Errorf("mul %q: degree reduction: %w", result.Name, err)
	}

	e.log.Debug().Str("var", result.Name).Msg("product computed")
	return result.Set(v)
}

// Rand sets share to an independent local sample. The fragments of
// different parties do not form a consistent sharing; use RandShared
// when the joint value matters.
func (e *Engine) Rand(share *Share) error {
	if err := e.claim(share); err != nil {
		return fmt.Errorf("rand %q: %w", share.Name, err)
	}

	v, err := e.field.Rand()
	if err != nil {
		return fmt.Errorf("rand %q: %w", share.Name, err)
	}
	return share.Set(v)
}

// RandShared sets share to a fragment of a jointly random value that no
// single party knows. Each party shares a local sample and the received
// fragments are summed, giving a degree-(k-1) sharing.
func (e *Engine) RandShared(ctx context.Context, share *Share) error {
	if err := e.claim(share); err != nil {
		return fmt.Errorf("rand shared %q: %w", share.Name, err)
	}

	r, err := e.field.Rand()
	if err != nil {
		return fmt.Errorf("rand shared %q: %w", share.Name, err)
	}

	if err := e.reshare(ctx, contributionName(share.Name, e.id), r); err != nil {
		return fmt.Errorf("rand shared %q: %w", share.Name, err)
	}

	sum := e.field.Zero()
	for _, i := range e.config.Parties() {
		part := NewShare(contributionName(share.Name, i), e.id)
		if err := e.ReceiveShare(ctx, part); err != nil {
			return fmt.Errorf("rand shared %q: %w", share.Name, err)
		}
		if sum, err = sum.Add(part.Value()); err != nil {
			return fmt.Errorf("rand shared %q: %w", share.Name, err)
		}
	}

	e.log.Debug().Str("var", share.Name).Msg("joint random share computed")
	return share.Set(sum)
}

// Open reveals the value of share to every party: fragments are
// broadcast and all n are interpolated
func (e *Engine) Open(ctx context.Context, share *Share) (*math.Element, error) {
	if share.Owner != e.id {
		return nil, fmt.Errorf("open %q: %w", share.Name, ErrNotOwner)
	}
	if !share.Known() {
		return nil, fmt.Errorf("open %q: %w", share.Name, ErrShareUnknown)
	}

	name := openName(share.Name)
	for _, id := range e.config.Parties() {
		if err := e.SendShare(ctx, NewShareWithValue(name, e.id, share.Value()), id); err != nil {
			return nil, fmt.Errorf("open %q: %w", share.Name, err)
		}
	}

	opened := NewSecret(share.Name, e.field)
	for _, i := range e.config.Parties() {
		part := NewShare(name, i)
		if err := e.ReceiveShare(ctx, part); err != nil {
			return nil, fmt.Errorf("open %q: %w", share.Name, err)
		}
		if err := opened.SetShare(i, part.Value()); err != nil {
			return nil, fmt.Errorf("open %q: %w", share.Name, err)
		}
	}

	v, err := opened.Reconstruct(e.config.K)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", share.Name, err)
	}

	e.log.Debug().Str("var", share.Name).Msg("value opened")
	return v, nil
}

// Invert sets result to a fragment of a^-1 using the configured Inverter
func (e *Engine) Invert(ctx context.Context, result, a *Share) error {
	if err := e.inverter.Invert(ctx, e, result, a); err != nil {
		return fmt.Errorf("invert %q: %w", a.Name, err)
	}
	return nil
}

func (e *Engine) binary(ctx context.Context, op string, result, a, b *Share, fn func(x, y *math.Element) (*math.Element, error)) error {
	if err := e.prepare(ctx, result, a, b); err != nil {
		return fmt.Errorf("%s %q: %w", op, result.Name, err)
	}

	v, err := fn(a.Value(), b.Value())
	if err != nil {
		return fmt.Errorf("%s %q: %w", op, result.Name, err)
	}
	return result.Set(v)
}

func (e *Engine) withConst(ctx context.Context, op string, result, a *Share, c *math.Element, fn func(x, y *math.Element) (*math.Element, error)) error {
	if c == nil {
		return fmt.Errorf("%s %q: %w", op, result.Name, ErrNilValue)
	}
	if err := e.prepare(ctx, result, a); err != nil {
		return fmt.Errorf("%s %q: %w", op, result.Name, err)
	}

	v, err := fn(a.Value(), c)
	if err != nil {
		return fmt.Errorf("%s %q: %w", op, result.Name, err)
	}
	return result.Set(v)
}

// prepare claims result and makes sure every operand is known locally
func (e *Engine) prepare(ctx context.Context, result *Share, operands ...*Share) error {
	if err := e.claim(result); err != nil {
		return err
	}
	for _, op := range operands {
		if op.Owner != e.id {
			return fmt.Errorf("operand %q: %w", op.Name, ErrNotOwner)
		}
		if err := e.ReceiveShare(ctx, op); err != nil {
			return err
		}
	}
	return nil
}

// claim checks that result belongs to this engine and records its name
func (e *Engine) claim(result *Share) error {
	if result.Owner != e.id {
		return ErrNotOwner
	}
	if result.Known() {
		return ErrShareAlreadySet
	}
	if e.registry != nil {
		return e.registry.Track(result.Name)
	}
	return nil
}

// reshare splits v and sends fragment j, under name, to party j
func (e *Engine) reshare(ctx context.Context, name string, v *math.Element) error {
	points, err := math.Split(v, e.config.N, e.config.K)
	if err != nil {
		return err
	}

	for i, p := range points {
		id := i + 1
		if err := e.SendShare(ctx, NewShareWithValue(name, id, p.Y), id); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) receive(ctx context.Context, slot string) (*math.Element, error) {
	rctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.transport.Receive(rctx, e.id, slot)
	if err != nil {
		return nil, err
	}
	return DecodeValue(e.field, raw)
}

func reshareName(result string, from int) string {
	return fmt.Sprintf("%s/reshare/%d", result, from)
}

func contributionName(result string, from int) string {
	return fmt.Sprintf("%s/rand/%d", result, from)
}

func openName(name string) string {
	return name + "/open"
}
