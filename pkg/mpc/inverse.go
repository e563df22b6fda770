package mpc

import (
	"context"
	"fmt"

	"github.com/Caqil/mpc-ecdsa/internal/math"
)

// Inverter computes a fragment of the inverse of a shared value
type Inverter interface {
	Invert(ctx context.Context, e *Engine, result, a *Share) error
}

// LocalInverter inverts the party's own fragment. The results are not
// fragments of the inverse of the shared value, so a signature built on
// them does not verify. Use it only where a fragment-local inverse is wanted.
type LocalInverter struct{}

// Invert sets result to a_i^-1
func (LocalInverter) Invert(ctx context.Context, e *Engine, result, a *Share) error {
	if err := e.prepare(ctx, result, a); err != nil {
		return err
	}

	v, err := a.Value().Inv()
	if err != nil {
		return err
	}
	return result.Set(v)
}

// MaskedInverter computes a^-1 as b * (a*b)^-1 for a jointly random
// mask b. Only the masked product a*b is ever opened.
type MaskedInverter struct{}

// Invert sets result to a fragment of a^-1. It fails with
// math.ErrFieldInverseOfZero when the masked product opens to zero.
func (MaskedInverter) Invert(ctx context.Context, e *Engine, result, a *Share) error {
	if result.Owner != e.id {
		return ErrNotOwner
	}

	mask := NewShare(result.Name+"/mask", e.id)
	if err := e.RandShared(ctx, mask); err != nil {
		return err
	}

	masked := NewShare(result.Name+"/masked", e.id)
	if err := e.Mul(ctx, masked, a, mask); err != nil {
		return err
	}

	c, err := e.Open(ctx, masked)
	if err != nil {
		return err
	}
	if c.IsZero() {
		return fmt.Errorf("masked value opened to zero: %w", math.ErrFieldInverseOfZero)
	}

	cinv, err := c.Inv()
	if err != nil {
		return err
	}
	return e.MulConst(ctx, result, mask, cinv)
}
