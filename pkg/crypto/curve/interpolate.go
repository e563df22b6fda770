package curve

import (
	"fmt"

	"github.com/Caqil/mpc-ecdsa/internal/math"
)

// PointShare is one party's public contribution P_i to a shared point
type PointShare struct {
	Index int
	Point *Point
}

// Interpolate recovers f(0)·G from point shares P_i = f(i)·G by
// computing Σ λ_i·P_i. The Lagrange coefficients λ_i live in the
// curve-order field, never in any other modulus.
func Interpolate(c Curve, shares []*PointShare, threshold int) (*Point, error) {
	if c == nil {
		return nil, ErrUnsupportedCurve
	}
	if len(shares) == 0 || len(shares) < threshold {
		return nil, ErrInsufficientShares
	}

	field := c.ScalarField()
	if field.Modulus().Cmp(c.Order()) != 0 {
		return nil, ErrCurveMismatch
	}

	xs := make([]*math.Element, len(shares))
	for i, s := range shares {
		if s == nil || !c.IsOnCurve(s.Point) {
			return nil, ErrInvalidPoint
		}
		xs[i] = field.FromInt64(int64(s.Index))
	}

	lambdas, err := math.LagrangeCoefficients(xs)
	if err != nil {
		return nil, fmt.Errorf("lagrange coefficients: %w", err)
	}

	var result *Point
	for i, s := range shares {
		term, err := c.ScalarMult(s.Point, lambdas[i].Value())
		if err != nil {
			return nil, fmt.Errorf("scalar mult for share %d: %w", s.Index, err)
		}

		if result == nil {
			result = term
			continue
		}

		if result, err = c.Add(result, term); err != nil {
			return nil, fmt.Errorf("add share %d: %w", s.Index, err)
		}
	}

	return result, nil
}
