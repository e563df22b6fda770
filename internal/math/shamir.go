package math

import (
	"github.com/Caqil/mpc-ecdsa/internal/security"
)

// Point is one evaluation (x, f(x)) of a sharing polynomial.
// X is the party index lifted into the field.
type Point struct {
	X *Element
	Y *Element
}

// Split shares secret with a random polynomial of degree k-1 and
// returns the n points (i, f(i)) for i = 1..n
func Split(secret *Element, n, k int) ([]*Point, error) {
	if secret == nil {
		return nil, ErrNilSecret
	}
	if err := security.ValidateThreshold(k, n); err != nil {
		return nil, err
	}

	polynomial, err := NewRandomPolynomial(k-1, secret)
	if err != nil {
		return nil, err
	}
	defer polynomial.Zeroize()

	f := secret.field
	points := make([]*Point, n)
	for i := 1; i <= n; i++ {
		x := f.FromInt64(int64(i))
		y, err := polynomial.Evaluate(x)
		if err != nil {
			return nil, err
		}
		points[i-1] = &Point{X: x, Y: y}
	}

	return points, nil
}

// Reconstruct recovers f(0) from at least k points by Lagrange
// interpolation. Every supplied point is used, so any valid subset of
// size >= k yields the same value.
func Reconstruct(points []*Point, k int) (*Element, error) {
	if len(points) == 0 {
		return nil, ErrEmptyPoints
	}
	if len(points) < k {
		return nil, ErrInsufficientShares
	}

	xs := make([]*Element, len(points))
	for i, p := range points {
		if p == nil || p.X == nil || p.Y == nil {
			return nil, ErrNilPoint
		}
		xs[i] = p.X
	}

	coefficients, err := LagrangeCoefficients(xs)
	if err != nil {
		return nil, err
	}

	result := xs[0].field.Zero()
	for i, p := range points {
		term, err := p.Y.Mul(coefficients[i])
		if err != nil {
			return nil, err
		}
		if result, err = result.Add(term); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// LagrangeCoefficients returns L_i(0) = ∏_{j≠i} (-x_j)/(x_i - x_j) for
// every x_i, computed in the field the xs belong to
func LagrangeCoefficients(xs []*Element) ([]*Element, error) {
	if len(xs) == 0 {
		return nil, ErrEmptyPoints
	}
	for _, x := range xs {
		if x == nil {
			return nil, ErrNilPoint
		}
	}
	if hasDuplicates(xs) {
		return nil, ErrDuplicatePoints
	}

	f := xs[0].field
	coefficients := make([]*Element, len(xs))

	for i := range xs {
		num := f.One()
		den := f.One()

		for j := range xs {
			if i == j {
				continue
			}

			var err error
			if num, err = num.Mul(xs[j].Neg()); err != nil {
				return nil, err
			}

			diff, err := xs[i].Sub(xs[j])
			if err != nil {
				return nil, err
			}
			if den, err = den.Mul(diff); err != nil {
				return nil, err
			}
		}

		invDen, err := den.Inv()
		if err != nil {
			return nil, err
		}
		if coefficients[i], err = num.Mul(invDen); err != nil {
			return nil, err
		}
	}

	return coefficients, nil
}

// hasDuplicates checks if slice contains duplicate values
func hasDuplicates(values []*Element) bool {
	seen := make(map[string]bool)
	for _, v := range values {
		key := v.value.String()
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}
