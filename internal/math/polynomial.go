package math

import "github.com/Caqil/mpc-ecdsa/internal/security"

// Polynomial represents a polynomial over a prime field
// f(x) = coefficients[0] + coefficients[1]*x + coefficients[2]*x^2 + ...
type Polynomial struct {
	// Coefficients in ascending order (index 0 is constant term)
	Coefficients []*Element

	field *Field
}

// NewPolynomial creates a polynomial from the given coefficients
func NewPolynomial(coefficients []*Element) (*Polynomial, error) {
	if len(coefficients) == 0 {
		return nil, ErrEmptyPoints
	}

	f := coefficients[0].field
	for _, c := range coefficients {
		if c == nil {
			return nil, ErrNilElement
		}
		if !c.field.Equal(f) {
			return nil, ErrModulusMismatch
		}
	}

	return &Polynomial{Coefficients: coefficients, field: f}, nil
}

// NewRandomPolynomial generates a random polynomial of given degree
// whose constant term is fixed to constantTerm
func NewRandomPolynomial(degree int, constantTerm *Element) (*Polynomial, error) {
	if degree < 0 {
		return nil, ErrInvalidDegree
	}
	if constantTerm == nil {
		return nil, ErrNilSecret
	}

	f := constantTerm.field
	coefficients := make([]*Element, degree+1)
	coefficients[0] = f.NewElement(constantTerm.value)

	for i := 1; i <= degree; i++ {
		coef, err := f.Rand()
		if err != nil {
			return nil, err
		}
		coefficients[i] = coef
	}

	return &Polynomial{Coefficients: coefficients, field: f}, nil
}

// Degree returns the number of coefficients minus one
func (p *Polynomial) Degree() int {
	return len(p.Coefficients) - 1
}

// Evaluate evaluates the polynomial at point x using Horner's method
func (p *Polynomial) Evaluate(x *Element) (*Element, error) {
	if x == nil {
		return nil, ErrNilPoint
	}
	if !x.field.Equal(p.field) {
		return nil, ErrModulusMismatch
	}

	n := len(p.Coefficients)
	result := p.field.NewElement(p.Coefficients[n-1].value)

	for i := n - 2; i >= 0; i-- {
		var err error
		if result, err = result.Mul(x); err != nil {
			return nil, err
		}
		if result, err = result.Add(p.Coefficients[i]); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Zeroize clears all coefficients in place
func (p *Polynomial) Zeroize() {
	for _, c := range p.Coefficients {
		security.SecureZeroBigInt(c.value)
	}
}
