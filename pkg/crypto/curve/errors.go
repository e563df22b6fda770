package curve

import "errors"

var (
	// ErrUnsupportedCurve is returned when an unsupported curve is requested
	ErrUnsupportedCurve = errors.New("unsupported curve type")

	// ErrInvalidPoint is returned when a point is not on the curve
	ErrInvalidPoint = errors.New("invalid point: not on curve")

	// ErrInvalidScalar is returned when a scalar is invalid
	ErrInvalidScalar = errors.New("invalid scalar value")

	// ErrPointAtInfinity is returned when an operation yields the point at infinity
	ErrPointAtInfinity = errors.New("point at infinity")

	// ErrInvalidEncoding is returned when unmarshaling fails
	ErrInvalidEncoding = errors.New("invalid point encoding")

	// ErrScalarZero is returned when a scalar is zero but shouldn't be
	ErrScalarZero = errors.New("scalar is zero")

	// ErrInsufficientShares is returned when too few point shares are interpolated
	ErrInsufficientShares = errors.New("insufficient point shares for interpolation")

	// ErrCurveMismatch is returned when a scalar field does not match the curve order
	ErrCurveMismatch = errors.New("scalar field does not match curve order")
)
