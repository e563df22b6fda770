package math

import "errors"

var (
	// ErrInvalidModulus is returned when modulus is invalid
	ErrInvalidModulus = errors.New("modulus must be positive")

	// ErrModulusMismatch is returned when elements belong to different fields
	ErrModulusMismatch = errors.New("field elements must have the same modulus")

	// ErrFieldInverseOfZero is returned when the inverse of zero is requested
	ErrFieldInverseOfZero = errors.New("zero has no multiplicative inverse")

	// ErrNotInvertible is returned when an element shares a factor with a composite modulus
	ErrNotInvertible = errors.New("element is not invertible modulo the field modulus")

	// ErrNilElement is returned when a nil field element is provided
	ErrNilElement = errors.New("field element cannot be nil")

	// ErrInvalidDegree is returned when degree is negative
	ErrInvalidDegree = errors.New("degree must be non-negative")

	// ErrEmptyPoints is returned when points slice is empty
	ErrEmptyPoints = errors.New("points cannot be empty")

	// ErrDuplicatePoints is returned when interpolation points are not unique
	ErrDuplicatePoints = errors.New("interpolation points must be unique")

	// ErrNilSecret is returned when a nil secret is provided
	ErrNilSecret = errors.New("secret cannot be nil")

	// ErrInsufficientShares is returned when not enough shares for reconstruction
	ErrInsufficientShares = errors.New("insufficient shares for reconstruction")

	// ErrNilPoint is returned when a nil point is provided
	ErrNilPoint = errors.New("point cannot be nil")
)
