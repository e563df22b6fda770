package hash

import "errors"

var (
	// ErrInvalidLength is returned when an empty digest is provided
	ErrInvalidLength = errors.New("digest cannot be empty")

	// ErrUnsupportedHash is returned for unknown hash function names
	ErrUnsupportedHash = errors.New("unsupported hash function")
)
