package mpc

import (
	"fmt"
	"sort"

	"github.com/Caqil/mpc-ecdsa/internal/math"
)

// Share is one party's fragment of a named secret. Its value is
// written at most once.
type Share struct {
	Name  string
	Owner int

	value *math.Element
}

// NewShare creates a share whose value is not yet known
func NewShare(name string, owner int) *Share {
	return &Share{Name: name, Owner: owner}
}

// NewShareWithValue creates a share with a known value
func NewShareWithValue(name string, owner int, value *math.Element) *Share {
	return &Share{Name: name, Owner: owner, value: value}
}

// Known reports whether the value has been set
func (s *Share) Known() bool {
	return s.value != nil
}

// Value returns the fragment, or nil while unknown
func (s *Share) Value() *math.Element {
	return s.value
}

// Set assigns the fragment once
func (s *Share) Set(v *math.Element) error {
	if v == nil {
		return ErrNilValue
	}
	if s.value != nil {
		return fmt.Errorf("%w: %q of party %d", ErrShareAlreadySet, s.Name, s.Owner)
	}
	s.value = v
	return nil
}

// Secret is a named value together with the fragments held for it.
// The full value is only present for whoever dealt or reconstructed it.
type Secret struct {
	Name string

	field     *math.Field
	value     *math.Element
	fragments map[int]*math.Element
}

// NewSecret creates a secret whose value is to be reconstructed
func NewSecret(name string, field *math.Field) *Secret {
	return &Secret{
		Name:      name,
		field:     field,
		fragments: make(map[int]*math.Element),
	}
}

// NewSecretWithValue creates a secret the caller knows in full
func NewSecretWithValue(name string, value *math.Element) *Secret {
	s := NewSecret(name, value.Field())
	s.value = value
	return s
}

// Field returns the field of the secret
func (s *Secret) Field() *math.Field {
	return s.field
}

// Known reports whether the full value is known
func (s *Secret) Known() bool {
	return s.value != nil
}

// Value returns the full value, or nil while unknown
func (s *Secret) Value() *math.Element {
	return s.value
}

// Split shares the value with a degree-(k-1) polynomial and stores the
// n fragments. The returned map is keyed by owning party.
func (s *Secret) Split(n, k int) (map[int]*Share, error) {
	if s.value == nil {
		return nil, fmt.Errorf("%w: %q", ErrSecretUnknown, s.Name)
	}

	points, err := math.Split(s.value, n, k)
	if err != nil {
		return nil, fmt.Errorf("split %q: %w", s.Name, err)
	}

	shares := make(map[int]*Share, n)
	s.fragments = make(map[int]*math.Element, n)
	for i, p := range points {
		id := i + 1
		s.fragments[id] = p.Y
		shares[id] = NewShareWithValue(s.Name, id, p.Y)
	}

	return shares, nil
}

// SetShare records the fragment held by party id
func (s *Secret) SetShare(id int, v *math.Element) error {
	if v == nil {
		return ErrNilValue
	}
	if _, ok := s.fragments[id]; ok {
		return fmt.Errorf("%w: %q of party %d", ErrShareAlreadySet, s.Name, id)
	}
	if !v.Field().Equal(s.field) {
		return fmt.Errorf("%q: %w", s.Name, math.ErrModulusMismatch)
	}
	s.fragments[id] = v
	return nil
}

// Share returns party id's fragment as a Share; its value is nil if unknown
func (s *Secret) Share(id int) *Share {
	return &Share{Name: s.Name, Owner: id, value: s.fragments[id]}
}

// Parties returns the sorted IDs whose fragments are known
func (s *Secret) Parties() []int {
	ids := make([]int, 0, len(s.fragments))
	for id := range s.fragments {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Reconstruct interpolates the value from every known fragment,
// requiring at least k of them, and caches the result
func (s *Secret) Reconstruct(k int) (*math.Element, error) {
	if len(s.fragments) < k {
		return nil, fmt.Errorf("reconstruct %q: have %d of %d: %w", s.Name, len(s.fragments), k, math.ErrInsufficientShares)
	}

	points := make([]*math.Point, 0, len(s.fragments))
	for _, id := range s.Parties() {
		points = append(points, &math.Point{X: s.field.FromInt64(int64(id)), Y: s.fragments[id]})
	}

	value, err := math.Reconstruct(points, k)
	if err != nil {
		return nil, fmt.Errorf("reconstruct %q: %w", s.Name, err)
	}

	s.value = value
	return value, nil
}
