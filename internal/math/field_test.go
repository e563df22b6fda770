package math

import (
	"errors"
	"math/big"
	"testing"
)

// TestFieldNormalization tests that every result lands in [0, m)
func TestFieldNormalization(t *testing.T) {
	f, err := NewField("f17", big.NewInt(17))
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}

	tests := []struct {
		in   int64
		want int64
	}{
		{0, 0},
		{16, 16},
		{17, 0},
		{35, 1},
		{-1, 16},
		{-18, 16},
	}

	for _, tt := range tests {
		got := f.FromInt64(tt.in).Value().Int64()
		if got != tt.want {
			t.Errorf("FromInt64(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}

	sum, err := f.FromInt64(9).Add(f.FromInt64(10))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if sum.Value().Int64() != 2 {
		t.Errorf("9 + 10 mod 17 = %s, want 2", sum.Value())
	}

	product, err := f.FromInt64(5).Mul(f.FromInt64(7))
	if err != nil {
		t.Fatalf("Mul failed: %v", err)
	}
	if product.Value().Int64() != 1 {
		t.Errorf("5 * 7 mod 17 = %s, want 1", product.Value())
	}

	diff, err := f.FromInt64(3).Sub(f.FromInt64(5))
	if err != nil {
		t.Fatalf("Sub failed: %v", err)
	}
	if diff.Value().Int64() != 15 {
		t.Errorf("3 - 5 mod 17 = %s, want 15", diff.Value())
	}
}

// TestInverse tests inv(x) * x ≡ 1 for every nonzero element of a small field
func TestInverse(t *testing.T) {
	f, _ := NewField("f101", big.NewInt(101))

	for x := int64(1); x < 101; x++ {
		e := f.FromInt64(x)
		inv, err := e.Inv()
		if err != nil {
			t.Fatalf("Inv(%d) failed: %v", x, err)
		}

		one, _ := inv.Mul(e)
		if !one.Equal(f.One()) {
			t.Fatalf("Inv(%d) * %d = %s, want 1", x, x, one)
		}
	}
}

// TestInverseLargeField tests inversion with 256-bit values
func TestInverseLargeField(t *testing.T) {
	f := DemoField()

	for i := 0; i < 50; i++ {
		e, err := f.Rand()
		if err != nil {
			t.Fatalf("Rand failed: %v", err)
		}
		if e.IsZero() {
			continue
		}

		inv, err := e.Inv()
		if err != nil {
			t.Fatalf("Inv failed: %v", err)
		}

		one, _ := inv.Mul(e)
		if !one.Equal(f.One()) {
			t.Fatalf("inv(x)*x = %s, want 1", one)
		}
	}
}

// TestInverseOfZero tests that zero has no inverse
func TestInverseOfZero(t *testing.T) {
	f := DemoField()

	if _, err := f.Zero().Inv(); !errors.Is(err, ErrFieldInverseOfZero) {
		t.Errorf("Expected ErrFieldInverseOfZero, got %v", err)
	}

	// P ≡ 0 as well
	if _, err := f.NewElement(f.Modulus()).Inv(); !errors.Is(err, ErrFieldInverseOfZero) {
		t.Errorf("Expected ErrFieldInverseOfZero for P, got %v", err)
	}
}

// TestModulusMismatch tests that elements of different fields never mix
func TestModulusMismatch(t *testing.T) {
	f1, _ := NewField("f17", big.NewInt(17))
	f2, _ := NewField("f19", big.NewInt(19))

	a := f1.FromInt64(3)
	b := f2.FromInt64(3)

	if _, err := a.Add(b); !errors.Is(err, ErrModulusMismatch) {
		t.Errorf("Add: expected ErrModulusMismatch, got %v", err)
	}
	if _, err := a.Mul(b); !errors.Is(err, ErrModulusMismatch) {
		t.Errorf("Mul: expected ErrModulusMismatch, got %v", err)
	}
	if a.Equal(b) {
		t.Error("Elements of different fields must not be equal")
	}

	// Separately constructed fields over the same prime are compatible
	f3, _ := NewField("f17-copy", big.NewInt(17))
	if _, err := a.Add(f3.FromInt64(1)); err != nil {
		t.Errorf("Same modulus should be compatible: %v", err)
	}
}

// TestRandRange tests that random elements stay inside the field
func TestRandRange(t *testing.T) {
	f, _ := NewField("f7", big.NewInt(7))
	seen := make(map[int64]bool)

	for i := 0; i < 500; i++ {
		e, err := f.Rand()
		if err != nil {
			t.Fatalf("Rand failed: %v", err)
		}
		v := e.Value().Int64()
		if v < 0 || v >= 7 {
			t.Fatalf("Rand returned %d outside [0, 7)", v)
		}
		seen[v] = true
	}

	if len(seen) != 7 {
		t.Errorf("Expected all 7 residues to appear, saw %d", len(seen))
	}
}

// TestNewFieldInvalid tests modulus validation
func TestNewFieldInvalid(t *testing.T) {
	if _, err := NewField("nil", nil); err != ErrInvalidModulus {
		t.Errorf("Expected ErrInvalidModulus, got %v", err)
	}
	if _, err := NewField("neg", big.NewInt(-5)); err != ErrInvalidModulus {
		t.Errorf("Expected ErrInvalidModulus, got %v", err)
	}
}
