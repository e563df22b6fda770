package network

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// TestRegisterReturnsJoinedParties tests party registration
func TestRegisterReturnsJoinedParties(t *testing.T) {
	ctx := context.Background()
	tr := NewMemoryTransport()

	for _, id := range []int{3, 1, 2} {
		if _, err := tr.Register(ctx, id); err != nil {
			t.Fatalf("Register(%d) failed: %v", id, err)
		}
	}

	parties, err := tr.Parties(ctx)
	if err != nil {
		t.Fatalf("Parties failed: %v", err)
	}

	want := []int{1, 2, 3}
	if len(parties) != len(want) {
		t.Fatalf("Parties = %v, want %v", parties, want)
	}
	for i := range want {
		if parties[i] != want[i] {
			t.Errorf("Parties = %v, want %v", parties, want)
		}
	}

	if _, err := tr.Register(ctx, 0); err != ErrInvalidPartyID {
		t.Errorf("Expected ErrInvalidPartyID, got %v", err)
	}
}

// TestSendThenReceive tests that a posted slot is returned immediately
func TestSendThenReceive(t *testing.T) {
	ctx := context.Background()
	tr := NewMemoryTransport()

	if err := tr.Send(ctx, 2, "a", "0x2a"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	got, err := tr.Receive(ctx, 2, "a")
	if err != nil {
		t.Fatalf("Receive failed: %v", err)
	}
	if got != "0x2a" {
		t.Errorf("Receive = %q, want 0x2a", got)
	}

	// Reading again resolves to the same value
	again, _ := tr.Receive(ctx, 2, "a")
	if again != got {
		t.Errorf("Second Receive = %q, want %q", again, got)
	}
}

// TestReceiveWaitsForSend tests the suspend-until-available read
func TestReceiveWaitsForSend(t *testing.T) {
	ctx := context.Background()
	tr := NewMemoryTransport()

	var wg sync.WaitGroup
	wg.Add(1)

	var got string
	var recvErr error
	go func() {
		defer wg.Done()
		got, recvErr = tr.Receive(ctx, 1, "a")
	}()

	time.Sleep(10 * time.Millisecond)
	if err := tr.Send(ctx, 1, "a", "0x1"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	wg.Wait()
	if recvErr != nil {
		t.Fatalf("Receive failed: %v", recvErr)
	}
	if got != "0x1" {
		t.Errorf("Receive = %q, want 0x1", got)
	}
}

// TestDuplicateWrite tests the write-once slot discipline
func TestDuplicateWrite(t *testing.T) {
	ctx := context.Background()
	tr := NewMemoryTransport()

	if err := tr.Send(ctx, 1, "a", "0x1"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	err := tr.Send(ctx, 1, "a", "0x2")
	if !errors.Is(err, ErrDuplicateShareWrite) {
		t.Errorf("Expected ErrDuplicateShareWrite, got %v", err)
	}

	got, _ := tr.Receive(ctx, 1, "a")
	if got != "0x1" {
		t.Errorf("Slot was overwritten: %q", got)
	}

	// Same name for another party is an independent slot
	if err := tr.Send(ctx, 2, "a", "0x2"); err != nil {
		t.Errorf("Send to another party failed: %v", err)
	}
}

// TestReceiveTimeout tests that an expired deadline fails the read
func TestReceiveTimeout(t *testing.T) {
	tr := NewMemoryTransport()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := tr.Receive(ctx, 1, "never")
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Expected ErrTimeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected wrapped DeadlineExceeded, got %v", err)
	}
}

// TestClose tests that closing releases waiters
func TestClose(t *testing.T) {
	tr := NewMemoryTransport()

	done := make(chan error, 1)
	go func() {
		_, err := tr.Receive(context.Background(), 1, "a")
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	tr.Close()

	select {
	case err := <-done:
		if err != ErrTransportClosed {
			t.Errorf("Expected ErrTransportClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Receive not released by Close")
	}

	if err := tr.Send(context.Background(), 1, "b", "0x1"); err != ErrTransportClosed {
		t.Errorf("Expected ErrTransportClosed on Send, got %v", err)
	}
}

// flakyTransport fails the first n calls with a transient error
type flakyTransport struct {
	*MemoryTransport
	mu       sync.Mutex
	failures int
	calls    int
	err      error
}

func (f *flakyTransport) Send(ctx context.Context, to int, name, value string) error {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	f.mu.Unlock()

	if fail {
		return f.err
	}
	return f.MemoryTransport.Send(ctx, to, name, value)
}

func fastRetry() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2,
	}
}

// TestRetryTransientFailure tests that transient failures are retried
func TestRetryTransientFailure(t *testing.T) {
	inner := &flakyTransport{MemoryTransport: NewMemoryTransport(), failures: 2, err: errors.New("connection reset")}
	tr, err := NewRetryTransport(inner, fastRetry(), nil)
	if err != nil {
		t.Fatalf("NewRetryTransport failed: %v", err)
	}

	if err := tr.Send(context.Background(), 1, "a", "0x1"); err != nil {
		t.Fatalf("Send failed after retries: %v", err)
	}
	if inner.calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", inner.calls)
	}
}

// TestRetryExhausted tests the bounded retry budget
func TestRetryExhausted(t *testing.T) {
	inner := &flakyTransport{MemoryTransport: NewMemoryTransport(), failures: 10, err: errors.New("connection reset")}
	tr, _ := NewRetryTransport(inner, fastRetry(), nil)

	err := tr.Send(context.Background(), 1, "a", "0x1")
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Errorf("Expected ErrRetriesExhausted, got %v", err)
	}
	if inner.calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", inner.calls)
	}
}

// TestRetryPermanentFailure tests that protocol errors are not retried
func TestRetryPermanentFailure(t *testing.T) {
	inner := &flakyTransport{MemoryTransport: NewMemoryTransport(), failures: 10, err: ErrDuplicateShareWrite}
	tr, _ := NewRetryTransport(inner, fastRetry(), nil)

	err := tr.Send(context.Background(), 1, "a", "0x1")
	if !errors.Is(err, ErrDuplicateShareWrite) {
		t.Errorf("Expected ErrDuplicateShareWrite, got %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("Expected a single attempt, got %d", inner.calls)
	}
}

// TestRetryConfigValidate tests retry policy validation
func TestRetryConfigValidate(t *testing.T) {
	if err := DefaultRetryConfig().Validate(); err != nil {
		t.Errorf("Default config invalid: %v", err)
	}

	bad := DefaultRetryConfig()
	bad.MaxAttempts = 0
	if err := bad.Validate(); err != ErrInvalidConfig {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}

	bad = DefaultRetryConfig()
	bad.Multiplier = 0.5
	if err := bad.Validate(); err != ErrInvalidConfig {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}
