package network

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type slotKey struct {
	party int
	name  string
}

// slot holds one value; ready is closed exactly once when it is written
type slot struct {
	ready chan struct{}
	value string
}

// MemoryTransport is an in-process Transport. Each party and engine is
// handed the same instance; nothing is shared through package state.
type MemoryTransport struct {
	mu      sync.Mutex
	slots   map[slotKey]*slot
	parties map[int]struct{}

	closed    chan struct{}
	closeOnce sync.Once
}

// NewMemoryTransport creates an empty in-process transport
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{
		slots:   make(map[slotKey]*slot),
		parties: make(map[int]struct{}),
		closed:  make(chan struct{}),
	}
}

// Register announces partyID and returns the sorted set of joined parties
func (t *MemoryTransport) Register(ctx context.Context, partyID int) ([]int, error) {
	if partyID < 1 {
		return nil, ErrInvalidPartyID
	}
	if err := t.checkOpen(ctx); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.parties[partyID] = struct{}{}
	return t.partyList(), nil
}

// Parties returns the sorted set of joined parties
func (t *MemoryTransport) Parties(ctx context.Context) ([]int, error) {
	if err := t.checkOpen(ctx); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.partyList(), nil
}

// Send writes value into slot (to, name) and wakes its waiters
func (t *MemoryTransport) Send(ctx context.Context, to int, name, value string) error {
	if to < 1 {
		return ErrInvalidPartyID
	}
	if name == "" {
		return ErrInvalidName
	}
	if err := t.checkOpen(ctx); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.slotLocked(slotKey{party: to, name: name})
	select {
	case <-s.ready:
		return fmt.Errorf("%w: party %d %q", ErrDuplicateShareWrite, to, name)
	default:
	}

	s.value = value
	close(s.ready)
	return nil
}

// Receive waits for slot (partyID, name). The wait is bounded only by ctx.
func (t *MemoryTransport) Receive(ctx context.Context, partyID int, name string) (string, error) {
	if partyID < 1 {
		return "", ErrInvalidPartyID
	}
	if name == "" {
		return "", ErrInvalidName
	}

	t.mu.Lock()
	s := t.slotLocked(slotKey{party: partyID, name: name})
	t.mu.Unlock()

	select {
	case <-s.ready:
		return s.value, nil
	default:
	}

	select {
	case <-s.ready:
		return s.value, nil
	case <-t.closed:
		return "", ErrTransportClosed
	case <-ctx.Done():
		return "", fmt.Errorf("%w: party %d %q: %w", ErrTimeout, partyID, name, ctx.Err())
	}
}

// Close releases every pending Receive with ErrTransportClosed
func (t *MemoryTransport) Close() error {
	t.closeOnce.Do(func() { close(t.closed) })
	return nil
}

// Len returns the number of written slots
func (t *MemoryTransport) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, s := range t.slots {
		select {
		case <-s.ready:
			n++
		default:
		}
	}
	return n
}

func (t *MemoryTransport) checkOpen(ctx context.Context) error {
	select {
	case <-t.closed:
		return ErrTransportClosed
	default:
	}
	return ctx.Err()
}

func (t *MemoryTransport) slotLocked(key slotKey) *slot {
	s := t.slots[key]
	if s == nil {
		s = &slot{ready: make(chan struct{})}
		t.slots[key] = s
	}
	return s
}

func (t *MemoryTransport) partyList() []int {
	ids := make([]int, 0, len(t.parties))
	for id := range t.parties {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
