package audit

import (
	"context"
	"sync"
)

const defaultMemoryCapacity = 1024

// MemoryStore keeps the most recent events in a fixed-size ring. It is
// the default sink when no database or broker is configured, and what
// tests inspect.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
	next   int
	full   bool
}

// NewMemoryStore constructs a ring holding up to capacity events.
// A non-positive capacity falls back to the default.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryStore{events: make([]Event, capacity)}
}

func (s *MemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[s.next] = event
	s.next++
	if s.next == len(s.events) {
		s.next = 0
		s.full = true
	}
	return nil
}

// Recent returns up to limit events, newest first. A non-positive limit
// returns everything retained.
func (s *MemoryStore) Recent(limit int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	size := s.next
	if s.full {
		size = len(s.events)
	}
	if limit <= 0 || limit > size {
		limit = size
	}
	out := make([]Event, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (s.next - 1 - i + len(s.events)) % len(s.events)
		out = append(out, s.events[idx])
	}
	return out
}
