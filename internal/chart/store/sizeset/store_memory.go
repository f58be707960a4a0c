package sizeset

import (
	"context"
	"sort"
	"sync"

	"sevsizer/internal/chart/models"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/sentinel"
)

// MemoryStore keeps size sets in process, IDs assigned from a local
// sequence.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID domain.SizeSetID
	sets   map[domain.SizeSetID]*models.SizeSet
}

// NewMemory constructs an empty in-memory set store.
func NewMemory() *MemoryStore {
	return &MemoryStore{nextID: 1, sets: make(map[domain.SizeSetID]*models.SizeSet)}
}

// Insert stores a copy of the set and assigns its ID on the caller's
// struct.
func (s *MemoryStore) Insert(_ context.Context, set *models.SizeSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set.ID = s.nextID
	s.nextID++
	stored := *set
	s.sets[set.ID] = &stored
	return nil
}

// Delete removes the set.
func (s *MemoryStore) Delete(_ context.Context, chartID domain.ChartID, id domain.SizeSetID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[id]
	if !ok || set.ChartID != chartID {
		return sentinel.ErrNotFound
	}
	delete(s.sets, id)
	return nil
}

// ListByChart returns the chart's sets, ID ascending. The set matcher
// ranks ties by this order, so it has to be stable.
func (s *MemoryStore) ListByChart(_ context.Context, chartID domain.ChartID) ([]models.SizeSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SizeSet, 0, len(s.sets))
	for _, set := range s.sets {
		if set.ChartID == chartID {
			out = append(out, *set)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
