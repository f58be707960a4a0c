package catalog

import (
	"context"
	"sort"
	"sync"

	"sevsizer/internal/chart/models"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/sentinel"
)

// MemoryStore keeps catalog sizes in process, IDs assigned from a local
// sequence. (chart, size_number) is unique, matching the PostgreSQL
// constraint.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID domain.CatalogSizeID
	sizes  map[domain.CatalogSizeID]*models.CatalogSize
}

// NewMemory constructs an empty in-memory catalog store.
func NewMemory() *MemoryStore {
	return &MemoryStore{nextID: 1, sizes: make(map[domain.CatalogSizeID]*models.CatalogSize)}
}

// Insert stores a copy of the catalog size and assigns its ID on the
// caller's struct. A duplicate size number within the chart is a conflict.
func (s *MemoryStore) Insert(_ context.Context, c *models.CatalogSize) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sizes {
		if existing.ChartID == c.ChartID && existing.SizeNumber == c.SizeNumber {
			return sentinel.ErrConflict
		}
	}
	c.ID = s.nextID
	s.nextID++
	stored := *c
	s.sizes[c.ID] = &stored
	return nil
}

// Delete removes the catalog size.
func (s *MemoryStore) Delete(_ context.Context, chartID domain.ChartID, id domain.CatalogSizeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.sizes[id]
	if !ok || c.ChartID != chartID {
		return sentinel.ErrNotFound
	}
	delete(s.sizes, id)
	return nil
}

// ListByChart returns the chart's catalog, size number ascending.
func (s *MemoryStore) ListByChart(_ context.Context, chartID domain.ChartID) ([]models.CatalogSize, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CatalogSize, 0, len(s.sizes))
	for _, c := range s.sizes {
		if c.ChartID == chartID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SizeNumber < out[j].SizeNumber })
	return out, nil
}
