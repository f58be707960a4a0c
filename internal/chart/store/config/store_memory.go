package config

import (
	"context"
	"sync"

	"sevsizer/internal/chart/models"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/sentinel"
)

// MemoryStore keeps rule configs in process, one per chart.
type MemoryStore struct {
	mu      sync.RWMutex
	byChart map[domain.ChartID]*models.RuleConfig
}

// NewMemory constructs an empty in-memory config store.
func NewMemory() *MemoryStore {
	return &MemoryStore{byChart: make(map[domain.ChartID]*models.RuleConfig)}
}

// Get returns a copy of the chart's config. A chart without a config row
// is not found; the engine substitutes defaults.
func (s *MemoryStore) Get(_ context.Context, chartID domain.ChartID) (*models.RuleConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.byChart[chartID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *cfg
	return &out, nil
}

// Upsert stores a copy of the config, replacing any existing row.
func (s *MemoryStore) Upsert(_ context.Context, cfg *models.RuleConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *cfg
	s.byChart[cfg.ChartID] = &stored
	return nil
}
