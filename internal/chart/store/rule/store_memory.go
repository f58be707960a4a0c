package rule

import (
	"context"
	"sort"
	"sync"

	"sevsizer/internal/chart/models"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/sentinel"
)

// MemoryStore keeps size rules in process, IDs assigned from a local
// sequence. Ordering matches the PostgreSQL store so either can back the
// service.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID domain.RuleID
	rules  map[domain.RuleID]*models.SizeRule
}

// NewMemory constructs an empty in-memory rule store.
func NewMemory() *MemoryStore {
	return &MemoryStore{nextID: 1, rules: make(map[domain.RuleID]*models.SizeRule)}
}

// Insert stores a copy of the rule and assigns its ID on the caller's
// struct.
func (s *MemoryStore) Insert(_ context.Context, r *models.SizeRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.nextID
	s.nextID++
	stored := *r
	s.rules[r.ID] = &stored
	return nil
}

// Get returns a copy of the rule. Rules are addressed within their chart;
// a rule ID paired with the wrong chart is not found.
func (s *MemoryStore) Get(_ context.Context, chartID domain.ChartID, id domain.RuleID) (*models.SizeRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rules[id]
	if !ok || r.ChartID != chartID {
		return nil, sentinel.ErrNotFound
	}
	out := *r
	return &out, nil
}

// Update replaces the stored rule.
func (s *MemoryStore) Update(_ context.Context, r *models.SizeRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.rules[r.ID]
	if !ok || current.ChartID != r.ChartID {
		return sentinel.ErrNotFound
	}
	stored := *r
	s.rules[r.ID] = &stored
	return nil
}

// Delete removes the rule.
func (s *MemoryStore) Delete(_ context.Context, chartID domain.ChartID, id domain.RuleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rules[id]
	if !ok || r.ChartID != chartID {
		return sentinel.ErrNotFound
	}
	delete(s.rules, id)
	return nil
}

// ListByChart returns every rule for the chart, ID ascending.
func (s *MemoryStore) ListByChart(_ context.Context, chartID domain.ChartID) ([]models.SizeRule, error) {
	return s.list(chartID, false), nil
}

// ListActive returns the chart's active rules, ID ascending. The matcher
// orders by priority itself; the store order only has to be stable.
func (s *MemoryStore) ListActive(_ context.Context, chartID domain.ChartID) ([]models.SizeRule, error) {
	return s.list(chartID, true), nil
}

func (s *MemoryStore) list(chartID domain.ChartID, activeOnly bool) []models.SizeRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SizeRule, 0, len(s.rules))
	for _, r := range s.rules {
		if r.ChartID != chartID || (activeOnly && !r.Active) {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
