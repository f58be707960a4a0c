package measurement

import (
	"context"
	"sync"

	"sevsizer/internal/measurement/models"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/sentinel"
)

// MemoryStore keeps measurements in process. Ordering matches the
// PostgreSQL store so either can back the service.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[domain.MeasurementID]*models.Measurement
	order []domain.MeasurementID
}

// NewMemory constructs an empty in-memory measurement store.
func NewMemory() *MemoryStore {
	return &MemoryStore{byID: make(map[domain.MeasurementID]*models.Measurement)}
}

// Insert stores a copy of the measurement. A duplicate ID is a conflict.
func (s *MemoryStore) Insert(_ context.Context, m *models.Measurement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[m.ID]; exists {
		return sentinel.ErrConflict
	}
	s.byID[m.ID] = cloneMeasurement(m)
	s.order = append(s.order, m.ID)
	return nil
}

// Get returns a copy of the measurement.
func (s *MemoryStore) Get(_ context.Context, id domain.MeasurementID) (*models.Measurement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneMeasurement(m), nil
}

// List returns newest-first summaries, at most limit.
func (s *MemoryStore) List(_ context.Context, limit int) ([]models.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Summary, 0, min(limit, len(s.order)))
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.byID[s.order[i]].Summarize())
	}
	return out, nil
}

// cloneMeasurement copies the record and everything it points at, so a
// caller mutating its copy cannot reach stored state.
func cloneMeasurement(m *models.Measurement) *models.Measurement {
	out := *m
	out.Fingers = make(map[domain.FingerName]models.FingerMeasurement, len(m.Fingers))
	for finger, fm := range m.Fingers {
		out.Fingers[finger] = fm
	}
	if m.Warnings != nil {
		out.Warnings = append([]string(nil), m.Warnings...)
	}
	if m.ThumbSourceID != nil {
		id := *m.ThumbSourceID
		out.ThumbSourceID = &id
	}
	if m.FourFingerSourceID != nil {
		id := *m.FourFingerSourceID
		out.FourFingerSourceID = &id
	}
	return &out
}
