package recommendation

import (
	"context"
	"sync"

	"sevsizer/internal/sizing"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/sentinel"
)

// MemoryStore keeps recommendations in process memory. Records are
// append-only: there is no update or delete path, matching the
// persistence contract of the recorded recommendation.
type MemoryStore struct {
	mu            sync.RWMutex
	byID          map[domain.RecommendationID]sizing.Recommendation
	byMeasurement map[domain.MeasurementID][]domain.RecommendationID
}

// NewMemory constructs an empty in-memory recommendation store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		byID:          make(map[domain.RecommendationID]sizing.Recommendation),
		byMeasurement: make(map[domain.MeasurementID][]domain.RecommendationID),
	}
}

func (s *MemoryStore) Insert(_ context.Context, rec sizing.Recommendation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[rec.ID]; exists {
		return sentinel.ErrConflict
	}
	s.byID[rec.ID] = cloneRecommendation(rec)
	s.byMeasurement[rec.MeasurementID] = append(s.byMeasurement[rec.MeasurementID], rec.ID)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id domain.RecommendationID) (sizing.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[id]
	if !ok {
		return sizing.Recommendation{}, sentinel.ErrNotFound
	}
	return cloneRecommendation(rec), nil
}

// ListByMeasurement returns the measurement's recommendations newest first.
func (s *MemoryStore) ListByMeasurement(_ context.Context, measurementID domain.MeasurementID) ([]sizing.Recommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byMeasurement[measurementID]
	recs := make([]sizing.Recommendation, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		recs = append(recs, cloneRecommendation(s.byID[ids[i]]))
	}
	return recs, nil
}

// cloneRecommendation copies the slice field so callers cannot mutate a
// stored record through a returned or retained reference.
func cloneRecommendation(rec sizing.Recommendation) sizing.Recommendation {
	rec.MatchingSets = append([]sizing.SetMatch(nil), rec.MatchingSets...)
	return rec
}
