package recommendation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sevsizer/internal/sizing"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/sentinel"
)

type RecommendationStoreSuite struct {
	suite.Suite
	store *MemoryStore
	ctx   context.Context
}

func (s *RecommendationStoreSuite) SetupTest() {
	s.store = NewMemory()
	s.ctx = context.Background()
}

func TestRecommendationStoreSuite(t *testing.T) {
	suite.Run(t, new(RecommendationStoreSuite))
}

func (s *RecommendationStoreSuite) newRecommendation(measurementID domain.MeasurementID, createdAt time.Time) sizing.Recommendation {
	rec := sizing.Recommendation{
		ID:            domain.NewRecommendationID(),
		MeasurementID: measurementID,
		ChartID:       "default",
		Profile:       "3-5-4-6-8",
		MatchingSets: []sizing.SetMatch{
			{SetID: 2, SetName: "Coffin Noir", Diff: 0, Exact: true},
		},
		CreatedAt: createdAt,
	}
	for i, f := range domain.FingerOrder {
		rec.PerFinger[i] = sizing.FingerResult{
			Finger:  f,
			Size:    i + 3,
			Label:   "Size",
			WidthMm: 10.5,
			Fit:     domain.FitStandard,
			RuleID:  1,
			Branch:  sizing.BranchExact,
		}
	}
	return rec
}

// TestInsertAndGet verifies the store persists and retrieves recommendations.
func (s *RecommendationStoreSuite) TestInsertAndGet() {
	s.Run("round-trips a record", func() {
		rec := s.newRecommendation(domain.NewMeasurementID(), time.Now())
		s.Require().NoError(s.store.Insert(s.ctx, rec))

		found, err := s.store.Get(s.ctx, rec.ID)
		s.Require().NoError(err)
		s.Equal(rec.Profile, found.Profile)
		s.Equal(rec.PerFinger, found.PerFinger)
		s.Equal(rec.MatchingSets, found.MatchingSets)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.Get(s.ctx, domain.NewRecommendationID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects duplicate IDs", func() {
		rec := s.newRecommendation(domain.NewMeasurementID(), time.Now())
		s.Require().NoError(s.store.Insert(s.ctx, rec))

		err := s.store.Insert(s.ctx, rec)
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})
}

// TestImmutability verifies stored records cannot be mutated through
// retained or returned references.
func (s *RecommendationStoreSuite) TestImmutability() {
	s.Run("mutating the inserted value does not change the record", func() {
		rec := s.newRecommendation(domain.NewMeasurementID(), time.Now())
		s.Require().NoError(s.store.Insert(s.ctx, rec))

		rec.MatchingSets[0].SetName = "tampered"

		found, err := s.store.Get(s.ctx, rec.ID)
		s.Require().NoError(err)
		s.Equal("Coffin Noir", found.MatchingSets[0].SetName)
	})

	s.Run("mutating a returned value does not change the record", func() {
		rec := s.newRecommendation(domain.NewMeasurementID(), time.Now())
		s.Require().NoError(s.store.Insert(s.ctx, rec))

		first, err := s.store.Get(s.ctx, rec.ID)
		s.Require().NoError(err)
		first.MatchingSets[0].Diff = 99

		second, err := s.store.Get(s.ctx, rec.ID)
		s.Require().NoError(err)
		s.Equal(0, second.MatchingSets[0].Diff)
	})
}

// TestListByMeasurement verifies per-measurement history ordering.
func (s *RecommendationStoreSuite) TestListByMeasurement() {
	s.Run("returns newest first", func() {
		measurementID := domain.NewMeasurementID()
		base := time.Now()

		oldest := s.newRecommendation(measurementID, base.Add(-2*time.Minute))
		middle := s.newRecommendation(measurementID, base.Add(-time.Minute))
		newest := s.newRecommendation(measurementID, base)
		for _, rec := range []sizing.Recommendation{oldest, middle, newest} {
			s.Require().NoError(s.store.Insert(s.ctx, rec))
		}

		recs, err := s.store.ListByMeasurement(s.ctx, measurementID)
		s.Require().NoError(err)
		s.Require().Len(recs, 3)
		s.Equal(newest.ID, recs[0].ID)
		s.Equal(middle.ID, recs[1].ID)
		s.Equal(oldest.ID, recs[2].ID)
	})

	s.Run("scopes to the measurement", func() {
		mine := domain.NewMeasurementID()
		other := domain.NewMeasurementID()
		s.Require().NoError(s.store.Insert(s.ctx, s.newRecommendation(mine, time.Now())))
		s.Require().NoError(s.store.Insert(s.ctx, s.newRecommendation(other, time.Now())))

		recs, err := s.store.ListByMeasurement(s.ctx, mine)
		s.Require().NoError(err)
		s.Require().Len(recs, 1)
		s.Equal(mine, recs[0].MeasurementID)
	})

	s.Run("empty history is empty, not an error", func() {
		recs, err := s.store.ListByMeasurement(s.ctx, domain.NewMeasurementID())
		s.Require().NoError(err)
		s.Empty(recs)
	})
}
