package measurement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sevsizer/internal/measurement/models"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/sentinel"
)

type MeasurementStoreSuite struct {
	suite.Suite
	store *MemoryStore
	ctx   context.Context
}

func (s *MeasurementStoreSuite) SetupTest() {
	s.store = NewMemory()
	s.ctx = context.Background()
}

// SetupSubTest gives each s.Run block a fresh store; List has no scoping
// key, so its subtests depend on starting empty.
func (s *MeasurementStoreSuite) SetupSubTest() {
	s.SetupTest()
}

func TestMeasurementStoreSuite(t *testing.T) {
	suite.Run(t, new(MeasurementStoreSuite))
}

func (s *MeasurementStoreSuite) newMeasurement(createdAt time.Time) *models.Measurement {
	fingers := make(map[domain.FingerName]models.FingerMeasurement, len(domain.FingerOrder))
	for i, f := range domain.FingerOrder {
		fingers[f] = models.FingerMeasurement{
			WidthMm:              10.0 + float64(i),
			LengthMm:             14.0 + float64(i),
			CurveAdjustedWidthMm: 9.5 + float64(i),
			Confidence:           0.9,
		}
	}
	return &models.Measurement{
		ID:                domain.NewMeasurementID(),
		Hand:              models.HandLeft,
		PhotoType:         models.PhotoTypeFull,
		PxPerMm:           12.4,
		Fingers:           fingers,
		OverallConfidence: 0.9,
		Warnings:          []string{"low_confidence"},
		CreatedAt:         createdAt,
	}
}

// TestInsertAndGet verifies the store persists and retrieves measurements.
func (s *MeasurementStoreSuite) TestInsertAndGet() {
	s.Run("round-trips a record", func() {
		m := s.newMeasurement(time.Now())
		s.Require().NoError(s.store.Insert(s.ctx, m))

		found, err := s.store.Get(s.ctx, m.ID)
		s.Require().NoError(err)
		s.Equal(m.Hand, found.Hand)
		s.Equal(m.Fingers, found.Fingers)
		s.Equal(m.Warnings, found.Warnings)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.Get(s.ctx, domain.NewMeasurementID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects duplicate IDs", func() {
		m := s.newMeasurement(time.Now())
		s.Require().NoError(s.store.Insert(s.ctx, m))

		err := s.store.Insert(s.ctx, m)
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("keeps source pointers", func() {
		thumbSrc := domain.NewMeasurementID()
		fourSrc := domain.NewMeasurementID()
		m := s.newMeasurement(time.Now())
		m.PhotoType = models.PhotoTypeMerged
		m.ThumbSourceID = &thumbSrc
		m.FourFingerSourceID = &fourSrc
		s.Require().NoError(s.store.Insert(s.ctx, m))

		found, err := s.store.Get(s.ctx, m.ID)
		s.Require().NoError(err)
		s.Require().NotNil(found.ThumbSourceID)
		s.Equal(thumbSrc, *found.ThumbSourceID)
		s.Require().NotNil(found.FourFingerSourceID)
		s.Equal(fourSrc, *found.FourFingerSourceID)
	})
}

// TestImmutability verifies stored records cannot be mutated through
// retained or returned references.
func (s *MeasurementStoreSuite) TestImmutability() {
	s.Run("mutating the inserted value does not change the record", func() {
		m := s.newMeasurement(time.Now())
		s.Require().NoError(s.store.Insert(s.ctx, m))

		m.Fingers[domain.FingerThumb] = models.FingerMeasurement{WidthMm: 99}
		m.Warnings[0] = "tampered"

		found, err := s.store.Get(s.ctx, m.ID)
		s.Require().NoError(err)
		s.InDelta(10.0, found.Fingers[domain.FingerThumb].WidthMm, 1e-9)
		s.Equal("low_confidence", found.Warnings[0])
	})

	s.Run("mutating a returned value does not change the record", func() {
		m := s.newMeasurement(time.Now())
		s.Require().NoError(s.store.Insert(s.ctx, m))

		first, err := s.store.Get(s.ctx, m.ID)
		s.Require().NoError(err)
		delete(first.Fingers, domain.FingerPinky)

		second, err := s.store.Get(s.ctx, m.ID)
		s.Require().NoError(err)
		s.Len(second.Fingers, 5)
	})
}

// TestList verifies summary projection, ordering and the limit.
func (s *MeasurementStoreSuite) TestList() {
	s.Run("returns newest first up to the limit", func() {
		base := time.Now()
		oldest := s.newMeasurement(base.Add(-2 * time.Minute))
		middle := s.newMeasurement(base.Add(-time.Minute))
		newest := s.newMeasurement(base)
		for _, m := range []*models.Measurement{oldest, middle, newest} {
			s.Require().NoError(s.store.Insert(s.ctx, m))
		}

		summaries, err := s.store.List(s.ctx, 2)
		s.Require().NoError(err)
		s.Require().Len(summaries, 2)
		s.Equal(newest.ID, summaries[0].ID)
		s.Equal(middle.ID, summaries[1].ID)
	})

	s.Run("projects summary fields only", func() {
		m := s.newMeasurement(time.Now())
		s.Require().NoError(s.store.Insert(s.ctx, m))

		summaries, err := s.store.List(s.ctx, 10)
		s.Require().NoError(err)
		s.Require().Len(summaries, 1)
		s.Equal(m.Hand, summaries[0].Hand)
		s.Equal(m.PhotoType, summaries[0].PhotoType)
		s.InDelta(m.OverallConfidence, summaries[0].OverallConfidence, 1e-9)
	})

	s.Run("empty store lists empty", func() {
		summaries, err := s.store.List(s.ctx, 20)
		s.Require().NoError(err)
		s.Empty(summaries)
	})
}
