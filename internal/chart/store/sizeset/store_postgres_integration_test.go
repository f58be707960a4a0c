//go:build integration

package sizeset_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sevsizer/internal/chart/models"
	"sevsizer/internal/chart/store/sizeset"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/sentinel"
	"sevsizer/pkg/testutil/containers"
)

type PostgresSetStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *sizeset.PostgresStore
}

func TestPostgresSetStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSetStoreSuite))
}

func (s *PostgresSetStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = sizeset.NewPostgres(s.postgres.DB)
}

func (s *PostgresSetStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "size_sets")
	s.Require().NoError(err)
}

func (s *PostgresSetStoreSuite) newSet(chartID domain.ChartID, name, variantRef string) *models.SizeSet {
	set, err := models.NewSizeSet(chartID, name,
		models.FingerSizes{Thumb: 3, Index: 5, Middle: 4, Ring: 6, Pinky: 8},
		variantRef, time.Now().UTC())
	s.Require().NoError(err)
	return set
}

func (s *PostgresSetStoreSuite) TestRoundTrip() {
	ctx := context.Background()

	set := s.newSet("default", "Classic", "SEV-SET-CLASSIC")
	s.Require().NoError(s.store.Insert(ctx, set))
	s.NotZero(set.ID)

	sets, err := s.store.ListByChart(ctx, "default")
	s.Require().NoError(err)
	s.Require().Len(sets, 1)
	s.Equal("Classic", sets[0].Name)
	s.Equal("SEV-SET-CLASSIC", sets[0].VariantRef)
	s.Equal(models.FingerSizes{Thumb: 3, Index: 5, Middle: 4, Ring: 6, Pinky: 8}, sets[0].Sizes)
}

func (s *PostgresSetStoreSuite) TestListOrderedByID() {
	ctx := context.Background()

	first := s.newSet("default", "Petite", "")
	second := s.newSet("default", "Classic", "")
	s.Require().NoError(s.store.Insert(ctx, first))
	s.Require().NoError(s.store.Insert(ctx, second))

	sets, err := s.store.ListByChart(ctx, "default")
	s.Require().NoError(err)
	s.Require().Len(sets, 2)
	s.Equal(first.ID, sets[0].ID)
	s.Equal(second.ID, sets[1].ID)
}

func (s *PostgresSetStoreSuite) TestDeleteScopedToChart() {
	ctx := context.Background()

	set := s.newSet("salon-a", "Classic", "")
	s.Require().NoError(s.store.Insert(ctx, set))

	s.Require().ErrorIs(s.store.Delete(ctx, "salon-b", set.ID), sentinel.ErrNotFound)
	s.Require().NoError(s.store.Delete(ctx, "salon-a", set.ID))

	sets, err := s.store.ListByChart(ctx, "salon-a")
	s.Require().NoError(err)
	s.Empty(sets)
}
