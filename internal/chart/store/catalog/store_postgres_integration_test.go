//go:build integration

package catalog_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sevsizer/internal/chart/models"
	"sevsizer/internal/chart/store/catalog"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/sentinel"
	"sevsizer/pkg/testutil/containers"
)

type PostgresCatalogStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *catalog.PostgresStore
}

func TestPostgresCatalogStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresCatalogStoreSuite))
}

func (s *PostgresCatalogStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = catalog.NewPostgres(s.postgres.DB)
}

func (s *PostgresCatalogStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "catalog_sizes")
	s.Require().NoError(err)
}

func (s *PostgresCatalogStoreSuite) newSize(chartID domain.ChartID, number int, label string) *models.CatalogSize {
	c, err := models.NewCatalogSize(chartID, number, label, time.Now().UTC())
	s.Require().NoError(err)
	return c
}

func (s *PostgresCatalogStoreSuite) TestInsertAndListSorted() {
	ctx := context.Background()

	s.Require().NoError(s.store.Insert(ctx, s.newSize("default", 5, "Size 5")))
	s.Require().NoError(s.store.Insert(ctx, s.newSize("default", 3, "Size 3")))
	s.Require().NoError(s.store.Insert(ctx, s.newSize("default", 9, "Size 9")))

	sizes, err := s.store.ListByChart(ctx, "default")
	s.Require().NoError(err)
	s.Require().Len(sizes, 3)
	s.Equal([]int{3, 5, 9}, []int{sizes[0].SizeNumber, sizes[1].SizeNumber, sizes[2].SizeNumber})
}

func (s *PostgresCatalogStoreSuite) TestDuplicateSizeNumberConflicts() {
	ctx := context.Background()

	s.Require().NoError(s.store.Insert(ctx, s.newSize("default", 5, "Size 5")))

	err := s.store.Insert(ctx, s.newSize("default", 5, "Another 5"))
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	// The same size number on another chart is a different catalog entry.
	s.Require().NoError(s.store.Insert(ctx, s.newSize("salon-a", 5, "Size 5")))
}

func (s *PostgresCatalogStoreSuite) TestDelete() {
	ctx := context.Background()

	c := s.newSize("default", 5, "Size 5")
	s.Require().NoError(s.store.Insert(ctx, c))

	s.Require().NoError(s.store.Delete(ctx, "default", c.ID))
	s.Require().ErrorIs(s.store.Delete(ctx, "default", c.ID), sentinel.ErrNotFound)

	sizes, err := s.store.ListByChart(ctx, "default")
	s.Require().NoError(err)
	s.Empty(sizes)
}

// TestConcurrentDuplicateInserts verifies the unique constraint lets
// exactly one writer win for a contested size number.
func (s *PostgresCatalogStoreSuite) TestConcurrentDuplicateInserts() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := models.NewCatalogSize("default", 7, "Size 7", time.Now().UTC())
			if err != nil {
				return
			}
			switch err := s.store.Insert(ctx, c); {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one insert should win")
	s.Equal(int32(goroutines-1), conflictCount.Load())
}
