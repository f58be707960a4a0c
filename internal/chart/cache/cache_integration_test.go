//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sevsizer/internal/chart/cache"
	"sevsizer/internal/chart/models"
	"sevsizer/pkg/testutil/containers"
)

type SnapshotCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.SnapshotCache
}

func TestSnapshotCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(SnapshotCacheSuite))
}

func (s *SnapshotCacheSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.cache = cache.New(s.redis.Client, 0)
}

func (s *SnapshotCacheSuite) SetupTest() {
	err := s.redis.FlushAll(context.Background())
	s.Require().NoError(err)
}

func (s *SnapshotCacheSuite) newSnapshot() *models.ChartSnapshot {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	rule, err := models.NewSizeRule("default", models.ScopeAll, 10.1, 11.0, 7, 0, now)
	s.Require().NoError(err)
	rule.ID = 1
	cfg, err := models.NewRuleConfig("default", models.PolicySizeUp, 0.5, now)
	s.Require().NoError(err)
	size, err := models.NewCatalogSize("default", 7, "Size 7", now)
	s.Require().NoError(err)
	size.ID = 1
	return &models.ChartSnapshot{
		ChartID: "default",
		Rules:   []models.SizeRule{*rule},
		Config:  cfg,
		Catalog: []models.CatalogSize{*size},
	}
}

func (s *SnapshotCacheSuite) TestRoundTrip() {
	ctx := context.Background()

	snap := s.newSnapshot()
	s.Require().NoError(s.cache.Set(ctx, snap))

	found, err := s.cache.Get(ctx, "default")
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(snap.ChartID, found.ChartID)
	s.Equal(snap.Rules, found.Rules)
	s.Require().NotNil(found.Config)
	s.Equal(models.PolicySizeUp, found.Config.BetweenSizesPolicy)
	s.Equal(snap.Catalog, found.Catalog)
}

func (s *SnapshotCacheSuite) TestMissReturnsNilWithoutError() {
	found, err := s.cache.Get(context.Background(), "never-written")
	s.Require().NoError(err)
	s.Nil(found)
}

func (s *SnapshotCacheSuite) TestInvalidateDropsKey() {
	ctx := context.Background()

	snap := s.newSnapshot()
	s.Require().NoError(s.cache.Set(ctx, snap))
	s.Require().NoError(s.cache.Invalidate(ctx, "default"))

	found, err := s.cache.Get(ctx, "default")
	s.Require().NoError(err)
	s.Nil(found)

	// Invalidating an absent key is not an error.
	s.Require().NoError(s.cache.Invalidate(ctx, "default"))
}

func (s *SnapshotCacheSuite) TestEntriesExpire() {
	ctx := context.Background()
	short := cache.New(s.redis.Client, 200*time.Millisecond)

	s.Require().NoError(short.Set(ctx, s.newSnapshot()))

	found, err := short.Get(ctx, "default")
	s.Require().NoError(err)
	s.Require().NotNil(found)

	s.Require().Eventually(func() bool {
		found, err := short.Get(ctx, "default")
		return err == nil && found == nil
	}, 2*time.Second, 50*time.Millisecond, "snapshot should expire with its TTL")
}
