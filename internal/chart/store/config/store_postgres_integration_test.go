//go:build integration

package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sevsizer/internal/chart/models"
	"sevsizer/internal/chart/store/config"
	"sevsizer/pkg/platform/sentinel"
	"sevsizer/pkg/testutil/containers"
)

type PostgresConfigStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *config.PostgresStore
}

func TestPostgresConfigStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresConfigStoreSuite))
}

func (s *PostgresConfigStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = config.NewPostgres(s.postgres.DB)
}

func (s *PostgresConfigStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "rule_configs")
	s.Require().NoError(err)
}

func (s *PostgresConfigStoreSuite) TestGetMissing() {
	_, err := s.store.Get(context.Background(), "default")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresConfigStoreSuite) TestUpsertInsertsThenUpdates() {
	ctx := context.Background()

	cfg, err := models.NewRuleConfig("default", models.PolicySizeDown, 0.3, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Upsert(ctx, cfg))

	found, err := s.store.Get(ctx, "default")
	s.Require().NoError(err)
	s.Equal(models.PolicySizeDown, found.BetweenSizesPolicy)
	s.InDelta(0.3, found.ToleranceMm, 1e-9)

	flipped, err := models.NewRuleConfig("default", models.PolicySizeUp, 0.5, time.Now().UTC().Add(time.Minute))
	s.Require().NoError(err)
	s.Require().NoError(s.store.Upsert(ctx, flipped))

	found, err = s.store.Get(ctx, "default")
	s.Require().NoError(err)
	s.Equal(models.PolicySizeUp, found.BetweenSizesPolicy)
	s.InDelta(0.5, found.ToleranceMm, 1e-9)
	s.True(found.UpdatedAt.After(cfg.UpdatedAt))
}

func (s *PostgresConfigStoreSuite) TestChartsKeepSeparateConfigs() {
	ctx := context.Background()

	a, err := models.NewRuleConfig("salon-a", models.PolicySizeUp, 0.4, time.Now().UTC())
	s.Require().NoError(err)
	b, err := models.NewRuleConfig("salon-b", models.PolicySizeDown, 0.2, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Upsert(ctx, a))
	s.Require().NoError(s.store.Upsert(ctx, b))

	foundA, err := s.store.Get(ctx, "salon-a")
	s.Require().NoError(err)
	s.Equal(models.PolicySizeUp, foundA.BetweenSizesPolicy)

	foundB, err := s.store.Get(ctx, "salon-b")
	s.Require().NoError(err)
	s.Equal(models.PolicySizeDown, foundB.BetweenSizesPolicy)
}
