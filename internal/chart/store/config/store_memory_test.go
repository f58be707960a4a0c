package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sevsizer/internal/chart/models"
	"sevsizer/pkg/platform/sentinel"
)

type ConfigStoreSuite struct {
	suite.Suite
	store *MemoryStore
	ctx   context.Context
}

func TestConfigStoreSuite(t *testing.T) {
	suite.Run(t, new(ConfigStoreSuite))
}

func (s *ConfigStoreSuite) SetupTest() {
	s.store = NewMemory()
	s.ctx = context.Background()
}

func (s *ConfigStoreSuite) TestGetMissing() {
	_, err := s.store.Get(s.ctx, "default")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ConfigStoreSuite) TestUpsertReplacesRow() {
	now := time.Date(2025, 6, 12, 9, 30, 0, 0, time.UTC)
	cfg, err := models.NewRuleConfig("default", models.PolicySizeDown, 0.3, now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Upsert(s.ctx, cfg))

	got, err := s.store.Get(s.ctx, "default")
	s.Require().NoError(err)
	s.Equal(models.PolicySizeDown, got.BetweenSizesPolicy)
	s.InDelta(0.3, got.ToleranceMm, 1e-9)

	updated, err := models.NewRuleConfig("default", models.PolicySizeUp, 0.5, now.Add(time.Hour))
	s.Require().NoError(err)
	s.Require().NoError(s.store.Upsert(s.ctx, updated))

	got, err = s.store.Get(s.ctx, "default")
	s.Require().NoError(err)
	s.Equal(models.PolicySizeUp, got.BetweenSizesPolicy)
	s.InDelta(0.5, got.ToleranceMm, 1e-9)
	s.Equal(now.Add(time.Hour), got.UpdatedAt)
}

func (s *ConfigStoreSuite) TestChartsIsolated() {
	now := time.Date(2025, 6, 12, 9, 30, 0, 0, time.UTC)
	cfg, err := models.NewRuleConfig("default", models.PolicySizeDown, 0.3, now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Upsert(s.ctx, cfg))

	_, err = s.store.Get(s.ctx, "other-chart")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ConfigStoreSuite) TestImmutability() {
	now := time.Date(2025, 6, 12, 9, 30, 0, 0, time.UTC)
	cfg, err := models.NewRuleConfig("default", models.PolicySizeDown, 0.3, now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Upsert(s.ctx, cfg))

	cfg.ToleranceMm = 9.9
	got, err := s.store.Get(s.ctx, "default")
	s.Require().NoError(err)
	s.InDelta(0.3, got.ToleranceMm, 1e-9)
}
