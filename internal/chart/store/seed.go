// Package store seeds freshly created chart stores. The concrete
// rule/config/catalog/set stores live in the subpackages.
package store

import (
	"context"
	"fmt"
	"time"

	"sevsizer/internal/chart/models"
	"sevsizer/pkg/domain"
)

// Writer interfaces cover just the inserts seeding needs; both the memory
// and the PostgreSQL stores satisfy them.
type (
	RuleWriter interface {
		Insert(ctx context.Context, rule *models.SizeRule) error
	}
	ConfigWriter interface {
		Upsert(ctx context.Context, config *models.RuleConfig) error
	}
	CatalogWriter interface {
		Insert(ctx context.Context, size *models.CatalogSize) error
	}
	SetWriter interface {
		Insert(ctx context.Context, set *models.SizeSet) error
	}
)

// defaultBands cover curve-adjusted nail widths from the widest thumbs to
// the narrowest pinkies. Size 0 is the widest. The 0.1mm gaps between
// bands are intentional; the tolerance fallback absorbs widths that land
// in them.
var defaultBands = []struct {
	min, max float64
	size     int
}{
	{17.1, 18.5, 0},
	{16.1, 17.0, 1},
	{15.1, 16.0, 2},
	{14.1, 15.0, 3},
	{13.1, 14.0, 4},
	{12.1, 13.0, 5},
	{11.1, 12.0, 6},
	{10.1, 11.0, 7},
	{9.1, 10.0, 8},
	{7.5, 9.0, 9},
}

var defaultSets = []struct {
	name       string
	sizes      models.FingerSizes
	variantRef string
}{
	{"Petite", models.FingerSizes{Thumb: 5, Index: 7, Middle: 6, Ring: 7, Pinky: 9}, "SEV-SET-PETITE"},
	{"Classic", models.FingerSizes{Thumb: 3, Index: 5, Middle: 4, Ring: 6, Pinky: 8}, "SEV-SET-CLASSIC"},
	{"Grande", models.FingerSizes{Thumb: 1, Index: 4, Middle: 3, Ring: 4, Pinky: 7}, "SEV-SET-GRANDE"},
}

// SeedDefault populates the default chart: one ALL rule per size band,
// the size-down config, a catalog label per size and three starter sets.
// Memory mode runs it at startup so the service answers recommendations
// without an operator loading a chart first; tests use it for a realistic
// fixture. It assumes empty stores.
func SeedDefault(ctx context.Context, rules RuleWriter, configs ConfigWriter, catalog CatalogWriter, sets SetWriter) error {
	now := time.Now().UTC()

	for _, band := range defaultBands {
		r, err := models.NewSizeRule(domain.DefaultChartID, models.ScopeAll, band.min, band.max, band.size, 0, now)
		if err != nil {
			return fmt.Errorf("seed rule for size %d: %w", band.size, err)
		}
		if err := rules.Insert(ctx, r); err != nil {
			return fmt.Errorf("seed rule for size %d: %w", band.size, err)
		}
	}

	cfg, err := models.NewRuleConfig(domain.DefaultChartID, models.PolicySizeDown, 0.3, now)
	if err != nil {
		return fmt.Errorf("seed config: %w", err)
	}
	if err := configs.Upsert(ctx, cfg); err != nil {
		return fmt.Errorf("seed config: %w", err)
	}

	for _, band := range defaultBands {
		c, err := models.NewCatalogSize(domain.DefaultChartID, band.size, fmt.Sprintf("Size %d", band.size), now)
		if err != nil {
			return fmt.Errorf("seed catalog size %d: %w", band.size, err)
		}
		if err := catalog.Insert(ctx, c); err != nil {
			return fmt.Errorf("seed catalog size %d: %w", band.size, err)
		}
	}

	for _, def := range defaultSets {
		set, err := models.NewSizeSet(domain.DefaultChartID, def.name, def.sizes, def.variantRef, now)
		if err != nil {
			return fmt.Errorf("seed set %s: %w", def.name, err)
		}
		if err := sets.Insert(ctx, set); err != nil {
			return fmt.Errorf("seed set %s: %w", def.name, err)
		}
	}

	return nil
}
