package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sevsizer/internal/chart/models"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/sentinel"
)

// PostgresStore persists rule configs in PostgreSQL, keyed by chart.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed config store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, chartID domain.ChartID) (*models.RuleConfig, error) {
	query := `
		SELECT chart_id, between_sizes_policy, tolerance_mm, updated_at
		FROM rule_configs
		WHERE chart_id = $1
	`
	var cfg models.RuleConfig
	err := s.db.QueryRowContext(ctx, query, chartID.String()).Scan(
		&cfg.ChartID, &cfg.BetweenSizesPolicy, &cfg.ToleranceMm, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get config: %w", err)
	}
	return &cfg, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, cfg *models.RuleConfig) error {
	query := `
		INSERT INTO rule_configs (chart_id, between_sizes_policy, tolerance_mm, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (chart_id) DO UPDATE
		SET between_sizes_policy = EXCLUDED.between_sizes_policy,
		    tolerance_mm = EXCLUDED.tolerance_mm,
		    updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		cfg.ChartID.String(),
		cfg.BetweenSizesPolicy.String(),
		cfg.ToleranceMm,
		cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert config: %w", err)
	}
	return nil
}
