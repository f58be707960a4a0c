package rule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sevsizer/internal/chart/models"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/sentinel"
)

// PostgresStore persists size rules in PostgreSQL. IDs come from the
// table's sequence.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed rule store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, r *models.SizeRule) error {
	query := `
		INSERT INTO size_rules (chart_id, finger, min_width_mm, max_width_mm, mapped_size, priority, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var id int64
	err := s.db.QueryRowContext(ctx, query,
		r.ChartID.String(),
		r.Finger.String(),
		r.MinWidthMm,
		r.MaxWidthMm,
		r.MappedSize,
		r.Priority,
		r.Active,
		r.CreatedAt,
		r.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert rule: %w", err)
	}
	r.ID = domain.RuleID(id)
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, chartID domain.ChartID, id domain.RuleID) (*models.SizeRule, error) {
	query := `
		SELECT id, chart_id, finger, min_width_mm, max_width_mm, mapped_size, priority, active, created_at, updated_at
		FROM size_rules
		WHERE id = $1 AND chart_id = $2
	`
	var r models.SizeRule
	err := s.db.QueryRowContext(ctx, query, int64(id), chartID.String()).Scan(
		&r.ID, &r.ChartID, &r.Finger, &r.MinWidthMm, &r.MaxWidthMm, &r.MappedSize, &r.Priority, &r.Active, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get rule: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) Update(ctx context.Context, r *models.SizeRule) error {
	query := `
		UPDATE size_rules
		SET finger = $3, min_width_mm = $4, max_width_mm = $5, mapped_size = $6, priority = $7, active = $8, updated_at = $9
		WHERE id = $1 AND chart_id = $2
	`
	result, err := s.db.ExecContext(ctx, query,
		int64(r.ID),
		r.ChartID.String(),
		r.Finger.String(),
		r.MinWidthMm,
		r.MaxWidthMm,
		r.MappedSize,
		r.Priority,
		r.Active,
		r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update rule: %w", err)
	}
	return checkAffected(result, "update rule")
}

func (s *PostgresStore) Delete(ctx context.Context, chartID domain.ChartID, id domain.RuleID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM size_rules WHERE id = $1 AND chart_id = $2`,
		int64(id), chartID.String(),
	)
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	return checkAffected(result, "delete rule")
}

// ListByChart returns every rule for the chart, ID ascending.
func (s *PostgresStore) ListByChart(ctx context.Context, chartID domain.ChartID) ([]models.SizeRule, error) {
	return s.list(ctx, chartID, false)
}

// ListActive returns the chart's active rules, ID ascending.
func (s *PostgresStore) ListActive(ctx context.Context, chartID domain.ChartID) ([]models.SizeRule, error) {
	return s.list(ctx, chartID, true)
}

func (s *PostgresStore) list(ctx context.Context, chartID domain.ChartID, activeOnly bool) ([]models.SizeRule, error) {
	query := `
		SELECT id, chart_id, finger, min_width_mm, max_width_mm, mapped_size, priority, active, created_at, updated_at
		FROM size_rules
		WHERE chart_id = $1
	`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, chartID.String())
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	out := make([]models.SizeRule, 0, 16)
	for rows.Next() {
		var r models.SizeRule
		if err := rows.Scan(&r.ID, &r.ChartID, &r.Finger, &r.MinWidthMm, &r.MaxWidthMm, &r.MappedSize, &r.Priority, &r.Active, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list rules: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return out, nil
}

func checkAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
