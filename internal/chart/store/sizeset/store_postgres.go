package sizeset

import (
	"context"
	"database/sql"
	"fmt"

	"sevsizer/internal/chart/models"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/sentinel"
)

// PostgresStore persists size sets in PostgreSQL. The five finger sizes
// are plain columns; sets are small and fixed-shape.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed set store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, set *models.SizeSet) error {
	query := `
		INSERT INTO size_sets (chart_id, name, thumb_size, index_size, middle_size, ring_size, pinky_size, variant_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var id int64
	err := s.db.QueryRowContext(ctx, query,
		set.ChartID.String(),
		set.Name,
		set.Sizes.Thumb,
		set.Sizes.Index,
		set.Sizes.Middle,
		set.Sizes.Ring,
		set.Sizes.Pinky,
		set.VariantRef,
		set.CreatedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert set: %w", err)
	}
	set.ID = domain.SizeSetID(id)
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, chartID domain.ChartID, id domain.SizeSetID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM size_sets WHERE id = $1 AND chart_id = $2`,
		int64(id), chartID.String(),
	)
	if err != nil {
		return fmt.Errorf("delete set: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete set: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// ListByChart returns the chart's sets, ID ascending. The set matcher
// ranks ties by this order, so it has to be stable.
func (s *PostgresStore) ListByChart(ctx context.Context, chartID domain.ChartID) ([]models.SizeSet, error) {
	query := `
		SELECT id, chart_id, name, thumb_size, index_size, middle_size, ring_size, pinky_size, variant_ref, created_at
		FROM size_sets
		WHERE chart_id = $1
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, chartID.String())
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	out := make([]models.SizeSet, 0, 8)
	for rows.Next() {
		var set models.SizeSet
		if err := rows.Scan(&set.ID, &set.ChartID, &set.Name, &set.Sizes.Thumb, &set.Sizes.Index, &set.Sizes.Middle, &set.Sizes.Ring, &set.Sizes.Pinky, &set.VariantRef, &set.CreatedAt); err != nil {
			return nil, fmt.Errorf("list sets: %w", err)
		}
		out = append(out, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	return out, nil
}
