package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sevsizer/internal/chart/models"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/sentinel"
)

// PostgresStore persists catalog sizes in PostgreSQL. The
// (chart_id, size_number) unique constraint backs conflict detection.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed catalog store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, c *models.CatalogSize) error {
	// DO NOTHING on conflict makes the insert return no row, which is the
	// conflict signal.
	query := `
		INSERT INTO catalog_sizes (chart_id, size_number, label, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT catalog_sizes_chart_size_unique DO NOTHING
		RETURNING id
	`
	var id int64
	err := s.db.QueryRowContext(ctx, query,
		c.ChartID.String(),
		c.SizeNumber,
		c.Label,
		c.CreatedAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert catalog size: %w", err)
	}
	c.ID = domain.CatalogSizeID(id)
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, chartID domain.ChartID, id domain.CatalogSizeID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM catalog_sizes WHERE id = $1 AND chart_id = $2`,
		int64(id), chartID.String(),
	)
	if err != nil {
		return fmt.Errorf("delete catalog size: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete catalog size: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// ListByChart returns the chart's catalog, size number ascending.
func (s *PostgresStore) ListByChart(ctx context.Context, chartID domain.ChartID) ([]models.CatalogSize, error) {
	query := `
		SELECT id, chart_id, size_number, label, created_at
		FROM catalog_sizes
		WHERE chart_id = $1
		ORDER BY size_number
	`
	rows, err := s.db.QueryContext(ctx, query, chartID.String())
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	defer rows.Close()

	out := make([]models.CatalogSize, 0, 16)
	for rows.Next() {
		var c models.CatalogSize
		if err := rows.Scan(&c.ID, &c.ChartID, &c.SizeNumber, &c.Label, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("list catalog: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return out, nil
}
