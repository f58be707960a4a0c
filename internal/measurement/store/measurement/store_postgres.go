package measurement

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"sevsizer/internal/measurement/models"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/sentinel"
	txcontext "sevsizer/pkg/platform/tx"
)

// PostgresStore persists measurements in PostgreSQL. Finger payloads and
// warnings live in JSONB columns. Inserts join an open transaction when
// the context carries one, so a merged record and its audit event commit
// together.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed measurement store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Insert(ctx context.Context, m *models.Measurement) error {
	fingers, err := json.Marshal(m.Fingers)
	if err != nil {
		return fmt.Errorf("marshal fingers: %w", err)
	}
	warnings, err := json.Marshal(warningsOrEmpty(m.Warnings))
	if err != nil {
		return fmt.Errorf("marshal warnings: %w", err)
	}
	query := `
		INSERT INTO measurements (id, hand, photo_type, px_per_mm, fingers, overall_confidence, warnings, thumb_source_id, four_finger_source_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`
	result, err := s.execer(ctx).ExecContext(ctx, query,
		m.ID.String(),
		m.Hand.String(),
		m.PhotoType.String(),
		m.PxPerMm,
		fingers,
		m.OverallConfidence,
		warnings,
		nullableID(m.ThumbSourceID),
		nullableID(m.FourFingerSourceID),
		m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert measurement: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert measurement: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id domain.MeasurementID) (*models.Measurement, error) {
	query := `
		SELECT id, hand, photo_type, px_per_mm, fingers, overall_confidence, warnings, thumb_source_id, four_finger_source_id, created_at
		FROM measurements
		WHERE id = $1
	`
	m, err := scanMeasurement(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get measurement: %w", err)
	}
	return m, nil
}

// List returns newest-first summaries, at most limit.
func (s *PostgresStore) List(ctx context.Context, limit int) ([]models.Summary, error) {
	query := `
		SELECT id, hand, photo_type, px_per_mm, overall_confidence, created_at
		FROM measurements
		ORDER BY created_at DESC, id
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	defer rows.Close()

	summaries := make([]models.Summary, 0, limit)
	for rows.Next() {
		var (
			sum models.Summary
			id  string
		)
		if err := rows.Scan(&id, &sum.Hand, &sum.PhotoType, &sum.PxPerMm, &sum.OverallConfidence, &sum.CreatedAt); err != nil {
			return nil, fmt.Errorf("list measurements: %w", err)
		}
		sum.ID = domain.MeasurementID(id)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	return summaries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMeasurement(row rowScanner) (*models.Measurement, error) {
	var (
		m        models.Measurement
		id       string
		fingers  []byte
		warnings []byte
		thumbSrc sql.NullString
		fourSrc  sql.NullString
	)
	err := row.Scan(&id, &m.Hand, &m.PhotoType, &m.PxPerMm, &fingers, &m.OverallConfidence, &warnings, &thumbSrc, &fourSrc, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.ID = domain.MeasurementID(id)
	if err := json.Unmarshal(fingers, &m.Fingers); err != nil {
		return nil, fmt.Errorf("unmarshal fingers: %w", err)
	}
	if len(warnings) > 0 {
		var ws []string
		if err := json.Unmarshal(warnings, &ws); err != nil {
			return nil, fmt.Errorf("unmarshal warnings: %w", err)
		}
		if len(ws) > 0 {
			m.Warnings = ws
		}
	}
	if thumbSrc.Valid {
		src := domain.MeasurementID(thumbSrc.String)
		m.ThumbSourceID = &src
	}
	if fourSrc.Valid {
		src := domain.MeasurementID(fourSrc.String)
		m.FourFingerSourceID = &src
	}
	return &m, nil
}

// warningsOrEmpty keeps the warnings column a JSON array, never null.
func warningsOrEmpty(ws []string) []string {
	if ws == nil {
		return []string{}
	}
	return ws
}

func nullableID(id *domain.MeasurementID) any {
	if id == nil {
		return nil
	}
	return id.String()
}
