package recommendation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"sevsizer/internal/sizing"
	"sevsizer/pkg/domain"
	"sevsizer/pkg/platform/sentinel"
)

// PostgresStore persists recommendations in PostgreSQL. The per-finger
// results and the ranked set matches are stored as JSONB so a stored
// recommendation reproduces the full response without recomputation.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed recommendation store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, rec sizing.Recommendation) error {
	perFinger, err := json.Marshal(rec.PerFinger)
	if err != nil {
		return fmt.Errorf("marshal per-finger results: %w", err)
	}
	matchingSets, err := json.Marshal(rec.MatchingSets)
	if err != nil {
		return fmt.Errorf("marshal matching sets: %w", err)
	}
	query := `
		INSERT INTO recommendations (id, measurement_id, chart_id, size_profile, per_finger, matching_sets, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query,
		rec.ID.String(),
		rec.MeasurementID.String(),
		rec.ChartID.String(),
		rec.Profile,
		perFinger,
		matchingSets,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert recommendation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert recommendation: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id domain.RecommendationID) (sizing.Recommendation, error) {
	query := `
		SELECT id, measurement_id, chart_id, size_profile, per_finger, matching_sets, created_at
		FROM recommendations
		WHERE id = $1
	`
	rec, err := scanRecommendation(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sizing.Recommendation{}, sentinel.ErrNotFound
		}
		return sizing.Recommendation{}, fmt.Errorf("get recommendation: %w", err)
	}
	return rec, nil
}

// ListByMeasurement returns the measurement's recommendations newest first.
func (s *PostgresStore) ListByMeasurement(ctx context.Context, measurementID domain.MeasurementID) ([]sizing.Recommendation, error) {
	query := `
		SELECT id, measurement_id, chart_id, size_profile, per_finger, matching_sets, created_at
		FROM recommendations
		WHERE measurement_id = $1
		ORDER BY created_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query, measurementID.String())
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()

	var recs []sizing.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("list recommendations: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	return recs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecommendation(row rowScanner) (sizing.Recommendation, error) {
	var (
		rec          sizing.Recommendation
		id           string
		measurement  string
		chart        string
		perFinger    []byte
		matchingSets []byte
	)
	err := row.Scan(&id, &measurement, &chart, &rec.Profile, &perFinger, &matchingSets, &rec.CreatedAt)
	if err != nil {
		return sizing.Recommendation{}, err
	}
	rec.ID = domain.RecommendationID(id)
	rec.MeasurementID = domain.MeasurementID(measurement)
	rec.ChartID = domain.ChartID(chart)
	if err := json.Unmarshal(perFinger, &rec.PerFinger); err != nil {
		return sizing.Recommendation{}, fmt.Errorf("unmarshal per-finger results: %w", err)
	}
	if len(matchingSets) > 0 {
		if err := json.Unmarshal(matchingSets, &rec.MatchingSets); err != nil {
			return sizing.Recommendation{}, fmt.Errorf("unmarshal matching sets: %w", err)
		}
	}
	return rec, nil
}
