package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/opscart/k8s-probe-analyzer/pkg/models"
)

//go:embed migrations/*.sql
var postgresFS embed.FS

// PostgresStore implements Store interface using PostgreSQL
type PostgresStore struct {
	db  *sql.DB
	dsn string
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{
		db:  db,
		dsn: dsn,
	}

	// Run migrations
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// migrate runs database migrations
func (s *PostgresStore) migrate() error {
	schema, err := postgresFS.ReadFile("migrations/001_postgres_schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// SaveRun persists one analysis run and its recommendations in a
// single transaction
func (s *PostgresStore) SaveRun(ctx context.Context, run *models.AnalysisRun, recommendations []*models.Recommendation) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	runQuery := `
		INSERT INTO probe_analysis_runs (
			id, prometheus_url, total, high_impact, medium_impact, low_impact, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.ExecContext(ctx, runQuery,
		run.ID, run.PrometheusURL,
		run.Summary.Total, run.Summary.HighImpact,
		run.Summary.MediumImpact, run.Summary.LowImpact,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	recQuery := `
		INSERT INTO probe_recommendations (
			id, run_id, namespace, pod, container, probe_type,
			p99_duration_seconds, violation_percentage, current_impact,
			recommended_timeout_seconds, patch_required, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	for _, rec := range recommendations {
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		rec.RunID = run.ID
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = run.CreatedAt
		}

		_, err = tx.ExecContext(ctx, recQuery,
			rec.ID, rec.RunID, rec.Namespace, rec.Pod, rec.Container, rec.ProbeType,
			rec.P99Duration, rec.ViolationPercentage, rec.CurrentImpact,
			rec.RecommendedTimeout, rec.PatchRequired, rec.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert recommendation: %w", err)
		}
	}

	return tx.Commit()
}

// ListRecommendations retrieves recent recommendations for a namespace
func (s *PostgresStore) ListRecommendations(ctx context.Context, namespace string, limit int) ([]*models.Recommendation, error) {
	query := `
		SELECT id, run_id, namespace, pod, container, probe_type,
			p99_duration_seconds, violation_percentage, current_impact,
			recommended_timeout_seconds, patch_required, created_at
		FROM probe_recommendations
		WHERE namespace = $1
		ORDER BY created_at DESC, violation_percentage DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, namespace, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recommendations []*models.Recommendation
	for rows.Next() {
		var rec models.Recommendation

		err := rows.Scan(
			&rec.ID, &rec.RunID, &rec.Namespace, &rec.Pod, &rec.Container, &rec.ProbeType,
			&rec.P99Duration, &rec.ViolationPercentage, &rec.CurrentImpact,
			&rec.RecommendedTimeout, &rec.PatchRequired, &rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		recommendations = append(recommendations, &rec)
	}

	return recommendations, rows.Err()
}

// Ping checks database connectivity
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
