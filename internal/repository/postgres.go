package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"quotation/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// ErrArtifactNotFound is returned when no artifact has the requested name
var ErrArtifactNotFound = errors.New("model artifact not found")

const schemaDDL = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS model_artifacts (
	id                  BIGSERIAL PRIMARY KEY,
	name                TEXT NOT NULL UNIQUE,
	variant             TEXT NOT NULL DEFAULT 'full',
	kind                TEXT NOT NULL,
	feature_columns     TEXT[] NOT NULL,
	feature_importances vector NOT NULL,
	feature_weights     DOUBLE PRECISION[] NOT NULL DEFAULT '{}',
	params              JSONB,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
ALTER TABLE model_artifacts ALTER COLUMN feature_importances SET NOT NULL;
ALTER TABLE model_artifacts ADD COLUMN IF NOT EXISTS feature_weights DOUBLE PRECISION[] NOT NULL DEFAULT '{}';
`

const artifactColumns = `id, name, variant, kind, feature_columns, feature_importances, feature_weights, params, created_at, updated_at`

// PostgresRepository stores trained model artifacts
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		if !strings.Contains(dsn, "?") {
			dsn += "?prefer_simple_protocol=true"
		} else {
			dsn += "&prefer_simple_protocol=true"
		}
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewPostgresRepositoryFromDB(db), nil
}

// NewPostgresRepositoryFromDB wraps an existing connection
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the artifact table if it does not exist
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// GetArtifact retrieves a single artifact by name
func (r *PostgresRepository) GetArtifact(ctx context.Context, name string) (*model.ModelArtifact, error) {
	var artifact model.ModelArtifact
	query := `SELECT ` + artifactColumns + ` FROM model_artifacts WHERE name = $1`
	err := r.db.GetContext(ctx, &artifact, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrArtifactNotFound, name)
		}
		return nil, fmt.Errorf("failed to get artifact: %w", err)
	}
	return &artifact, nil
}

// ListArtifacts returns every stored artifact, newest first
func (r *PostgresRepository) ListArtifacts(ctx context.Context) ([]model.ModelArtifact, error) {
	var artifacts []model.ModelArtifact
	query := `SELECT ` + artifactColumns + ` FROM model_artifacts ORDER BY updated_at DESC`
	if err := r.db.SelectContext(ctx, &artifacts, query); err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return artifacts, nil
}

// SaveArtifact inserts or replaces an artifact by name and returns its id
func (r *PostgresRepository) SaveArtifact(ctx context.Context, artifact *model.ModelArtifact, importances []float64) (int64, error) {
	weights := make([]float32, len(importances))
	for i, w := range importances {
		weights[i] = float32(w)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO model_artifacts (name, variant, kind, feature_columns, feature_importances, feature_weights, params)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name) DO UPDATE SET
			variant = EXCLUDED.variant,
			kind = EXCLUDED.kind,
			feature_columns = EXCLUDED.feature_columns,
			feature_importances = EXCLUDED.feature_importances,
			feature_weights = EXCLUDED.feature_weights,
			params = EXCLUDED.params,
			updated_at = NOW()
		RETURNING id
	`
	var id int64
	err = tx.QueryRowxContext(ctx, query,
		artifact.Name,
		artifact.Variant,
		artifact.Kind,
		pq.Array([]string(artifact.FeatureColumns)),
		pgvector.NewVector(weights),
		pq.Array(importances),
		artifact.Params,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save artifact: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}
