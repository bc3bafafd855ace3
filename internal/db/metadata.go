//-------------------------------------------------------------------------
//
// pgEdge Olist ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-olist-etl/internal/logging"
	"github.com/pgEdge/pgedge-olist-etl/pkg/version"
)

const metadataTable = "etl_metadata"

// createMetadataTableSQL creates the metadata table if it doesn't exist.
const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS etl_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// StageRun describes one completed pipeline stage.
type StageRun struct {
	RunID    uuid.UUID
	Stage    string
	Finished time.Time
	Duration time.Duration

	// Count is rows loaded for the raw stage, tables built otherwise.
	Count int64
}

// NewRunID returns a fresh identifier for a pipeline invocation.
func NewRunID() uuid.UUID {
	return uuid.New()
}

// SaveStageRun records the outcome of a stage under "<stage>.*" keys.
func SaveStageRun(ctx context.Context, q Querier, run StageRun) error {
	_, err := q.Exec(ctx, createMetadataTableSQL)
	if err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	metadata := map[string]string{
		run.Stage + ".run_id":      run.RunID.String(),
		run.Stage + ".finished_at": run.Finished.UTC().Format(time.RFC3339),
		run.Stage + ".duration":    run.Duration.Round(time.Millisecond).String(),
		run.Stage + ".count":       strconv.FormatInt(run.Count, 10),
		"version":                  version.Short(),
	}

	for key, value := range metadata {
		_, err := q.Exec(ctx, `
            INSERT INTO etl_metadata (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
        `, key, value)
		if err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Str("stage", run.Stage).
		Str("run_id", run.RunID.String()).
		Msg("Saved stage metadata")

	return nil
}

// ErrNoMetadata is returned by GetMetadataValue when the key is not set.
var ErrNoMetadata = errors.New("metadata key not found")

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, q Querier, key string) (string, error) {
	var value string
	err := q.QueryRow(ctx, `
        SELECT value FROM etl_metadata WHERE key = $1
    `, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrNoMetadata, key)
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, q Querier) (map[string]string, error) {
	rows, err := q.Query(ctx, `SELECT key, value FROM etl_metadata`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
	return err
}

// MetadataExists checks if the metadata table exists.
func MetadataExists(ctx context.Context, q Querier) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_schema = current_schema()
              AND table_name = $1
        )
    `, metadataTable).Scan(&exists)
	return exists, err
}
