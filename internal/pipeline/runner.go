//-------------------------------------------------------------------------
//
// pgEdge Olist ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-olist-etl/internal/db"
	"github.com/pgEdge/pgedge-olist-etl/internal/logging"
)

// Result summarises one stage run.
type Result struct {
	Stage    string
	Count    int64
	Duration time.Duration
}

// Run executes the named stages in Sequence order, whatever order names are
// given in. Execution stops at the first failing stage; stages after it are
// not attempted. Each completed stage is recorded in the metadata table.
func Run(ctx context.Context, pool *pgxpool.Pool, names []string, opts Options) ([]Result, error) {
	stages, err := ordered(names)
	if err != nil {
		return nil, err
	}

	runID := db.NewRunID()
	results := make([]Result, 0, len(stages))

	for _, stage := range stages {
		logging.Info().
			Str("stage", stage.Name()).
			Str("run_id", runID.String()).
			Msg("Starting stage")

		start := time.Now()
		count, err := stage.Run(ctx, pool, opts)
		if err != nil {
			logging.Error().Err(err).
				Str("stage", stage.Name()).
				Str("run_id", runID.String()).
				Msg("Stage failed")
			return results, fmt.Errorf("stage %s failed: %w", stage.Name(), err)
		}
		elapsed := time.Since(start)

		if err := db.SaveStageRun(ctx, pool, db.StageRun{
			RunID:    runID,
			Stage:    stage.Name(),
			Finished: time.Now(),
			Duration: elapsed,
			Count:    count,
		}); err != nil {
			logging.Warn().Err(err).Str("stage", stage.Name()).
				Msg("Could not record stage metadata")
		}

		logging.Info().
			Str("stage", stage.Name()).
			Int64("count", count).
			Dur("duration", elapsed).
			Msg("Stage complete")

		results = append(results, Result{Stage: stage.Name(), Count: count, Duration: elapsed})
	}

	return results, nil
}

// ordered resolves names to registered stages sorted by Sequence.
func ordered(names []string) ([]Stage, error) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if _, err := Get(n); err != nil {
			return nil, err
		}
		want[n] = true
	}

	var stages []Stage
	for _, n := range Sequence {
		if !want[n] {
			continue
		}
		stage, err := Get(n)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return stages, nil
}
