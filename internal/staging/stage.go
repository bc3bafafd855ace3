// Package staging rebuilds the cleaned stg_* tables from the raw tables.
package staging

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-olist-etl/internal/build"
	"github.com/pgEdge/pgedge-olist-etl/internal/pipeline"
)

const layer = "staging"

// Stage implements pipeline.Stage for the staging layer.
type Stage struct{}

// New creates the staging stage.
func New() *Stage {
	return &Stage{}
}

// Name returns the stage name.
func (s *Stage) Name() string {
	return pipeline.StageStaging
}

// Description returns a human-readable description.
func (s *Stage) Description() string {
	return "Rebuild stg_* tables from the raw tables (normalized cities, derived flags)"
}

// Tables returns the staging tables in build order.
func (s *Stage) Tables() []string {
	models := Models()
	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name
	}
	return names
}

// Run rebuilds the selected staging tables.
func (s *Stage) Run(ctx context.Context, pool *pgxpool.Pool, opts pipeline.Options) (int64, error) {
	if len(opts.Tables) == 0 {
		built, err := BuildAll(ctx, pool)
		return int64(built), err
	}
	built, err := Build(ctx, pool, opts.Tables...)
	return int64(built), err
}

// BuildAll rebuilds every staging table.
func BuildAll(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	return Build(ctx, pool)
}

// Build rebuilds the named staging tables, or all of them when none are
// named. Unknown names are rejected before anything is dropped.
func Build(ctx context.Context, pool *pgxpool.Pool, tables ...string) (int, error) {
	models, err := build.Select(Models(), tables)
	if err != nil {
		return 0, err
	}
	return build.RebuildAll(ctx, pool, layer, models)
}

func init() {
	pipeline.Register(New())
}
