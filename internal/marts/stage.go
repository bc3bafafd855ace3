// Package marts rebuilds the star schema (fact_orders, fact_daily_orders,
// dim_date) from the staging tables.
package marts

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-olist-etl/internal/build"
	"github.com/pgEdge/pgedge-olist-etl/internal/pipeline"
)

const layer = "mart"

// Stage implements pipeline.Stage for the mart layer.
type Stage struct{}

// New creates the mart stage.
func New() *Stage {
	return &Stage{}
}

// Name returns the stage name.
func (s *Stage) Name() string {
	return pipeline.StageMarts
}

// Description returns a human-readable description.
func (s *Stage) Description() string {
	return "Rebuild fact_orders, fact_daily_orders and dim_date from staging"
}

// Tables returns the mart tables in build order.
func (s *Stage) Tables() []string {
	models := Models()
	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name
	}
	return names
}

// Run rebuilds the selected mart tables.
func (s *Stage) Run(ctx context.Context, pool *pgxpool.Pool, opts pipeline.Options) (int64, error) {
	if len(opts.Tables) == 0 {
		built, err := BuildAll(ctx, pool)
		return int64(built), err
	}
	built, err := Build(ctx, pool, opts.Tables...)
	return int64(built), err
}

// BuildAll rebuilds fact_orders, fact_daily_orders and dim_date in order.
func BuildAll(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	return Build(ctx, pool)
}

// Build rebuilds the named mart tables (all when none are named), always
// in dependency order.
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
