package raw

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-olist-etl/internal/pipeline"
)

// Stage implements pipeline.Stage for the raw CSV load.
type Stage struct{}

// New creates the raw load stage.
func New() *Stage {
	return &Stage{}
}

// Name returns the stage name.
func (s *Stage) Name() string {
	return pipeline.StageRaw
}

// Description returns a human-readable description.
func (s *Stage) Description() string {
	return "Append the Olist CSV extracts to the raw tables"
}

// Tables returns the raw tables in load order.
func (s *Stage) Tables() []string {
	return Tables()
}

// Run loads every source file and returns the total number of rows loaded.
func (s *Stage) Run(ctx context.Context, pool *pgxpool.Pool, opts pipeline.Options) (int64, error) {
	loader := NewLoader(pool, Config{
		DataDir:              opts.DataDir,
		GeolocationBatchSize: opts.GeolocationBatchSize,
		ProgressInterval:     opts.ProgressInterval,
	})

	results, err := loader.LoadAll(ctx)

	var total int64
	for _, r := range results {
		total += int64(r.Rows)
	}
	return total, err
}

func init() {
	pipeline.Register(New())
}
