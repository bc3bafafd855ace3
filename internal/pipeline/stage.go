// Package pipeline defines the stage interface and the ordered runner that
// chains the raw load, staging and mart stages.
package pipeline

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Stage names, in execution order.
const (
	StageRaw     = "raw"
	StageStaging = "staging"
	StageMarts   = "marts"
)

// Sequence is the order a cold build runs the stages in.
var Sequence = []string{StageRaw, StageStaging, StageMarts}

// Options holds the settings a stage run may use.
type Options struct {
	// DataDir is the directory holding the raw CSV extracts.
	DataDir string

	// GeolocationBatchSize is the number of rows per geolocation INSERT.
	GeolocationBatchSize int

	// ProgressInterval is how often (in rows) load progress is logged.
	ProgressInterval int64

	// Tables restricts a build stage to the named tables. Empty means all.
	Tables []string
}

// Stage defines the interface that every pipeline stage implements.
type Stage interface {
	// Name returns the stage name.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Tables returns the tables the stage writes, in build order.
	Tables() []string

	// Run executes the stage. The returned count is rows loaded for the raw
	// stage and tables built for the others.
	Run(ctx context.Context, pool *pgxpool.Pool, opts Options) (int64, error)
}
