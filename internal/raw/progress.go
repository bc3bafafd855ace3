package raw

import (
	"github.com/pgEdge/pgedge-olist-etl/internal/logging"
)

// ProgressReporter tracks and reports insert progress for one table.
type ProgressReporter struct {
	tableName        string
	totalRows        int64
	currentRow       int64
	progressInterval int64
}

// NewProgressReporter creates a new progress reporter. A non-positive
// interval disables progress lines.
func NewProgressReporter(tableName string, totalRows int64, interval int64) *ProgressReporter {
	return &ProgressReporter{
		tableName:        tableName,
		totalRows:        totalRows,
		progressInterval: interval,
	}
}

// Update adds inserted rows and logs when an interval boundary is crossed.
func (p *ProgressReporter) Update(rowsInserted int64) bool {
	oldRow := p.currentRow
	p.currentRow += rowsInserted

	if p.progressInterval <= 0 || p.currentRow >= p.totalRows {
		return false
	}
	if p.currentRow/p.progressInterval == oldRow/p.progressInterval {
		return false
	}

	pct := float64(p.currentRow) / float64(p.totalRows) * 100
	logging.Info().
		Str("table", p.tableName).
		Int64("rows", p.currentRow).
		Int64("total", p.totalRows).
		Float64("percent", pct).
		Msg("Loading rows")
	return true
}

// Rows returns the number of rows reported so far.
func (p *ProgressReporter) Rows() int64 {
	return p.currentRow
}
