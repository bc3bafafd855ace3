//-------------------------------------------------------------------------
//
// pgEdge Olist ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package raw loads the Olist CSV extracts into the raw tables.
package raw

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-olist-etl/internal/db"
	"github.com/pgEdge/pgedge-olist-etl/internal/logging"
)

// Config configures a Loader.
type Config struct {
	// DataDir is the directory holding the CSV extracts.
	DataDir string

	// GeolocationBatchSize is the number of rows per geolocation INSERT.
	GeolocationBatchSize int

	// ProgressInterval is how often (in rows) progress is logged.
	ProgressInterval int64
}

// Result describes one loaded table.
type Result struct {
	Table     string
	Rows      int
	Nullified int
	Duration  time.Duration
}

// Loader appends CSV extracts to the raw tables.
type Loader struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewLoader creates a loader.
func NewLoader(pool *pgxpool.Pool, cfg Config) *Loader {
	return &Loader{pool: pool, cfg: cfg}
}

// LoadAll loads every source in dependency order. The first failure stops
// the load; tables after it are not attempted.
func (l *Loader) LoadAll(ctx context.Context) ([]Result, error) {
	sources := Sources(l.cfg.GeolocationBatchSize)
	results := make([]Result, 0, len(sources))

	for _, src := range sources {
		res, err := l.Load(ctx, src)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	logging.Info().Int("tables", len(results)).Msg("All raw tables loaded")
	return results, nil
}

// Load reads one source file and appends all of its rows to the table in a
// single transaction.
func (l *Loader) Load(ctx context.Context, src Source) (Result, error) {
	start := time.Now()
	path := filepath.Join(l.cfg.DataDir, src.File)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, fmt.Errorf("load %s: source file not found: %w", src.Table, err)
		}
		return Result{}, fmt.Errorf("load %s: %w", src.Table, err)
	}

	rows, err := src.Decode(data)
	if err != nil {
		return Result{}, fmt.Errorf("load %s: %w", src.Table, err)
	}

	res := Result{Table: src.Table, Rows: len(rows)}

	if src.Table == "products" {
		valid, err := CategoryNames(ctx, l.pool)
		if err != nil {
			return Result{}, fmt.Errorf("load %s: %w", src.Table, err)
		}
		res.Nullified = fixProductCategories(rows, valid)
	}

	progress := NewProgressReporter(src.Table, int64(len(rows)), l.cfg.ProgressInterval)
	err = db.WithTx(ctx, l.pool, func(tx pgx.Tx) error {
		return insertRows(ctx, tx, src, rows, progress)
	})
	if err != nil {
		return Result{}, fmt.Errorf("load %s: %w", src.Table, err)
	}

	res.Duration = time.Since(start)
	logging.Info().
		Str("table", src.Table).
		Int("rows", res.Rows).
		Dur("duration", res.Duration).
		Msg("Loaded table")

	return res, nil
}

// insertRows appends rows with multi-row INSERT statements.
func insertRows(ctx context.Context, q db.Querier, src Source, rows []Row, progress *ProgressReporter) error {
	batchSize := src.RowsPerStatement()

	for offset := 0; offset < len(rows); offset += batchSize {
		end := min(offset+batchSize, len(rows))
		batch := rows[offset:end]

		args := make([]any, 0, len(batch)*len(src.Columns))
		for _, r := range batch {
			args = append(args, r.Values()...)
		}

		if _, err := q.Exec(ctx, insertSQL(src.Table, src.Columns, len(batch)), args...); err != nil {
			return fmt.Errorf("insert rows %d-%d: %w", offset+1, end, err)
		}
		progress.Update(int64(len(batch)))
	}

	return nil
}

// insertSQL builds INSERT INTO table (cols) VALUES ($1, ...), (...) for n rows.
func insertSQL(table string, columns []string, n int) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(pgx.Identifier{table}.Sanitize())
	b.WriteString(" (")
	b.WriteString(strings.Join(quoted, ", "))
	b.WriteString(") VALUES ")

	param := 1
	for row := 0; row < n; row++ {
		if row > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for col := range columns {
			if col > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(param))
			param++
		}
		b.WriteByte(')')
	}

	return b.String()
}

// Truncate empties every raw table. It is meant for local databases and
// tests; all loaded data is lost.
func Truncate(ctx context.Context, pool *pgxpool.Pool) error {
	tables := Tables()
	quoted := make([]string, len(tables))
	// Dependents first, so the statement reads in foreign key order.
	for i, t := range tables {
		quoted[len(tables)-1-i] = pgx.Identifier{t}.Sanitize()
	}

	stmt := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))
	return db.WithTx(ctx, pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, stmt)
		return err
	})
}
