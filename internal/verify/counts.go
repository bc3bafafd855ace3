//-------------------------------------------------------------------------
//
// pgEdge Olist ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package verify checks loaded and built tables against their inputs.
package verify

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-olist-etl/internal/db"
	"github.com/pgEdge/pgedge-olist-etl/internal/raw"
)

// TableCount compares a source file with its raw table.
type TableCount struct {
	Table   string
	File    string
	CSVRows int64
	DBRows  int64
}

// Match reports whether every record in the file reached the table.
func (c TableCount) Match() bool {
	return c.CSVRows == c.DBRows
}

// CountCSVRecords returns the number of data records in a CSV file. The
// header is not counted and a quoted field spanning lines counts once.
func CountCSVRecords(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	var n int64
	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", path, err)
		}
		n++
	}

	if n == 0 {
		return 0, nil
	}
	return n - 1, nil
}

// CountRows returns SELECT COUNT(*) for a table.
func CountRows(ctx context.Context, pool *pgxpool.Pool, table string) (int64, error) {
	var n int64
	err := db.WithConn(ctx, pool, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, "SELECT COUNT(*) FROM "+pgx.Identifier{table}.Sanitize()).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// ReconcileRowCounts compares every source file in dataDir with its raw
// table. A missing file is an error.
func ReconcileRowCounts(ctx context.Context, pool *pgxpool.Pool, dataDir string) ([]TableCount, error) {
	var counts []TableCount

	for _, src := range raw.Sources(0) {
		path := filepath.Join(dataDir, src.File)

		csvRows, err := CountCSVRecords(path)
		if err != nil {
			return counts, fmt.Errorf("%s: %w", src.Table, err)
		}

		dbRows, err := CountRows(ctx, pool, src.Table)
		if err != nil {
			return counts, err
		}

		counts = append(counts, TableCount{
			Table:   src.Table,
			File:    src.File,
			CSVRows: csvRows,
			DBRows:  dbRows,
		})
	}

	return counts, nil
}
