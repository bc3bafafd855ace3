//-------------------------------------------------------------------------
//
// pgEdge Olist ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package build materializes derived tables from SELECT queries. Every
// rebuild drops the target, recreates it and adds its primary key inside a
// single transaction, so a failed build leaves the previous table in place.
package build

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pgEdge/pgedge-olist-etl/internal/db"
	"github.com/pgEdge/pgedge-olist-etl/internal/logging"
)

// Model is a table materialized from a query.
type Model struct {
	// Name is the target table name.
	Name string

	// Description describes the table grain and purpose.
	Description string

	// Query is the SELECT whose result becomes the table.
	Query string

	// PrimaryKey columns are added as a constraint after population.
	PrimaryKey []string
}

// Statements returns the SQL executed by Rebuild, in order.
func (m Model) Statements() []string {
	table := pgx.Identifier{m.Name}.Sanitize()

	stmts := []string{
		"DROP TABLE IF EXISTS " + table,
		"CREATE TABLE " + table + " AS\n" + strings.TrimSpace(m.Query),
	}

	if len(m.PrimaryKey) > 0 {
		cols := make([]string, len(m.PrimaryKey))
		for i, c := range m.PrimaryKey {
			cols[i] = pgx.Identifier{c}.Sanitize()
		}
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD PRIMARY KEY (%s)",
			table, strings.Join(cols, ", ")))
	}

	return stmts
}

// Rebuild drops and recreates the model's table in one transaction.
func Rebuild(ctx context.Context, conn db.Beginner, layer string, m Model) error {
	start := time.Now()

	err := db.WithTx(ctx, conn, func(tx pgx.Tx) error {
		for _, stmt := range m.Statements() {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to build %s: %w", m.Name, err)
	}

	logging.Info().
		Str("layer", layer).
		Str("table", m.Name).
		Dur("duration", time.Since(start)).
		Msg("Built table")

	return nil
}

// RebuildAll rebuilds models in order and stops at the first failure.
// It returns the number of tables built.
func RebuildAll(ctx context.Context, conn db.Beginner, layer string, models []Model) (int, error) {
	for i, m := range models {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := Rebuild(ctx, conn, layer, m); err != nil {
			return i, err
		}
	}
	return len(models), nil
}

// Select returns the models with the given names, preserving the order of
// models rather than names. Unknown names are an error. An empty names list
// selects every model.
func Select(models []Model, names []string) ([]Model, error) {
	if len(names) == 0 {
		return models, nil
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = false
	}

	var selected []Model
	for _, m := range models {
		if _, ok := want[m.Name]; ok {
			want[m.Name] = true
			selected = append(selected, m)
		}
	}

	for _, n := range names {
		if !want[n] {
			return nil, fmt.Errorf("unknown table: %s", n)
		}
	}

	return selected, nil
}
