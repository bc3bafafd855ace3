package build

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeTx records executed statements. Methods not overridden panic through
// the nil embedded interface.
type fakeTx struct {
	pgx.Tx

	failOn     string
	statements []string
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.statements = append(f.statements, sql)
	if f.failOn != "" && strings.HasPrefix(sql, f.failOn) {
		return pgconn.CommandTag{}, errors.New("syntax error")
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeTx) Commit(ctx context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	if f.committed {
		return pgx.ErrTxClosed
	}
	f.rolledBack = true
	return nil
}

type fakeBeginner struct {
	txs []*fakeTx

	failOn string
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	tx := &fakeTx{failOn: b.failOn}
	b.txs = append(b.txs, tx)
	return tx, nil
}

func testModel() Model {
	return Model{
		Name:       "fact_orders",
		Query:      "SELECT order_id FROM stg_orders",
		PrimaryKey: []string{"order_id"},
	}
}

func TestStatements(t *testing.T) {
	stmts := testModel().Statements()

	if len(stmts) != 3 {
		t.Fatalf("Expected 3 statements, got %d", len(stmts))
	}
	if stmts[0] != `DROP TABLE IF EXISTS "fact_orders"` {
		t.Errorf("Unexpected drop statement: %s", stmts[0])
	}
	if !strings.HasPrefix(stmts[1], `CREATE TABLE "fact_orders" AS`) {
		t.Errorf("Unexpected create statement: %s", stmts[1])
	}
	if !strings.Contains(stmts[1], "SELECT order_id FROM stg_orders") {
		t.Errorf("Create statement lost the query: %s", stmts[1])
	}
	if stmts[2] != `ALTER TABLE "fact_orders" ADD PRIMARY KEY ("order_id")` {
		t.Errorf("Unexpected primary key statement: %s", stmts[2])
	}
}

func TestStatementsWithoutPrimaryKey(t *testing.T) {
	m := Model{Name: "stg_items", Query: "SELECT 1"}
	if n := len(m.Statements()); n != 2 {
		t.Errorf("Expected 2 statements, got %d", n)
	}
}

func TestRebuildCommits(t *testing.T) {
	b := &fakeBeginner{}

	if err := Rebuild(context.Background(), b, "mart", testModel()); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	if len(b.txs) != 1 {
		t.Fatalf("Expected one transaction, got %d", len(b.txs))
	}
	tx := b.txs[0]
	if !tx.committed {
		t.Error("Expected transaction to be committed")
	}
	if tx.rolledBack {
		t.Error("Transaction should not be rolled back")
	}
	if len(tx.statements) != 3 {
		t.Errorf("Expected 3 statements in transaction, got %d", len(tx.statements))
	}
}

func TestRebuildRollsBackOnFailure(t *testing.T) {
	b := &fakeBeginner{failOn: "CREATE TABLE"}

	err := Rebuild(context.Background(), b, "mart", testModel())
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "fact_orders") {
		t.Errorf("Error should name the table: %v", err)
	}

	tx := b.txs[0]
	if tx.committed {
		t.Error("Failed build must not commit")
	}
	if !tx.rolledBack {
		t.Error("Failed build must roll back")
	}
	// DROP ran, CREATE failed, ALTER never attempted
	if len(tx.statements) != 2 {
		t.Errorf("Expected 2 statements before failure, got %d", len(tx.statements))
	}
}

func TestRebuildAllStopsAtFirstFailure(t *testing.T) {
	b := &fakeBeginner{failOn: "CREATE TABLE"}
	models := []Model{testModel(), {Name: "dim_date", Query: "SELECT 1"}}

	built, err := RebuildAll(context.Background(), b, "mart", models)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if built != 0 {
		t.Errorf("Expected 0 tables built, got %d", built)
	}
	if len(b.txs) != 1 {
		t.Errorf("Expected later models to be skipped, got %d transactions", len(b.txs))
	}
}

func TestRebuildAllHonoursCancellation(t *testing.T) {
	b := &fakeBeginner{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RebuildAll(ctx, b, "mart", []Model{testModel()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(b.txs) != 0 {
		t.Error("No transaction should start after cancellation")
	}
}

func TestSelect(t *testing.T) {
	models := []Model{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	all, err := Select(models, nil)
	if err != nil || len(all) != 3 {
		t.Fatalf("Expected all models, got %d (%v)", len(all), err)
	}

	subset, err := Select(models, []string{"c", "a"})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(subset) != 2 || subset[0].Name != "a" || subset[1].Name != "c" {
		t.Errorf("Expected [a c] in model order, got %v", subset)
	}

	if _, err := Select(models, []string{"a", "nope"}); err == nil {
		t.Error("Expected error for unknown table")
	}
}
