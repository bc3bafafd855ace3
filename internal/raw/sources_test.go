package raw

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestSourcesOrder(t *testing.T) {
	want := []string{
		"customers", "geolocation", "categories", "sellers", "products",
		"orders", "items", "payments", "reviews",
	}

	got := Tables()
	if len(got) != len(want) {
		t.Fatalf("Expected %d tables, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d: expected '%s', got '%s'", i, want[i], got[i])
		}
	}
}

func TestSourcesColumnsMatchRows(t *testing.T) {
	for _, src := range Sources(10000) {
		t.Run(src.Table, func(t *testing.T) {
			header := strings.Join(src.Columns, ",")
			rows, err := src.Decode([]byte(header + "\n" + strings.Repeat(",", len(src.Columns)-1) + "\n"))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if len(rows) != 1 {
				t.Fatalf("Expected 1 row, got %d", len(rows))
			}
			values := rows[0].Values()
			if len(values) != len(src.Columns) {
				t.Fatalf("Expected %d values, got %d", len(src.Columns), len(values))
			}
			for i, v := range values {
				if v != nil {
					t.Errorf("Column %s: expected NULL, got %v", src.Columns[i], v)
				}
			}
		})
	}
}

func TestRowsPerStatement(t *testing.T) {
	tests := []struct {
		name      string
		columns   int
		batchSize int
		want      int
	}{
		{"unbatched uses parameter limit", 5, 0, 13107},
		{"configured batch", 5, 10000, 10000},
		{"batch capped at limit", 5, 20000, 13107},
		{"wide table", 9, 0, 7281},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := Source{Columns: make([]string, tt.columns), BatchSize: tt.batchSize}
			if got := src.RowsPerStatement(); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestGeolocationBatchSize(t *testing.T) {
	for _, src := range Sources(10000) {
		if src.Table == "geolocation" && src.RowsPerStatement() != 10000 {
			t.Errorf("Expected geolocation batch of 10000, got %d", src.RowsPerStatement())
		}
	}
}

func TestDecodeReviews(t *testing.T) {
	data := "review_id,order_id,review_score,review_comment_title,review_comment_message,review_creation_date,review_answer_timestamp\n" +
		"r1,o1,5,,\"Muito bom,\nchegou antes\",2018-01-18 00:00:00,2018-01-18 21:46:59\n" +
		"r2,o2,1,,,2018-03-10 00:00:00,2018-03-11 03:05:13\n"

	var reviews Source
	for _, src := range Sources(0) {
		if src.Table == "reviews" {
			reviews = src
		}
	}

	rows, err := reviews.Decode([]byte(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}

	first := rows[0].(*ReviewRow)
	if first.ReviewCommentMessage.String != "Muito bom,\nchegou antes" {
		t.Errorf("Quoted multi-line message not preserved: %q", first.ReviewCommentMessage.String)
	}
	if first.ReviewCommentTitle.Valid {
		t.Error("Empty title should be NULL")
	}
	if first.ReviewScore.Int64 != 5 {
		t.Errorf("Expected score 5, got %d", first.ReviewScore.Int64)
	}
	wantDate := time.Date(2018, 1, 18, 0, 0, 0, 0, time.UTC)
	if !first.ReviewCreationDate.Time.Equal(wantDate) {
		t.Errorf("Expected creation date %v, got %v", wantDate, first.ReviewCreationDate.Time)
	}

	if rows[1].(*ReviewRow).ReviewCommentMessage.Valid {
		t.Error("Empty message should be NULL")
	}
}

func TestDecodeInvalidValue(t *testing.T) {
	data := "order_id,payment_sequential,payment_type,payment_installments,payment_value\n" +
		"o1,one,credit_card,1,10.5\n"

	src := Sources(0)[7]
	if src.Table != "payments" {
		t.Fatalf("Expected payments source, got %s", src.Table)
	}

	_, err := src.Decode([]byte(data))
	if err == nil {
		t.Fatal("Expected parse error, got nil")
	}
	if !strings.Contains(err.Error(), src.File) {
		t.Errorf("Error should name the file: %v", err)
	}
}

func TestInsertSQL(t *testing.T) {
	got := insertSQL("payments", []string{"order_id", "payment_value"}, 2)
	want := `INSERT INTO "payments" ("order_id", "payment_value") VALUES ($1, $2), ($3, $4)`
	if got != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	loader := NewLoader(nil, Config{DataDir: t.TempDir()})

	_, err := loader.Load(context.Background(), Sources(0)[0])
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "source file not found") {
		t.Errorf("Expected not found error, got: %v", err)
	}
}

func TestLoadAllStopsAtMissingFile(t *testing.T) {
	loader := NewLoader(nil, Config{DataDir: t.TempDir()})

	results, err := loader.LoadAll(context.Background())
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if len(results) != 0 {
		t.Errorf("Expected no tables loaded, got %d", len(results))
	}
	if !strings.Contains(err.Error(), "customers") {
		t.Errorf("Expected first table to fail, got: %v", err)
	}
}
