package marts

import (
	"strings"
	"testing"

	"github.com/pgEdge/pgedge-olist-etl/internal/pipeline"
)

func TestModelsOrderAndKeys(t *testing.T) {
	expected := []struct {
		name string
		key  string
	}{
		{"fact_orders", "order_id"},
		{"fact_daily_orders", "order_date"},
		{"dim_date", "date"},
	}

	models := Models()
	if len(models) != len(expected) {
		t.Fatalf("Expected %d models, got %d", len(expected), len(models))
	}

	for i, want := range expected {
		m := models[i]
		if m.Name != want.name {
			t.Errorf("Position %d: expected %s, got %s", i, want.name, m.Name)
		}
		if len(m.PrimaryKey) != 1 || m.PrimaryKey[0] != want.key {
			t.Errorf("%s: expected primary key (%s), got %v", m.Name, want.key, m.PrimaryKey)
		}
	}
}

func TestFactOrdersNullHandling(t *testing.T) {
	for _, want := range []string{
		"COALESCE(i.n_items, 0) AS n_items",
		"COALESCE(i.order_gross_value, 0) AS order_gross_value",
		"WHEN o.order_delivered_customer_date IS NOT NULL",
		"AVG(review_score)::NUMERIC(5,2)",
		"BOOL_OR(has_comment)",
	} {
		if !strings.Contains(factOrdersQuery, want) {
			t.Errorf("fact_orders query missing %q", want)
		}
	}

	// Payment and review aggregates must not be coalesced.
	for _, col := range []string{"p.payment_value_total", "r.review_score_avg"} {
		if strings.Contains(factOrdersQuery, "COALESCE("+col) {
			t.Errorf("%s should remain nullable", col)
		}
	}
}

func TestFactDailyOrdersCancellationFilter(t *testing.T) {
	for _, metric := range []string{"n_orders", "gross_revenue", "items_revenue", "freight_revenue", "avg_order_value", "n_items"} {
		found := false
		for _, line := range strings.Split(factDailyOrdersQuery, "\n") {
			if strings.Contains(line, "AS "+metric) {
				found = true
				if !strings.Contains(line, "FILTER (WHERE NOT is_canceled)") {
					t.Errorf("%s should exclude cancelled orders: %s", metric, strings.TrimSpace(line))
				}
			}
		}
		if !found {
			t.Errorf("metric %s not found", metric)
		}
	}

	for _, line := range strings.Split(factDailyOrdersQuery, "\n") {
		if strings.Contains(line, "AS n_reviewed_orders") && strings.Contains(line, "FILTER") {
			t.Error("n_reviewed_orders must include cancelled orders")
		}
	}
}

func TestDimDateAttributes(t *testing.T) {
	for _, want := range []string{
		"generate_series(min_date, max_date, interval '1 day')",
		"EXTRACT(isodow FROM date)::int AS day_of_week_iso",
		"TO_CHAR(date, 'Dy') AS day_name_short",
		"TO_CHAR(date, 'Month') AS month_name",
		"EXTRACT(week FROM date)::int AS week_of_year",
		"IN (6, 7)) AS is_weekend",
	} {
		if !strings.Contains(dimDateQuery, want) {
			t.Errorf("dim_date query missing %q", want)
		}
	}
}

func TestStageRegistered(t *testing.T) {
	stage, err := pipeline.Get(pipeline.StageMarts)
	if err != nil {
		t.Fatalf("marts stage not registered: %v", err)
	}
	tables := stage.Tables()
	if len(tables) != 3 || tables[0] != "fact_orders" || tables[2] != "dim_date" {
		t.Errorf("Unexpected mart tables: %v", tables)
	}
}
