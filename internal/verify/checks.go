package verify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-olist-etl/internal/db"
	"github.com/pgEdge/pgedge-olist-etl/internal/marts"
	"github.com/pgEdge/pgedge-olist-etl/internal/staging"
)

// CheckResult is the outcome of one structural check.
type CheckResult struct {
	Name   string
	Passed bool
	Detail string

	// Advisory checks are reported but never fail verification.
	Advisory bool
}

// maxSamples bounds the mismatches listed in a check detail.
const maxSamples = 5

// CheckGrain confirms that each mart has exactly one row per primary key.
func CheckGrain(ctx context.Context, pool *pgxpool.Pool) ([]CheckResult, error) {
	var results []CheckResult

	for _, m := range marts.Models() {
		cols := make([]string, len(m.PrimaryKey))
		for i, c := range m.PrimaryKey {
			cols[i] = pgx.Identifier{c}.Sanitize()
		}
		key := strings.Join(cols, ", ")

		query := fmt.Sprintf(`
			SELECT COUNT(*) FROM (
				SELECT %s FROM %s GROUP BY %s HAVING COUNT(*) > 1
			) AS dup`, key, pgx.Identifier{m.Name}.Sanitize(), key)

		var dups int64
		err := db.WithConn(ctx, pool, func(conn *pgxpool.Conn) error {
			return conn.QueryRow(ctx, query).Scan(&dups)
		})
		if err != nil {
			return results, fmt.Errorf("grain check on %s: %w", m.Name, err)
		}

		results = append(results, CheckResult{
			Name:   "grain " + m.Name,
			Passed: dups == 0,
			Detail: fmt.Sprintf("%d duplicated %s values", dups, strings.Join(m.PrimaryKey, ", ")),
		})
	}

	return results, nil
}

// CheckCalendar confirms that dim_date has one row for every day between the
// first and last order_date in fact_daily_orders.
func CheckCalendar(ctx context.Context, pool *pgxpool.Pool) (CheckResult, error) {
	var (
		rows, distinct int64
		first, last    *time.Time
		ordersFirst    *time.Time
		ordersLast     *time.Time
	)

	err := db.WithConn(ctx, pool, func(conn *pgxpool.Conn) error {
		err := conn.QueryRow(ctx, `
			SELECT COUNT(*), COUNT(DISTINCT date), MIN(date), MAX(date)
			FROM dim_date`).Scan(&rows, &distinct, &first, &last)
		if err != nil {
			return err
		}
		return conn.QueryRow(ctx, `
			SELECT MIN(order_date), MAX(order_date)
			FROM fact_daily_orders`).Scan(&ordersFirst, &ordersLast)
	})
	if err != nil {
		return CheckResult{}, fmt.Errorf("calendar check: %w", err)
	}

	return calendarResult(rows, distinct, first, last, ordersFirst, ordersLast), nil
}

func calendarResult(rows, distinct int64, first, last, ordersFirst, ordersLast *time.Time) CheckResult {
	res := CheckResult{Name: "calendar dim_date"}

	switch {
	case first == nil || last == nil:
		res.Passed = ordersFirst == nil
		res.Detail = "dim_date is empty"
		return res
	case ordersFirst == nil || ordersLast == nil:
		res.Detail = "fact_daily_orders is empty"
		return res
	}

	want := int64(last.Sub(*first).Hours()/24) + 1
	switch {
	case rows != distinct:
		res.Detail = fmt.Sprintf("%d rows but %d distinct dates", rows, distinct)
	case rows != want:
		res.Detail = fmt.Sprintf("%d rows, expected %d days", rows, want)
	case !first.Equal(*ordersFirst) || !last.Equal(*ordersLast):
		res.Detail = fmt.Sprintf("calendar %s..%s does not match orders %s..%s",
			first.Format("2006-01-02"), last.Format("2006-01-02"),
			ordersFirst.Format("2006-01-02"), ordersLast.Format("2006-01-02"))
	default:
		res.Passed = true
		res.Detail = fmt.Sprintf("%d days from %s to %s", rows,
			first.Format("2006-01-02"), last.Format("2006-01-02"))
	}
	return res
}

// CheckCityNormalization compares the normalized customer cities produced in
// SQL with NormalizeCity. Disagreements usually mean the database collation
// lowercases differently; they are reported, not treated as failures of the
// build.
func CheckCityNormalization(ctx context.Context, pool *pgxpool.Pool) (CheckResult, error) {
	res := CheckResult{Name: "city normalization", Advisory: true}

	var (
		checked    int
		mismatches []string
	)

	err := db.WithConn(ctx, pool, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT DISTINCT c.customer_city, s.customer_city_norm
			FROM customers AS c
			JOIN stg_customers AS s ON s.customer_id = c.customer_id
			WHERE c.customer_city IS NOT NULL`)
		if err != nil {
			return err
		}

		var city, norm string
		_, err = pgx.ForEachRow(rows, []any{&city, &norm}, func() error {
			checked++
			if want := staging.NormalizeCity(city); want != norm {
				mismatches = append(mismatches, fmt.Sprintf("%q: got %q, want %q", city, norm, want))
			}
			return nil
		})
		return err
	})
	if err != nil {
		return res, fmt.Errorf("city normalization check: %w", err)
	}

	res.Passed = len(mismatches) == 0
	res.Detail = fmt.Sprintf("%d of %d distinct cities differ", len(mismatches), checked)
	if len(mismatches) > 0 {
		res.Detail += ": " + strings.Join(mismatches[:min(len(mismatches), maxSamples)], "; ")
	}
	return res, nil
}

// Failed returns the checks that did not pass, excluding advisory ones.
func Failed(results []CheckResult) []CheckResult {
	var failed []CheckResult
	for _, r := range results {
		if !r.Passed && !r.Advisory {
			failed = append(failed, r)
		}
	}
	return failed
}

// RunChecks runs every structural check on the built marts.
func RunChecks(ctx context.Context, pool *pgxpool.Pool) ([]CheckResult, error) {
	results, err := CheckGrain(ctx, pool)
	if err != nil {
		return results, err
	}

	cal, err := CheckCalendar(ctx, pool)
	if err != nil {
		return results, err
	}
	results = append(results, cal)

	city, err := CheckCityNormalization(ctx, pool)
	if err != nil {
		return results, err
	}
	return append(results, city), nil
}
