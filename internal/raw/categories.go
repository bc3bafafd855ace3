package raw

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-olist-etl/internal/db"
	"github.com/pgEdge/pgedge-olist-etl/internal/logging"
)

// CategoryNames reads the set of category names currently in categories.
func CategoryNames(ctx context.Context, pool *pgxpool.Pool) (map[string]struct{}, error) {
	names := make(map[string]struct{})

	err := db.WithConn(ctx, pool, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, "SELECT product_category_name FROM categories")
		if err != nil {
			return err
		}
		values, err := pgx.CollectRows(rows, pgx.RowTo[*string])
		if err != nil {
			return err
		}
		for _, v := range values {
			if v != nil {
				names[*v] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read category names: %w", err)
	}

	return names, nil
}

// FixCategories sets product_category_name to NULL on products whose
// category is not in valid, returning how many rows were changed. NULL
// categories are left alone.
func FixCategories(rows []Row, valid map[string]struct{}) int {
	fixed := 0
	for _, r := range rows {
		p, ok := r.(*ProductRow)
		if !ok || !p.ProductCategoryName.Valid {
			continue
		}
		if _, known := valid[p.ProductCategoryName.String]; !known {
			p.ProductCategoryName = Text{}
			fixed++
		}
	}
	return fixed
}

// fixProductCategories runs FixCategories and warns when any product changed.
func fixProductCategories(rows []Row, valid map[string]struct{}) int {
	fixed := FixCategories(rows, valid)
	if fixed > 0 {
		logging.Warn().
			Str("table", "products").
			Int("count", fixed).
			Msg("Products with unmapped category; setting product_category_name to NULL")
	}
	return fixed
}
