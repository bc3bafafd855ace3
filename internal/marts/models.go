//-------------------------------------------------------------------------
//
// pgEdge Olist ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package marts

import (
	"github.com/pgEdge/pgedge-olist-etl/internal/build"
)

// factOrdersQuery joins stg_orders with per-order aggregates of items,
// payments and reviews. Missing item aggregates become zero; payment and
// review aggregates stay NULL. Day deltas are NULL until delivery.
const factOrdersQuery = `
SELECT
    o.order_id,
    o.customer_id,
    o.order_date,
    o.order_status,
    o.is_delivered,
    o.is_canceled,
    o.order_purchase_timestamp,
    o.order_delivered_customer_date,
    o.order_estimated_delivery_date,

    CASE
        WHEN o.order_delivered_customer_date IS NOT NULL
        THEN (o.order_delivered_customer_date::date - o.order_purchase_timestamp::date)
        ELSE NULL
    END AS delivery_time_days,

    CASE
        WHEN o.order_delivered_customer_date IS NOT NULL
        THEN (o.order_delivered_customer_date::date - o.order_estimated_delivery_date::date)
        ELSE NULL
    END AS delay_vs_estimated_days,

    -- items
    COALESCE(i.n_items, 0) AS n_items,
    COALESCE(i.items_price_sum, 0) AS items_price_sum,
    COALESCE(i.freight_sum, 0) AS freight_sum,
    COALESCE(i.order_gross_value, 0) AS order_gross_value,

    -- payments
    p.payment_value_total,
    p.payment_installments_max,
    p.first_payment_type,

    -- reviews
    r.review_score_avg,
    r.has_comment

FROM stg_orders AS o

LEFT JOIN (
    SELECT
        order_id,
        COUNT(*) AS n_items,
        SUM(price) AS items_price_sum,
        SUM(freight_value) AS freight_sum,
        SUM(item_total) AS order_gross_value
    FROM stg_items
    GROUP BY order_id
) AS i
  ON i.order_id = o.order_id

LEFT JOIN (
    SELECT
        order_id,
        SUM(payment_value) AS payment_value_total,
        MAX(payment_installments) AS payment_installments_max,
        MAX(
            CASE
                WHEN is_first_payment THEN payment_type
                ELSE NULL
            END
        ) AS first_payment_type
    FROM stg_payments
    GROUP BY order_id
) AS p
  ON p.order_id = o.order_id

LEFT JOIN (
    SELECT
        order_id,
        AVG(review_score)::NUMERIC(5,2) AS review_score_avg,
        BOOL_OR(has_comment) AS has_comment
    FROM stg_reviews
    GROUP BY order_id
) AS r
  ON r.order_id = o.order_id`

// factDailyOrdersQuery rolls fact_orders up by day. Sales metrics skip
// cancelled orders; review metrics count every reviewed order.
const factDailyOrdersQuery = `
SELECT
    order_date,

    COUNT(*) FILTER (WHERE NOT is_canceled) AS n_orders,
    SUM(order_gross_value) FILTER (WHERE NOT is_canceled) AS gross_revenue,
    SUM(items_price_sum) FILTER (WHERE NOT is_canceled) AS items_revenue,
    SUM(freight_sum) FILTER (WHERE NOT is_canceled) AS freight_revenue,
    AVG(order_gross_value) FILTER (WHERE NOT is_canceled) AS avg_order_value,
    SUM(n_items) FILTER (WHERE NOT is_canceled) AS n_items,

    AVG(review_score_avg) AS avg_review_score,
    COUNT(review_score_avg) AS n_reviewed_orders,
    SUM(
        CASE WHEN has_comment THEN 1 ELSE 0 END
    ) AS n_commented_reviews

FROM fact_orders
GROUP BY order_date`

const dimDateQuery = `
WITH bounds AS (
    SELECT
        MIN(order_date) AS min_date,
        MAX(order_date) AS max_date
    FROM fact_daily_orders
),

calendar AS (
    SELECT
        generate_series(min_date, max_date, interval '1 day')::date AS date
    FROM bounds
)

SELECT
    date,
    EXTRACT(year FROM date)::int AS year,
    EXTRACT(month FROM date)::int AS month,
    EXTRACT(day FROM date)::int AS day,
    EXTRACT(isodow FROM date)::int AS day_of_week_iso,
    TO_CHAR(date, 'Dy') AS day_name_short,
    TO_CHAR(date, 'Month') AS month_name,
    EXTRACT(week FROM date)::int AS week_of_year,
    (EXTRACT(isodow FROM date) IN (6, 7)) AS is_weekend
FROM calendar`

// Models returns the mart tables in build order. Each depends on the one
// before it.
func Models() []build.Model {
	return []build.Model{
		{
			Name:        "fact_orders",
			Description: "one row per order with item, payment and review aggregates",
			Query:       factOrdersQuery,
			PrimaryKey:  []string{"order_id"},
		},
		{
			Name:        "fact_daily_orders",
			Description: "one row per order_date; sales metrics exclude cancelled orders",
			Query:       factDailyOrdersQuery,
			PrimaryKey:  []string{"order_date"},
		},
		{
			Name:        "dim_date",
			Description: "one row per calendar day between the first and last order_date",
			Query:       dimDateQuery,
			PrimaryKey:  []string{"date"},
		},
	}
}
