//-------------------------------------------------------------------------
//
// pgEdge Olist ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package staging

import (
	"fmt"

	"github.com/pgEdge/pgedge-olist-etl/internal/build"
)

var customersQuery = fmt.Sprintf(`
SELECT
    customer_id,
    customer_unique_id,
    customer_zip_code_prefix,
    %s AS customer_city_norm,
    customer_state
FROM customers`, cityNormSQL("customer_city"))

var geolocationQuery = fmt.Sprintf(`
SELECT
    geolocation_zip_code_prefix AS zip_prefix,
    geolocation_state,
    %s AS geolocation_city_norm,
    AVG(geolocation_lat) AS lat_mean,
    AVG(geolocation_lng) AS lng_mean,
    COUNT(*) AS n_points
FROM geolocation
GROUP BY
    zip_prefix,
    geolocation_state,
    geolocation_city_norm`, cityNormSQL("geolocation_city"))

var sellersQuery = fmt.Sprintf(`
SELECT
    seller_id,
    seller_zip_code_prefix,
    %s AS seller_city_norm,
    seller_state
FROM sellers`, cityNormSQL("seller_city"))

const ordersQuery = `
SELECT
    order_id,
    customer_id,
    order_status,
    order_purchase_timestamp,
    order_approved_at,
    order_delivered_carrier_date,
    order_delivered_customer_date,
    order_estimated_delivery_date,
    order_purchase_timestamp::date AS order_date,
    CASE
        WHEN order_status = 'delivered'
        THEN TRUE
        ELSE FALSE
    END AS is_delivered,
    CASE
        WHEN order_status IN ('canceled', 'unavailable')
        THEN TRUE
        ELSE FALSE
    END AS is_canceled
FROM orders`

const itemsQuery = `
SELECT
    order_id,
    order_item_id,
    product_id,
    seller_id,
    shipping_limit_date,
    price,
    freight_value,
    (price + freight_value) AS item_total
FROM items`

// Category names were already checked against categories by the raw load.
const productsQuery = `
SELECT
    product_id,
    product_category_name,
    product_name_lenght,
    product_description_lenght,
    product_photos_qty,
    product_weight_g,
    product_length_cm,
    product_height_cm,
    product_width_cm
FROM products`

const paymentsQuery = `
SELECT
    order_id,
    payment_sequential,
    payment_type,
    payment_installments,
    payment_value,
    CASE
        WHEN payment_sequential = 1
        THEN TRUE
        ELSE FALSE
    END AS is_first_payment
FROM payments`

const reviewsQuery = `
SELECT
    review_id,
    order_id,
    review_score,
    review_comment_title,
    review_comment_message,
    review_creation_date,
    review_answer_timestamp,
    (review_comment_message IS NOT NULL) AS has_comment
FROM reviews`

const categoriesQuery = `
SELECT
    product_category_name,
    product_category_name_english
FROM categories`

// Models returns the staging tables in build order.
func Models() []build.Model {
	return []build.Model{
		{
			Name:        "stg_customers",
			Description: "one row per customer_id, normalized city",
			Query:       customersQuery,
		},
		{
			Name:        "stg_geolocation",
			Description: "one row per (zip prefix, state, normalized city) with mean coordinates",
			Query:       geolocationQuery,
		},
		{
			Name:        "stg_sellers",
			Description: "one row per seller_id, normalized city",
			Query:       sellersQuery,
		},
		{
			Name:        "stg_orders",
			Description: "one row per order_id with order_date and delivered/canceled flags",
			Query:       ordersQuery,
		},
		{
			Name:        "stg_items",
			Description: "one row per (order_id, order_item_id) with item_total",
			Query:       itemsQuery,
		},
		{
			Name:        "stg_products",
			Description: "one row per product_id",
			Query:       productsQuery,
		},
		{
			Name:        "stg_payments",
			Description: "one row per (order_id, payment_sequential) with is_first_payment",
			Query:       paymentsQuery,
		},
		{
			Name:        "stg_reviews",
			Description: "one row per (order_id, review_id) with has_comment",
			Query:       reviewsQuery,
		},
		{
			Name:        "stg_categories",
			Description: "category name translations",
			Query:       categoriesQuery,
		},
	}
}
