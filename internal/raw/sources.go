//-------------------------------------------------------------------------
//
// pgEdge Olist ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package raw

import (
	"fmt"

	"github.com/jszwec/csvutil"
)

// maxParams is the PostgreSQL limit on bind parameters per statement.
const maxParams = 65535

// Source maps one CSV extract onto its raw table.
type Source struct {
	// Table is the raw table name.
	Table string

	// File is the CSV file name inside the data directory.
	File string

	// Columns are the table columns, in Row.Values order.
	Columns []string

	// BatchSize is the number of rows per INSERT. Zero means as many as the
	// bind parameter limit allows.
	BatchSize int

	decode func(data []byte) ([]Row, error)
}

// Decode parses the CSV content of the source file.
func (s Source) Decode(data []byte) ([]Row, error) {
	rows, err := s.decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.File, err)
	}
	return rows, nil
}

// RowsPerStatement returns the effective batch size, capped so that a
// statement never exceeds the bind parameter limit.
func (s Source) RowsPerStatement() int {
	limit := maxParams / len(s.Columns)
	if s.BatchSize <= 0 || s.BatchSize > limit {
		return limit
	}
	return s.BatchSize
}

// decodeAll unmarshals every CSV record into T and returns pointers to them.
func decodeAll[T any, P interface {
	*T
	Row
}](data []byte) ([]Row, error) {
	var records []T
	if err := csvutil.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	rows := make([]Row, len(records))
	for i := range records {
		rows[i] = P(&records[i])
	}
	return rows, nil
}

// Sources returns the raw sources in load order: tables without foreign
// keys first, dependents after.
func Sources(geolocationBatchSize int) []Source {
	return []Source{
		{
			Table: "customers",
			File:  "olist_customers_dataset.csv",
			Columns: []string{
				"customer_id", "customer_unique_id", "customer_zip_code_prefix",
				"customer_city", "customer_state",
			},
			decode: decodeAll[CustomerRow],
		},
		{
			Table: "geolocation",
			File:  "olist_geolocation_dataset.csv",
			Columns: []string{
				"geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng",
				"geolocation_city", "geolocation_state",
			},
			BatchSize: geolocationBatchSize,
			decode:    decodeAll[GeolocationRow],
		},
		{
			Table:   "categories",
			File:    "product_category_name_translation.csv",
			Columns: []string{"product_category_name", "product_category_name_english"},
			decode:  decodeAll[CategoryRow],
		},
		{
			Table: "sellers",
			File:  "olist_sellers_dataset.csv",
			Columns: []string{
				"seller_id", "seller_zip_code_prefix", "seller_city", "seller_state",
			},
			decode: decodeAll[SellerRow],
		},
		{
			Table: "products",
			File:  "olist_products_dataset.csv",
			Columns: []string{
				"product_id", "product_category_name", "product_name_lenght",
				"product_description_lenght", "product_photos_qty", "product_weight_g",
				"product_length_cm", "product_height_cm", "product_width_cm",
			},
			decode: decodeAll[ProductRow],
		},
		{
			Table: "orders",
			File:  "olist_orders_dataset.csv",
			Columns: []string{
				"order_id", "customer_id", "order_status", "order_purchase_timestamp",
				"order_approved_at", "order_delivered_carrier_date",
				"order_delivered_customer_date", "order_estimated_delivery_date",
			},
			decode: decodeAll[OrderRow],
		},
		{
			Table: "items",
			File:  "olist_order_items_dataset.csv",
			Columns: []string{
				"order_id", "order_item_id", "product_id", "seller_id",
				"shipping_limit_date", "price", "freight_value",
			},
			decode: decodeAll[ItemRow],
		},
		{
			Table: "payments",
			File:  "olist_order_payments_dataset.csv",
			Columns: []string{
				"order_id", "payment_sequential", "payment_type",
				"payment_installments", "payment_value",
			},
			decode: decodeAll[PaymentRow],
		},
		{
			Table: "reviews",
			File:  "olist_order_reviews_dataset.csv",
			Columns: []string{
				"review_id", "order_id", "review_score", "review_comment_title",
				"review_comment_message", "review_creation_date", "review_answer_timestamp",
			},
			decode: decodeAll[ReviewRow],
		},
	}
}

// Tables returns the raw table names in load order.
func Tables() []string {
	sources := Sources(0)
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Table
	}
	return names
}
