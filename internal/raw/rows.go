package raw

// Row is one decoded CSV record. Values returns the query arguments in the
// order of the source's Columns.
type Row interface {
	Values() []any
}

// CustomerRow is a record of olist_customers_dataset.csv.
type CustomerRow struct {
	CustomerID            Text `csv:"customer_id"`
	CustomerUniqueID      Text `csv:"customer_unique_id"`
	CustomerZipCodePrefix Int  `csv:"customer_zip_code_prefix"`
	CustomerCity          Text `csv:"customer_city"`
	CustomerState         Text `csv:"customer_state"`
}

func (r *CustomerRow) Values() []any {
	return []any{
		r.CustomerID.Any(),
		r.CustomerUniqueID.Any(),
		r.CustomerZipCodePrefix.Any(),
		r.CustomerCity.Any(),
		r.CustomerState.Any(),
	}
}

// GeolocationRow is a record of olist_geolocation_dataset.csv.
type GeolocationRow struct {
	ZipCodePrefix Int   `csv:"geolocation_zip_code_prefix"`
	Lat           Float `csv:"geolocation_lat"`
	Lng           Float `csv:"geolocation_lng"`
	City          Text  `csv:"geolocation_city"`
	State         Text  `csv:"geolocation_state"`
}

func (r *GeolocationRow) Values() []any {
	return []any{r.ZipCodePrefix.Any(), r.Lat.Any(), r.Lng.Any(), r.City.Any(), r.State.Any()}
}

// CategoryRow is a record of product_category_name_translation.csv.
type CategoryRow struct {
	Name        Text `csv:"product_category_name"`
	NameEnglish Text `csv:"product_category_name_english"`
}

func (r *CategoryRow) Values() []any {
	return []any{r.Name.Any(), r.NameEnglish.Any()}
}

// SellerRow is a record of olist_sellers_dataset.csv.
type SellerRow struct {
	SellerID            Text `csv:"seller_id"`
	SellerZipCodePrefix Int  `csv:"seller_zip_code_prefix"`
	SellerCity          Text `csv:"seller_city"`
	SellerState         Text `csv:"seller_state"`
}

func (r *SellerRow) Values() []any {
	return []any{r.SellerID.Any(), r.SellerZipCodePrefix.Any(), r.SellerCity.Any(), r.SellerState.Any()}
}

// ProductRow is a record of olist_products_dataset.csv. The misspelled
// "lenght" columns match the published dataset.
type ProductRow struct {
	ProductID                Text `csv:"product_id"`
	ProductCategoryName      Text `csv:"product_category_name"`
	ProductNameLength        Int  `csv:"product_name_lenght"`
	ProductDescriptionLength Int  `csv:"product_description_lenght"`
	ProductPhotosQty         Int  `csv:"product_photos_qty"`
	ProductWeightG           Int  `csv:"product_weight_g"`
	ProductLengthCm          Int  `csv:"product_length_cm"`
	ProductHeightCm          Int  `csv:"product_height_cm"`
	ProductWidthCm           Int  `csv:"product_width_cm"`
}

func (r *ProductRow) Values() []any {
	return []any{
		r.ProductID.Any(),
		r.ProductCategoryName.Any(),
		r.ProductNameLength.Any(),
		r.ProductDescriptionLength.Any(),
		r.ProductPhotosQty.Any(),
		r.ProductWeightG.Any(),
		r.ProductLengthCm.Any(),
		r.ProductHeightCm.Any(),
		r.ProductWidthCm.Any(),
	}
}

// OrderRow is a record of olist_orders_dataset.csv.
type OrderRow struct {
	OrderID                    Text      `csv:"order_id"`
	CustomerID                 Text      `csv:"customer_id"`
	OrderStatus                Text      `csv:"order_status"`
	OrderPurchaseTimestamp     Timestamp `csv:"order_purchase_timestamp"`
	OrderApprovedAt            Timestamp `csv:"order_approved_at"`
	OrderDeliveredCarrierDate  Timestamp `csv:"order_delivered_carrier_date"`
	OrderDeliveredCustomerDate Timestamp `csv:"order_delivered_customer_date"`
	OrderEstimatedDeliveryDate Date      `csv:"order_estimated_delivery_date"`
}

func (r *OrderRow) Values() []any {
	return []any{
		r.OrderID.Any(),
		r.CustomerID.Any(),
		r.OrderStatus.Any(),
		r.OrderPurchaseTimestamp.Any(),
		r.OrderApprovedAt.Any(),
		r.OrderDeliveredCarrierDate.Any(),
		r.OrderDeliveredCustomerDate.Any(),
		r.OrderEstimatedDeliveryDate.Any(),
	}
}

// ItemRow is a record of olist_order_items_dataset.csv.
type ItemRow struct {
	OrderID           Text      `csv:"order_id"`
	OrderItemID       Int       `csv:"order_item_id"`
	ProductID         Text      `csv:"product_id"`
	SellerID          Text      `csv:"seller_id"`
	ShippingLimitDate Timestamp `csv:"shipping_limit_date"`
	Price             Float     `csv:"price"`
	FreightValue      Float     `csv:"freight_value"`
}

func (r *ItemRow) Values() []any {
	return []any{
		r.OrderID.Any(),
		r.OrderItemID.Any(),
		r.ProductID.Any(),
		r.SellerID.Any(),
		r.ShippingLimitDate.Any(),
		r.Price.Any(),
		r.FreightValue.Any(),
	}
}

// PaymentRow is a record of olist_order_payments_dataset.csv.
type PaymentRow struct {
	OrderID             Text  `csv:"order_id"`
	PaymentSequential   Int   `csv:"payment_sequential"`
	PaymentType         Text  `csv:"payment_type"`
	PaymentInstallments Int   `csv:"payment_installments"`
	PaymentValue        Float `csv:"payment_value"`
}

func (r *PaymentRow) Values() []any {
	return []any{
		r.OrderID.Any(),
		r.PaymentSequential.Any(),
		r.PaymentType.Any(),
		r.PaymentInstallments.Any(),
		r.PaymentValue.Any(),
	}
}

// ReviewRow is a record of olist_order_reviews_dataset.csv.
type ReviewRow struct {
	ReviewID              Text      `csv:"review_id"`
	OrderID               Text      `csv:"order_id"`
	ReviewScore           Int       `csv:"review_score"`
	ReviewCommentTitle    Text      `csv:"review_comment_title"`
	ReviewCommentMessage  Text      `csv:"review_comment_message"`
	ReviewCreationDate    Date      `csv:"review_creation_date"`
	ReviewAnswerTimestamp Timestamp `csv:"review_answer_timestamp"`
}

func (r *ReviewRow) Values() []any {
	return []any{
		r.ReviewID.Any(),
		r.OrderID.Any(),
		r.ReviewScore.Any(),
		r.ReviewCommentTitle.Any(),
		r.ReviewCommentMessage.Any(),
		r.ReviewCreationDate.Any(),
		r.ReviewAnswerTimestamp.Any(),
	}
}
