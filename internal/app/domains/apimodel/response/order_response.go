package response

import "time"

// OrderResponse 订单响应（DTO）
type OrderResponse struct {
	TrackingNumber string          `json:"tracking_number"`
	Status         string          `json:"status"`
	Items          []*Item         `json:"items"`
	Subtotal       int64           `json:"subtotal"`
	ShippingCost   int64           `json:"shipping_cost"`
	Discount       int64           `json:"discount"`
	Total          int64           `json:"total"`
	Currency       string          `json:"currency"`
	Payment        *PaymentSummary `json:"payment"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Item 商品（DTO）
type Item struct {
	Name      string `json:"name"`
	SKU       string `json:"sku,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// PaymentSummary 支付信息（DTO），不含网关原始数据
type PaymentSummary struct {
	Method string `json:"method"`
	Status string `json:"status"`
}
