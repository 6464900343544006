package etorder

import (
	"errors"
	"time"
)

// 错误定义
var (
	ErrInvalidOrderID        = errors.New("order ID cannot be empty")
	ErrInvalidTrackingNumber = errors.New("tracking number cannot be empty")
	ErrInvalidTempID         = errors.New("temp tracking ID cannot be empty")
	ErrInvalidOrderData      = errors.New("invalid order data")
	ErrInvalidPayment        = errors.New("payment cannot be nil")
	ErrNegativeAmount        = errors.New("amounts cannot be negative")
)

// Order 订单聚合根（领域对象），金额单位均为 bani
type Order struct {
	ID             string      // 订单ID (UUID)
	TrackingNumber string      // 对外跟踪号 XXXX-XXXX-XXXX
	SourceTempID   string      // 来源临时跟踪号（银行卡支付）
	Items          []*Item     // 商品
	Shipping       *Address    // 收货信息
	Billing        *Billing    // 账单信息
	Subtotal       int64       // 商品小计
	ShippingCost   int64       // 运费
	Discount       int64       // 折扣
	Total          int64       // 应付总额
	Currency       string      // 币种
	Payment        *Payment    // 支付信息
	Status         OrderStatus // 履约状态
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderStatus 订单履约状态
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentMethod 支付方式
type PaymentMethod string

const (
	PaymentMethodCard           PaymentMethod = "card"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

// PaymentStatus 支付状态
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Payment 支付信息（值对象）
type Payment struct {
	Method        PaymentMethod `json:"method"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transaction_id,omitempty"` // 网关 ep_id
	GatewayData   *GatewayData  `json:"gateway_data,omitempty"`
}

// GatewayData 网关回调原始字段（审计/排查用）
type GatewayData struct {
	Action        string `json:"action"`
	Message       string `json:"message"`
	Approval      string `json:"approval"`
	Timestamp     string `json:"timestamp"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Nonce         string `json:"nonce"`
	TransactionID string `json:"transaction_id"`
}

// Item 商品（值对象）
type Item struct {
	ProductID string `json:"product_id,omitempty"`
	Name      string `json:"name"`
	SKU       string `json:"sku,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// Address 收货地址（值对象）
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Country   string `json:"country"`
	Notes     string `json:"notes,omitempty"`
}

// Billing 账单信息（值对象）
type Billing struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Company   string `json:"company,omitempty"`
	Street    string `json:"street,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Country   string `json:"country,omitempty"`
}

// OrderData 结账提交的完整数据，待支付订单原样保存
type OrderData struct {
	Items         []*Item       `json:"items"`
	Shipping      *Address      `json:"shipping"`
	Billing       *Billing      `json:"billing"`
	Subtotal      int64         `json:"subtotal"`
	ShippingCost  int64         `json:"shipping_cost"`
	Discount      int64         `json:"discount"`
	Total         int64         `json:"total"`
	Currency      string        `json:"currency"`
	PaymentMethod PaymentMethod `json:"payment_method"`
}

// ComputeTotals 由商品重新计算小计与总额，总额不低于 0
func (d *OrderData) ComputeTotals() {
	var subtotal int64
	for _, item := range d.Items {
		subtotal += int64(item.Quantity) * item.UnitPrice
	}
	d.Subtotal = subtotal

	total := subtotal + d.ShippingCost - d.Discount
	if total < 0 {
		total = 0
	}
	d.Total = total
}

// Validate 业务规则校验
func (d *OrderData) Validate() error {
	if d == nil || len(d.Items) == 0 || d.Shipping == nil || d.Billing == nil {
		return ErrInvalidOrderData
	}
	if d.Subtotal < 0 || d.ShippingCost < 0 || d.Discount < 0 || d.Total < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// PendingOrder 待支付订单（银行卡支付前暂存）
type PendingOrder struct {
	TempTrackingID string
	OrderData      *OrderData
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

// NewPendingOrder 创建待支付订单，ExpiresAt = now + ttl
func NewPendingOrder(tempID string, data *OrderData, ttl time.Duration, now time.Time) (*PendingOrder, error) {
	if tempID == "" {
		return nil, ErrInvalidTempID
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &PendingOrder{
		TempTrackingID: tempID,
		OrderData:      data,
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
	}, nil
}

// NewOrder 创建订单（工厂方法）
func NewOrder(id, trackingNumber string, data *OrderData, payment *Payment) (*Order, error) {
	if id == "" {
		return nil, ErrInvalidOrderID
	}
	if trackingNumber == "" {
		return nil, ErrInvalidTrackingNumber
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrInvalidPayment
	}

	now := time.Now()
	return &Order{
		ID:             id,
		TrackingNumber: trackingNumber,
		Items:          data.Items,
		Shipping:       data.Shipping,
		Billing:        data.Billing,
		Subtotal:       data.Subtotal,
		ShippingCost:   data.ShippingCost,
		Discount:       data.Discount,
		Total:          data.Total,
		Currency:       data.Currency,
		Payment:        payment,
		Status:         OrderStatusProcessing,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// NewOrderFromPending 由待支付订单生成正式订单，金额原样复制
func NewOrderFromPending(id, trackingNumber string, pending *PendingOrder, payment *Payment) (*Order, error) {
	if pending == nil {
		return nil, ErrInvalidOrderData
	}
	order, err := NewOrder(id, trackingNumber, pending.OrderData, payment)
	if err != nil {
		return nil, err
	}
	order.SourceTempID = pending.TempTrackingID
	return order, nil
}

// IsPaid 是否已支付
func (o *Order) IsPaid() bool {
	return o.Payment != nil && o.Payment.Status == PaymentStatusPaid
}

// CustomerEmail 通知收件人
func (o *Order) CustomerEmail() string {
	if o.Billing == nil {
		return ""
	}
	return o.Billing.Email
}
