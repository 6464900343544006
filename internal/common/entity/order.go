package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Order 订单实体
type Order struct {
	// 基础字段
	ID             string  `gorm:"column:id;primaryKey;type:varchar(64)"`
	TrackingNumber string  `gorm:"column:tracking_number;type:varchar(32);not null;uniqueIndex:uk_tracking_number"`
	SourceTempID   *string `gorm:"column:source_temp_id;type:varchar(64);index:idx_source_temp_id"`

	// 订单数据
	Items    datatypes.JSON `gorm:"column:items;type:json;not null"`
	Shipping datatypes.JSON `gorm:"column:shipping;type:json;not null"`
	Billing  datatypes.JSON `gorm:"column:billing;type:json;not null"`

	// 金额（bani）
	Subtotal     int64  `gorm:"column:subtotal;not null"`
	ShippingCost int64  `gorm:"column:shipping_cost;not null"`
	Discount     int64  `gorm:"column:discount;not null"`
	Total        int64  `gorm:"column:total;not null"`
	Currency     string `gorm:"column:currency;type:varchar(8);not null"`

	// 支付
	PaymentMethod        string         `gorm:"column:payment_method;type:varchar(32);not null"`
	PaymentStatus        string         `gorm:"column:payment_status;type:varchar(16);not null;index:idx_payment_status"`
	PaymentTransactionID *string        `gorm:"column:payment_transaction_id;type:varchar(64);uniqueIndex:uk_payment_transaction_id"`
	GatewayData          datatypes.JSON `gorm:"column:gateway_data;type:json"`

	// 履约状态
	Status string `gorm:"column:status;type:varchar(16);not null;default:'processing'"`

	// 时间戳
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
