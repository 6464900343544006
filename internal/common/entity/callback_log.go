package entity

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentCallbackLog 网关回调审计日志
type PaymentCallbackLog struct {
	ID             uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	InvoiceID      string         `gorm:"column:invoice_id;type:varchar(64);index:idx_invoice_id"`
	TransactionID  string         `gorm:"column:transaction_id;type:varchar(64);index:idx_transaction_id"`
	Action         string         `gorm:"column:action;type:varchar(8)"`
	Delivery       string         `gorm:"column:delivery;type:varchar(16)"` // server / browser
	SignatureValid bool           `gorm:"column:signature_valid;not null"`
	Outcome        string         `gorm:"column:outcome;type:varchar(32)"`
	Error          string         `gorm:"column:error;type:varchar(512)"`
	Payload        datatypes.JSON `gorm:"column:payload;type:json"`
	CreatedAt      time.Time      `gorm:"column:created_at;not null"`
}

// TableName 指定表名
func (PaymentCallbackLog) TableName() string {
	return "payment_callback_logs"
}

// Models 需要 AutoMigrate 的全部实体
func Models() []interface{} {
	return []interface{}{&Order{}, &PendingOrder{}, &PaymentCallbackLog{}}
}
