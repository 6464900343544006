package entity

import (
	"time"

	"gorm.io/datatypes"
)

// PendingOrder 待支付订单实体，支付成功后删除，过期由 sweeper 清理
type PendingOrder struct {
	TempTrackingID string         `gorm:"column:temp_tracking_id;primaryKey;type:varchar(64)"`
	OrderData      datatypes.JSON `gorm:"column:order_data;type:json;not null"`
	CreatedAt      time.Time      `gorm:"column:created_at;not null"`
	ExpiresAt      time.Time      `gorm:"column:expires_at;not null;index:idx_expires_at"`
}

// TableName 指定表名
func (PendingOrder) TableName() string {
	return "pending_orders"
}
