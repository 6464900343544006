package rporder

import (
	"context"
	"time"

	"paysvc/internal/app/domains/entity/etorder"
)

// PaymentUpdateResult UpdatePayment 的结果
type PaymentUpdateResult int

const (
	// PaymentUpdated 支付状态与网关数据已写入
	PaymentUpdated PaymentUpdateResult = iota
	// PaymentAlreadyPaid 订单已支付，未做任何修改
	PaymentAlreadyPaid
)

// BuildOrderFunc 在事务内由待支付订单构造正式订单，不得访问数据库
type BuildOrderFunc func(pending *etorder.PendingOrder) (*etorder.Order, error)

// OrderRepository 订单仓储接口（只定义，不实现）
type OrderRepository interface {
	// Create 创建订单
	Create(ctx context.Context, order *etorder.Order) error

	// GetByTrackingNumber 根据跟踪号查询，不存在返回 NotFoundError
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*etorder.Order, error)

	// FindByTransactionID 根据网关交易号查询，不存在返回 nil, nil
	FindByTransactionID(ctx context.Context, transactionID string) (*etorder.Order, error)

	// FindBySourceTempID 根据来源临时跟踪号查询，不存在返回 nil, nil
	FindBySourceTempID(ctx context.Context, tempID string) (*etorder.Order, error)

	// UpdatePayment 更新支付状态与网关数据；已支付订单不会被改写
	UpdatePayment(ctx context.Context, trackingNumber string, payment *etorder.Payment) (PaymentUpdateResult, error)

	// CreatePending 暂存待支付订单
	CreatePending(ctx context.Context, pending *etorder.PendingOrder) error

	// FindPending 查询待支付订单，不存在返回 nil, nil
	FindPending(ctx context.Context, tempID string) (*etorder.PendingOrder, error)

	// DeletePending 删除待支付订单，返回是否确实删除
	DeletePending(ctx context.Context, tempID string) (bool, error)

	// DeleteExpiredPending 清理已过期的待支付订单
	DeleteExpiredPending(ctx context.Context, now time.Time) (int64, error)

	// ConsumePending 单事务内：条件删除待支付订单并创建正式订单
	// 待支付订单已被消费时返回 ErrPendingOrderNotFound；交易号重复返回 ErrDuplicateTransaction
	ConsumePending(ctx context.Context, tempID string, build BuildOrderFunc) (*etorder.Order, error)
}
