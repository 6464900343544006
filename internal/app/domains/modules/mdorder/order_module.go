package mdorder

import (
	"context"
	"time"

	"paysvc/internal/app/domains/entity/etorder"
	"paysvc/internal/app/domains/repo/rporder"
	"paysvc/internal/app/pkg/idgen"
)

// OrderModule 订单模块（业务编排层）
// 职责：
// 1. 生成订单ID、跟踪号、临时跟踪号
// 2. 组装领域对象后交给仓储
type OrderModule struct {
	orderRepo rporder.OrderRepository
}

// NewOrderModule 创建订单模块
func NewOrderModule(orderRepo rporder.OrderRepository) *OrderModule {
	return &OrderModule{orderRepo: orderRepo}
}

// StagePending 暂存待支付订单，返回带临时跟踪号的记录
func (m *OrderModule) StagePending(ctx context.Context, data *etorder.OrderData, ttl time.Duration) (*etorder.PendingOrder, error) {
	tempID, err := idgen.TempTrackingID()
	if err != nil {
		return nil, err
	}
	pending, err := etorder.NewPendingOrder(tempID, data, ttl, time.Now())
	if err != nil {
		return nil, err
	}
	if err := m.orderRepo.CreatePending(ctx, pending); err != nil {
		return nil, err
	}
	return pending, nil
}

// CreateOrder 直接创建订单（货到付款）
func (m *OrderModule) CreateOrder(ctx context.Context, data *etorder.OrderData, payment *etorder.Payment) (*etorder.Order, error) {
	trackingNumber, err := idgen.TrackingNumber()
	if err != nil {
		return nil, err
	}
	order, err := etorder.NewOrder(idgen.OrderID(), trackingNumber, data, payment)
	if err != nil {
		return nil, err
	}
	if err := m.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// SettlePending 消费待支付订单，生成正式订单（单事务）
func (m *OrderModule) SettlePending(ctx context.Context, tempID string, payment *etorder.Payment) (*etorder.Order, error) {
	// ID 在事务外生成，事务内不做任何 IO
	trackingNumber, err := idgen.TrackingNumber()
	if err != nil {
		return nil, err
	}
	orderID := idgen.OrderID()

	return m.orderRepo.ConsumePending(ctx, tempID, func(pending *etorder.PendingOrder) (*etorder.Order, error) {
		return etorder.NewOrderFromPending(orderID, trackingNumber, pending, payment)
	})
}

// UpdatePayment 更新已有订单的支付信息
func (m *OrderModule) UpdatePayment(ctx context.Context, trackingNumber string, payment *etorder.Payment) (rporder.PaymentUpdateResult, error) {
	return m.orderRepo.UpdatePayment(ctx, trackingNumber, payment)
}

// GetOrder 根据跟踪号查询订单
func (m *OrderModule) GetOrder(ctx context.Context, trackingNumber string) (*etorder.Order, error) {
	return m.orderRepo.GetByTrackingNumber(ctx, trackingNumber)
}

// FindByTransactionID 根据网关交易号查询（检查重复）
func (m *OrderModule) FindByTransactionID(ctx context.Context, transactionID string) (*etorder.Order, error) {
	return m.orderRepo.FindByTransactionID(ctx, transactionID)
}

// FindBySourceTempID 根据临时跟踪号查询已生成的订单
func (m *OrderModule) FindBySourceTempID(ctx context.Context, tempID string) (*etorder.Order, error) {
	return m.orderRepo.FindBySourceTempID(ctx, tempID)
}

// FindPending 查询待支付订单
func (m *OrderModule) FindPending(ctx context.Context, tempID string) (*etorder.PendingOrder, error) {
	return m.orderRepo.FindPending(ctx, tempID)
}

// SweepExpired 清理过期待支付订单
func (m *OrderModule) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	return m.orderRepo.DeleteExpiredPending(ctx, now)
}

// DiscardPending 放弃待支付订单（支付参数生成失败时回收）
func (m *OrderModule) DiscardPending(ctx context.Context, tempID string) error {
	_, err := m.orderRepo.DeletePending(ctx, tempID)
	return err
}
