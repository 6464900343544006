package rporder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"paysvc/internal/app/domains/entity/etorder"
	"paysvc/internal/app/pkg/errorx"
	"paysvc/internal/common/entity"
)

// OrderRepositoryImpl 订单仓储实现（MySQL）
type OrderRepositoryImpl struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储实例
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

// Create 创建订单，将领域对象转换为 GORM 模型后存储
func (r *OrderRepositoryImpl) Create(ctx context.Context, order *etorder.Order) error {
	return r.create(r.db.WithContext(ctx), order)
}

func (r *OrderRepositoryImpl) create(db *gorm.DB, order *etorder.Order) error {
	po, err := toGormModel(order)
	if err != nil {
		return err
	}
	if err := db.Create(po).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %v", errorx.ErrDuplicateTransaction, err)
		}
		return err
	}
	return nil
}

// GetByTrackingNumber 根据跟踪号查询订单
func (r *OrderRepositoryImpl) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*etorder.Order, error) {
	order, err := r.findOne(ctx, "tracking_number = ?", trackingNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errorx.NewOrderNotFound(trackingNumber)
	}
	return order, nil
}

// FindByTransactionID 根据网关交易号查询（用于重复回调判断）
func (r *OrderRepositoryImpl) FindByTransactionID(ctx context.Context, transactionID string) (*etorder.Order, error) {
	if transactionID == "" {
		return nil, nil
	}
	return r.findOne(ctx, "payment_transaction_id = ?", transactionID)
}

// FindBySourceTempID 根据来源临时跟踪号查询
func (r *OrderRepositoryImpl) FindBySourceTempID(ctx context.Context, tempID string) (*etorder.Order, error) {
	return r.findOne(ctx, "source_temp_id = ?", tempID)
}

func (r *OrderRepositoryImpl) findOne(ctx context.Context, query string, arg interface{}) (*etorder.Order, error) {
	var po entity.Order
	err := r.db.WithContext(ctx).Where(query, arg).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainModel(&po)
}

// UpdatePayment 条件更新：payment_status 已为 paid 的行不会被匹配
func (r *OrderRepositoryImpl) UpdatePayment(ctx context.Context, trackingNumber string, payment *etorder.Payment) (PaymentUpdateResult, error) {
	updates := map[string]interface{}{
		"payment_status": string(payment.Status),
		"updated_at":     time.Now(),
	}
	if payment.TransactionID != "" {
		updates["payment_transaction_id"] = payment.TransactionID
	}
	if payment.GatewayData != nil {
		gatewayJSON, err := json.Marshal(payment.GatewayData)
		if err != nil {
			return 0, err
		}
		updates["gateway_data"] = datatypes.JSON(gatewayJSON)
	}

	result := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("tracking_number = ? AND payment_status <> ?", trackingNumber, string(etorder.PaymentStatusPaid)).
		Updates(updates)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return 0, fmt.Errorf("%w: %v", errorx.ErrDuplicateTransaction, result.Error)
		}
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		return PaymentUpdated, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("tracking_number = ?", trackingNumber).
		Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, errorx.NewOrderNotFound(trackingNumber)
	}
	return PaymentAlreadyPaid, nil
}

// CreatePending 暂存待支付订单
func (r *OrderRepositoryImpl) CreatePending(ctx context.Context, pending *etorder.PendingOrder) error {
	dataJSON, err := json.Marshal(pending.OrderData)
	if err != nil {
		return err
	}
	po := &entity.PendingOrder{
		TempTrackingID: pending.TempTrackingID,
		OrderData:      dataJSON,
		CreatedAt:      pending.CreatedAt,
		ExpiresAt:      pending.ExpiresAt,
	}
	return r.db.WithContext(ctx).Create(po).Error
}

// FindPending 查询待支付订单
func (r *OrderRepositoryImpl) FindPending(ctx context.Context, tempID string) (*etorder.PendingOrder, error) {
	return findPending(r.db.WithContext(ctx), tempID)
}

func findPending(db *gorm.DB, tempID string) (*etorder.PendingOrder, error) {
	var po entity.PendingOrder
	if err := db.Where("temp_tracking_id = ?", tempID).First(&po).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toPendingDomainModel(&po)
}

// DeletePending 删除待支付订单
func (r *OrderRepositoryImpl) DeletePending(ctx context.Context, tempID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("temp_tracking_id = ?", tempID).
		Delete(&entity.PendingOrder{})
	return result.RowsAffected > 0, result.Error
}

// DeleteExpiredPending 清理过期待支付订单
func (r *OrderRepositoryImpl) DeleteExpiredPending(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&entity.PendingOrder{})
	return result.RowsAffected, result.Error
}

// ConsumePending 消费待支付订单并创建正式订单
// 并发回调时 DELETE 的行锁保证只有一个事务 RowsAffected == 1
func (r *OrderRepositoryImpl) ConsumePending(ctx context.Context, tempID string, build BuildOrderFunc) (*etorder.Order, error) {
	var created *etorder.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pending, err := findPending(tx, tempID)
		if err != nil {
			return fmt.Errorf("load pending order failed: %w", err)
		}
		if pending == nil {
			return errorx.ErrPendingOrderNotFound
		}

		result := tx.Where("temp_tracking_id = ?", tempID).Delete(&entity.PendingOrder{})
		if result.Error != nil {
			return fmt.Errorf("delete pending order failed: %w", result.Error)
		}
		if result.RowsAffected != 1 {
			return errorx.ErrPendingOrderNotFound
		}

		order, err := build(pending)
		if err != nil {
			return fmt.Errorf("build order failed: %w", err)
		}
		if err := r.create(tx, order); err != nil {
			return fmt.Errorf("save order failed: %w", err)
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// toGormModel 领域对象转换为 GORM 模型
func toGormModel(order *etorder.Order) (*entity.Order, error) {
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return nil, err
	}
	shippingJSON, err := json.Marshal(order.Shipping)
	if err != nil {
		return nil, err
	}
	billingJSON, err := json.Marshal(order.Billing)
	if err != nil {
		return nil, err
	}

	po := &entity.Order{
		ID:             order.ID,
		TrackingNumber: order.TrackingNumber,
		Items:          itemsJSON,
		Shipping:       shippingJSON,
		Billing:        billingJSON,
		Subtotal:       order.Subtotal,
		ShippingCost:   order.ShippingCost,
		Discount:       order.Discount,
		Total:          order.Total,
		Currency:       order.Currency,
		Status:         string(order.Status),
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
	if order.SourceTempID != "" {
		tempID := order.SourceTempID
		po.SourceTempID = &tempID
	}

	if p := order.Payment; p != nil {
		po.PaymentMethod = string(p.Method)
		po.PaymentStatus = string(p.Status)
		if p.TransactionID != "" {
			txID := p.TransactionID
			po.PaymentTransactionID = &txID
		}
		if p.GatewayData != nil {
			gatewayJSON, err := json.Marshal(p.GatewayData)
			if err != nil {
				return nil, err
			}
			po.GatewayData = gatewayJSON
		}
	}

	return po, nil
}

// toDomainModel GORM 模型转换为领域对象
func toDomainModel(po *entity.Order) (*etorder.Order, error) {
	order := &etorder.Order{
		ID:             po.ID,
		TrackingNumber: po.TrackingNumber,
		Subtotal:       po.Subtotal,
		ShippingCost:   po.ShippingCost,
		Discount:       po.Discount,
		Total:          po.Total,
		Currency:       po.Currency,
		Status:         etorder.OrderStatus(po.Status),
		CreatedAt:      po.CreatedAt,
		UpdatedAt:      po.UpdatedAt,
		Payment: &etorder.Payment{
			Method: etorder.PaymentMethod(po.PaymentMethod),
			Status: etorder.PaymentStatus(po.PaymentStatus),
		},
	}
	if po.SourceTempID != nil {
		order.SourceTempID = *po.SourceTempID
	}
	if po.PaymentTransactionID != nil {
		order.Payment.TransactionID = *po.PaymentTransactionID
	}

	if err := json.Unmarshal(po.Items, &order.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(po.Shipping, &order.Shipping); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(po.Billing, &order.Billing); err != nil {
		return nil, err
	}
	if len(po.GatewayData) > 0 {
		var gateway etorder.GatewayData
		if err := json.Unmarshal(po.GatewayData, &gateway); err != nil {
			return nil, err
		}
		order.Payment.GatewayData = &gateway
	}

	return order, nil
}

func toPendingDomainModel(po *entity.PendingOrder) (*etorder.PendingOrder, error) {
	var data etorder.OrderData
	if err := json.Unmarshal(po.OrderData, &data); err != nil {
		return nil, err
	}
	return &etorder.PendingOrder{
		TempTrackingID: po.TempTrackingID,
		OrderData:      &data,
		CreatedAt:      po.CreatedAt,
		ExpiresAt:      po.ExpiresAt,
	}, nil
}
