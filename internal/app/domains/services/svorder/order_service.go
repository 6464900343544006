package svorder

import (
	"context"
	"errors"
	"time"

	"paysvc/internal/app/domains/entity/etorder"
	"paysvc/internal/app/domains/modules/mdorder"
	"paysvc/internal/app/domains/modules/mdresult"
	"paysvc/internal/app/pkg/errorx"
	"paysvc/internal/app/pkg/euplatesc"
	"paysvc/internal/app/pkg/logger"
)

// MaxWait Smart Wait 最长等待时间
const MaxWait = 30 * time.Second

// OrderService 订单查询服务
type OrderService struct {
	orderModule  *mdorder.OrderModule
	resultModule *mdresult.ResultModule
	logger       logger.Logger
}

// NewOrderService 创建订单服务实例
func NewOrderService(orderModule *mdorder.OrderModule, resultModule *mdresult.ResultModule, logger logger.Logger) *OrderService {
	return &OrderService{
		orderModule:  orderModule,
		resultModule: resultModule,
		logger:       logger,
	}
}

// GetOrder 根据跟踪号查询订单
func (s *OrderService) GetOrder(ctx context.Context, trackingNumber string) (*etorder.Order, error) {
	return s.orderModule.GetOrder(ctx, trackingNumber)
}

// WaitForPaymentResult 查询支付结果（Smart Wait）
// 1. 已结算直接返回
// 2. wait > 0 时订阅结果频道等待，超时返回 nil（处理中）
func (s *OrderService) WaitForPaymentResult(ctx context.Context, invoiceID string, wait time.Duration) (*mdresult.Result, error) {
	lookup := func(ctx context.Context) (*mdresult.Result, error) {
		return s.lookupResult(ctx, invoiceID)
	}

	if wait <= 0 || s.resultModule == nil {
		return lookup(ctx)
	}
	if wait > MaxWait {
		wait = MaxWait
	}

	result, err := s.resultModule.Wait(ctx, invoiceID, wait, lookup)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}
		if errors.Is(err, errorx.ErrOrderNotFound) {
			return nil, err
		}
		// 订阅失败退化为直接查询
		s.logger.WarnContext(ctx, "Wait for payment result failed",
			"invoice_id", invoiceID,
			"error", err,
		)
		return lookup(ctx)
	}
	return result, nil
}

// lookupResult 从已落库订单推导结果，尚无结果返回 nil
func (s *OrderService) lookupResult(ctx context.Context, invoiceID string) (*mdresult.Result, error) {
	var (
		order *etorder.Order
		err   error
	)
	if euplatesc.IsTempInvoice(invoiceID) {
		order, err = s.orderModule.FindBySourceTempID(ctx, invoiceID)
	} else {
		order, err = s.orderModule.GetOrder(ctx, invoiceID)
	}
	if err != nil {
		return nil, err
	}
	if order == nil || !order.IsPaid() {
		return nil, nil
	}

	result := &mdresult.Result{
		InvoiceID:      invoiceID,
		Status:         string(order.Payment.Status),
		TrackingNumber: order.TrackingNumber,
		Message:        euplatesc.TranslateStatus(euplatesc.ActionApproved).Message,
	}
	if euplatesc.IsTempInvoice(invoiceID) {
		result.Kind = "created"
	} else {
		result.Kind = "updated"
	}
	return result, nil
}
