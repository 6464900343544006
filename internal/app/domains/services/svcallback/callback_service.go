package svcallback

import (
	"context"
	"errors"
	"fmt"

	"paysvc/internal/app/domains/entity/etorder"
	"paysvc/internal/app/domains/entity/etpayment"
	"paysvc/internal/app/domains/modules/mdnotify"
	"paysvc/internal/app/domains/modules/mdorder"
	"paysvc/internal/app/domains/modules/mdresult"
	"paysvc/internal/app/domains/repo/rpcallback"
	"paysvc/internal/app/domains/repo/rporder"
	"paysvc/internal/app/pkg/errorx"
	"paysvc/internal/app/pkg/euplatesc"
	"paysvc/internal/app/pkg/logger"
)

// SettlementKind 回调结算分类
type SettlementKind string

const (
	KindCreated      SettlementKind = "created"      // 本次回调生成了新订单
	KindDuplicate    SettlementKind = "duplicate"    // 重复回调，订单已存在
	KindUpdated      SettlementKind = "updated"      // 已有订单支付信息已更新
	KindIgnored      SettlementKind = "ignored"      // 临时单支付未成功，不做处理
	KindNotFound     SettlementKind = "not_found"    // 跟踪号无对应订单
	KindInconsistent SettlementKind = "inconsistent" // 支付成功但既无待支付订单也无订单
)

// Settlement 结算结果
type Settlement struct {
	Kind   SettlementKind
	Order  *etorder.Order // created / duplicate / updated 时非空
	Status euplatesc.StatusResult
}

// ResultPublisher 结算结果广播
type ResultPublisher interface {
	Publish(ctx context.Context, result *mdresult.Result) error
}

// CallbackService 网关回调处理服务
// 职责：
// 1. 校验签名
// 2. 幂等结算：待支付订单 → 唯一正式订单，或更新已有订单支付信息
// 3. 仅在新建订单/首次支付成功时发送通知
// 4. 审计日志与 Redis 结果广播（失败只记录日志）
type CallbackService struct {
	orderModule *mdorder.OrderModule
	callbackLog rpcallback.CallbackLogRepository
	notifier    mdnotify.Notifier
	results     ResultPublisher
	secretKey   string
	logger      logger.Logger
}

// NewCallbackService 创建回调服务实例，callbackLog / results 可为 nil
func NewCallbackService(
	orderModule *mdorder.OrderModule,
	callbackLog rpcallback.CallbackLogRepository,
	notifier mdnotify.Notifier,
	results ResultPublisher,
	secretKey string,
	logger logger.Logger,
) *CallbackService {
	return &CallbackService{
		orderModule: orderModule,
		callbackLog: callbackLog,
		notifier:    notifier,
		results:     results,
		secretKey:   secretKey,
		logger:      logger,
	}
}

// HandleCallback 处理一次回调（服务端 POST 或浏览器返回），结算只执行一次
func (s *CallbackService) HandleCallback(ctx context.Context, cb *euplatesc.Callback, delivery etpayment.Delivery) (*Settlement, error) {
	s.logger.InfoContext(ctx, "Processing payment callback",
		"invoice_id", cb.InvoiceID,
		"ep_id", cb.TransactionID,
		"action", cb.Action,
		"delivery", delivery,
	)

	settlement, err := s.Reconcile(ctx, cb)

	s.audit(ctx, cb, delivery, settlement, err)

	if err != nil {
		s.logFailure(ctx, cb, err)
		return settlement, err
	}

	if err := s.publishResult(ctx, cb, settlement); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish settlement result",
			"invoice_id", cb.InvoiceID,
			"error", err,
		)
	}

	s.logger.InfoContext(ctx, "Payment callback processed",
		"invoice_id", cb.InvoiceID,
		"kind", settlement.Kind,
		"status", settlement.Status.Status,
	)
	return settlement, nil
}

// Reconcile 回调状态机
func (s *CallbackService) Reconcile(ctx context.Context, cb *euplatesc.Callback) (*Settlement, error) {
	// 1. 签名校验：失败时不读取任何存储
	if !cb.VerifySignature(s.secretKey) {
		return nil, &errorx.SignatureMismatchError{InvoiceID: cb.InvoiceID}
	}

	// 2. 翻译网关状态码
	status := euplatesc.TranslateStatus(cb.Action)

	// 3. 按跟踪号类型分流
	if cb.IsTemp() {
		return s.settleTemp(ctx, cb, status)
	}
	return s.settleExisting(ctx, cb, status)
}

// settleTemp 临时跟踪号：仅支付成功时消费待支付订单
func (s *CallbackService) settleTemp(ctx context.Context, cb *euplatesc.Callback, status euplatesc.StatusResult) (*Settlement, error) {
	if !status.Success {
		return &Settlement{Kind: KindIgnored, Status: status}, nil
	}

	order, err := s.orderModule.SettlePending(ctx, cb.InvoiceID, paymentFromCallback(cb, status))
	if err == nil {
		s.notify(ctx, mdnotify.JobOrderConfirmed, order)
		return &Settlement{Kind: KindCreated, Order: order, Status: status}, nil
	}

	// 待支付订单已被消费或并发回调插入冲突：按交易号判断是否重复
	existing, lookupErr := s.findSettled(ctx, cb)
	if lookupErr != nil {
		return nil, lookupErr
	}
	if existing != nil {
		return &Settlement{Kind: KindDuplicate, Order: existing, Status: status}, nil
	}

	if errors.Is(err, errorx.ErrPendingOrderNotFound) {
		return &Settlement{Kind: KindInconsistent, Status: status}, &errorx.ReconciliationError{
			TempTrackingID: cb.InvoiceID,
			TransactionID:  cb.TransactionID,
			Reason:         "no pending order and no order for transaction",
		}
	}
	return nil, fmt.Errorf("settle pending order failed: %w", err)
}

// findSettled 查找已由该回调结算的订单，缺少 ep_id 时退回按来源临时跟踪号查找
func (s *CallbackService) findSettled(ctx context.Context, cb *euplatesc.Callback) (*etorder.Order, error) {
	if cb.TransactionID != "" {
		order, err := s.orderModule.FindByTransactionID(ctx, cb.TransactionID)
		if err != nil {
			return nil, fmt.Errorf("lookup order by transaction failed: %w", err)
		}
		if order != nil {
			return order, nil
		}
	}
	order, err := s.orderModule.FindBySourceTempID(ctx, cb.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("lookup order by temp tracking id failed: %w", err)
	}
	return order, nil
}

// settleExisting 真实跟踪号：更新订单支付信息，已支付订单不降级
func (s *CallbackService) settleExisting(ctx context.Context, cb *euplatesc.Callback, status euplatesc.StatusResult) (*Settlement, error) {
	result, err := s.orderModule.UpdatePayment(ctx, cb.InvoiceID, paymentFromCallback(cb, status))
	if err != nil {
		if errors.Is(err, errorx.ErrOrderNotFound) {
			return &Settlement{Kind: KindNotFound, Status: status}, err
		}
		return nil, fmt.Errorf("update order payment failed: %w", err)
	}

	order, err := s.orderModule.GetOrder(ctx, cb.InvoiceID)
	if err != nil {
		return nil, fmt.Errorf("reload order failed: %w", err)
	}

	if result == rporder.PaymentAlreadyPaid {
		return &Settlement{Kind: KindDuplicate, Order: order, Status: status}, nil
	}

	// 条件更新保证只有第一次转为 paid 会走到这里
	if status.Status == euplatesc.StatusPaid {
		s.notify(ctx, mdnotify.JobPaymentConfirmed, order)
	}
	return &Settlement{Kind: KindUpdated, Order: order, Status: status}, nil
}

// notify 通知失败不影响结算结果
func (s *CallbackService) notify(ctx context.Context, jobType string, order *etorder.Order) {
	var err error
	switch jobType {
	case mdnotify.JobOrderConfirmed:
		err = s.notifier.NotifyOrderConfirmed(ctx, order)
	case mdnotify.JobPaymentConfirmed:
		err = s.notifier.NotifyPaymentConfirmed(ctx, order)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to dispatch notification",
			"type", jobType,
			"tracking_number", order.TrackingNumber,
			"error", err,
		)
	}
}

// audit 写入回调审计日志
func (s *CallbackService) audit(ctx context.Context, cb *euplatesc.Callback, delivery etpayment.Delivery, settlement *Settlement, err error) {
	if s.callbackLog == nil {
		return
	}

	var sigErr *errorx.SignatureMismatchError
	record := &etpayment.CallbackRecord{
		InvoiceID:      cb.InvoiceID,
		TransactionID:  cb.TransactionID,
		Action:         cb.Action,
		Delivery:       delivery,
		SignatureValid: !errors.As(err, &sigErr),
		Payload:        cb.Values(),
	}
	if settlement != nil {
		record.Outcome = string(settlement.Kind)
	} else {
		record.Outcome = errorx.Kind(err)
	}
	if err != nil {
		record.Error = err.Error()
	}

	if logErr := s.callbackLog.Create(ctx, record); logErr != nil {
		s.logger.WarnContext(ctx, "Failed to write callback log",
			"invoice_id", cb.InvoiceID,
			"error", logErr,
		)
	}
}

// publishResult 广播结算结果（Smart Wait）
func (s *CallbackService) publishResult(ctx context.Context, cb *euplatesc.Callback, settlement *Settlement) error {
	if s.results == nil {
		return nil
	}
	result := &mdresult.Result{
		InvoiceID: cb.InvoiceID,
		Kind:      string(settlement.Kind),
		Status:    string(settlement.Status.Status),
		Message:   settlement.Status.Message,
	}
	if settlement.Order != nil {
		result.TrackingNumber = settlement.Order.TrackingNumber
	}
	return s.results.Publish(ctx, result)
}

func (s *CallbackService) logFailure(ctx context.Context, cb *euplatesc.Callback, err error) {
	var recErr *errorx.ReconciliationError
	switch {
	case errors.As(err, &recErr):
		// 需要人工对账
		s.logger.ErrorContext(ctx, "Payment reconciliation failed",
			"temp_tracking_id", recErr.TempTrackingID,
			"ep_id", recErr.TransactionID,
			"error", err,
		)
	case errorx.Kind(err) == "internal":
		s.logger.ErrorContext(ctx, "Payment callback failed",
			"invoice_id", cb.InvoiceID,
			"ep_id", cb.TransactionID,
			"error", err,
		)
	default:
		s.logger.WarnContext(ctx, "Payment callback rejected",
			"invoice_id", cb.InvoiceID,
			"kind", errorx.Kind(err),
		)
	}
}

// paymentFromCallback 由回调字段构造支付信息
func paymentFromCallback(cb *euplatesc.Callback, status euplatesc.StatusResult) *etorder.Payment {
	return &etorder.Payment{
		Method:        etorder.PaymentMethodCard,
		Status:        etorder.PaymentStatus(status.Status),
		TransactionID: cb.TransactionID,
		GatewayData: &etorder.GatewayData{
			Action:        cb.Action,
			Message:       cb.Message,
			Approval:      cb.Approval,
			Timestamp:     cb.Timestamp,
			Amount:        cb.Amount,
			Currency:      cb.Currency,
			Nonce:         cb.Nonce,
			TransactionID: cb.TransactionID,
		},
	}
}
