package svcheckout

import (
	"context"
	"fmt"
	"time"

	"paysvc/internal/app/domains/entity/etorder"
	"paysvc/internal/app/domains/modules/mdnotify"
	"paysvc/internal/app/domains/modules/mdorder"
	"paysvc/internal/app/pkg/errorx"
	"paysvc/internal/app/pkg/euplatesc"
	"paysvc/internal/app/pkg/logger"
)

// PaymentPreparer 生成网关支付参数（由 euplatesc.Initiator 实现）
type PaymentPreparer interface {
	Prepare(req euplatesc.PaymentRequest) (*euplatesc.PaymentForm, error)
}

// CheckoutResult 结账结果
// 银行卡：Pending + Form；货到付款：Order
type CheckoutResult struct {
	PaymentMethod etorder.PaymentMethod
	Pending       *etorder.PendingOrder
	Order         *etorder.Order
	Form          *euplatesc.PaymentForm
}

// CheckoutService 结账服务
type CheckoutService struct {
	orderModule *mdorder.OrderModule
	notifier    mdnotify.Notifier
	preparer    PaymentPreparer
	pendingTTL  time.Duration
	currency    string
	logger      logger.Logger
}

// NewCheckoutService 创建结账服务实例
func NewCheckoutService(
	orderModule *mdorder.OrderModule,
	notifier mdnotify.Notifier,
	preparer PaymentPreparer,
	pendingTTL time.Duration,
	currency string,
	logger logger.Logger,
) *CheckoutService {
	return &CheckoutService{
		orderModule: orderModule,
		notifier:    notifier,
		preparer:    preparer,
		pendingTTL:  pendingTTL,
		currency:    currency,
		logger:      logger,
	}
}

// Checkout 提交结账
// 1. 服务端重新计算金额，币种缺省取商户配置
// 2. 银行卡：暂存待支付订单，生成签名支付参数（invoice_id = 临时跟踪号）
// 3. 货到付款：直接创建订单并发送确认通知
func (s *CheckoutService) Checkout(ctx context.Context, data *etorder.OrderData) (*CheckoutResult, error) {
	if data.Currency == "" {
		data.Currency = s.currency
	}
	data.ComputeTotals()
	if err := data.Validate(); err != nil {
		return nil, errorx.NewValidationError(err.Error())
	}

	switch data.PaymentMethod {
	case etorder.PaymentMethodCard:
		return s.checkoutCard(ctx, data)
	case etorder.PaymentMethodCashOnDelivery:
		return s.checkoutCashOnDelivery(ctx, data)
	default:
		return nil, errorx.NewValidationError("unsupported payment method", errorx.ErrorDetail{
			Path: "payment_method",
			Info: fmt.Sprintf("payment_method %q is not supported", data.PaymentMethod),
		})
	}
}

func (s *CheckoutService) checkoutCard(ctx context.Context, data *etorder.OrderData) (*CheckoutResult, error) {
	pending, err := s.orderModule.StagePending(ctx, data, s.pendingTTL)
	if err != nil {
		return nil, fmt.Errorf("stage pending order failed: %w", err)
	}

	form, err := s.preparer.Prepare(paymentRequest(pending.TempTrackingID, data))
	if err != nil {
		if discardErr := s.orderModule.DiscardPending(ctx, pending.TempTrackingID); discardErr != nil {
			s.logger.WarnContext(ctx, "Failed to discard pending order",
				"temp_tracking_id", pending.TempTrackingID,
				"error", discardErr,
			)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "Pending order staged",
		"temp_tracking_id", pending.TempTrackingID,
		"total", data.Total,
		"expires_at", pending.ExpiresAt,
	)

	return &CheckoutResult{
		PaymentMethod: etorder.PaymentMethodCard,
		Pending:       pending,
		Form:          form,
	}, nil
}

func (s *CheckoutService) checkoutCashOnDelivery(ctx context.Context, data *etorder.OrderData) (*CheckoutResult, error) {
	order, err := s.orderModule.CreateOrder(ctx, data, &etorder.Payment{
		Method: etorder.PaymentMethodCashOnDelivery,
		Status: etorder.PaymentStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create order failed: %w", err)
	}

	if err := s.notifier.NotifyOrderConfirmed(ctx, order); err != nil {
		s.logger.WarnContext(ctx, "Failed to dispatch notification",
			"tracking_number", order.TrackingNumber,
			"error", err,
		)
	}

	s.logger.InfoContext(ctx, "Order created",
		"tracking_number", order.TrackingNumber,
		"payment_method", order.Payment.Method,
	)

	return &CheckoutResult{
		PaymentMethod: etorder.PaymentMethodCashOnDelivery,
		Order:         order,
	}, nil
}

// RetryPayment 为已有订单重新生成支付参数（invoice_id = 真实跟踪号）
func (s *CheckoutService) RetryPayment(ctx context.Context, trackingNumber string) (*euplatesc.PaymentForm, error) {
	order, err := s.orderModule.GetOrder(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}
	if order.IsPaid() {
		return nil, errorx.ErrOrderAlreadyPaid
	}

	data := &etorder.OrderData{
		Billing:  order.Billing,
		Total:    order.Total,
		Currency: order.Currency,
	}
	return s.preparer.Prepare(paymentRequest(order.TrackingNumber, data))
}

// paymentRequest 由订单数据构造网关支付请求
func paymentRequest(invoiceID string, data *etorder.OrderData) euplatesc.PaymentRequest {
	req := euplatesc.PaymentRequest{
		AmountMinor:      data.Total,
		Currency:         data.Currency,
		InvoiceID:        invoiceID,
		OrderDescription: "Order " + invoiceID,
	}
	if b := data.Billing; b != nil {
		req.Customer = euplatesc.Customer{
			FirstName: b.FirstName,
			LastName:  b.LastName,
			Email:     b.Email,
			Phone:     b.Phone,
			Address:   b.Street,
			City:      b.City,
			State:     b.State,
			Zip:       b.Zip,
			Country:   b.Country,
		}
	}
	return req
}
