package payment

import (
	"paysvc/internal/app/domains/services/svcallback"
	"paysvc/internal/app/domains/services/svcheckout"
	"paysvc/internal/app/domains/services/svorder"
)

// Storefront 浏览器返回后的跳转页面
type Storefront struct {
	SuccessURL string
	FailureURL string
}

// PaymentHandler 支付 HTTP 处理器
type PaymentHandler struct {
	checkoutService *svcheckout.CheckoutService
	callbackService *svcallback.CallbackService
	orderService    *svorder.OrderService
	storefront      Storefront
}

// NewPaymentHandler 创建支付处理器实例
func NewPaymentHandler(
	checkoutService *svcheckout.CheckoutService,
	callbackService *svcallback.CallbackService,
	orderService *svorder.OrderService,
	storefront Storefront,
) *PaymentHandler {
	return &PaymentHandler{
		checkoutService: checkoutService,
		callbackService: callbackService,
		orderService:    orderService,
		storefront:      storefront,
	}
}
