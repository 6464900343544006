package order

import (
	"paysvc/internal/app/domains/services/svcheckout"
	"paysvc/internal/app/domains/services/svorder"
)

// OrderHandler 订单 HTTP 处理器
type OrderHandler struct {
	orderService    *svorder.OrderService
	checkoutService *svcheckout.CheckoutService
}

// NewOrderHandler 创建订单处理器实例
func NewOrderHandler(orderService *svorder.OrderService, checkoutService *svcheckout.CheckoutService) *OrderHandler {
	return &OrderHandler{
		orderService:    orderService,
		checkoutService: checkoutService,
	}
}
