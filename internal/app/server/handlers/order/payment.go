package order

import (
	"github.com/gin-gonic/gin"

	"paysvc/internal/app/domains/apimodel/response"
	"paysvc/internal/app/pkg/ginx"
)

// RetryPayment godoc
// @Summary      重新支付
// @Description  为已有订单生成新的网关支付表单（invoice_id 为真实跟踪号）
// @Tags         orders
// @Produce      json
// @Param        tracking_number path string true "跟踪号"
// @Success      200 {object} ginx.Response{data=response.PaymentFormResponse} "表单已生成"
// @Failure      404 {object} ginx.Response "订单不存在"
// @Failure      409 {object} ginx.Response "订单已支付"
// @Router       /orders/{tracking_number}/payment [post]
func (h *OrderHandler) RetryPayment(c *gin.Context) {
	form, err := h.checkoutService.RetryPayment(c.Request.Context(), c.Param("tracking_number"))
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromPaymentForm(form))
}
