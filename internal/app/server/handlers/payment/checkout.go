package payment

import (
	"github.com/gin-gonic/gin"

	"paysvc/internal/app/domains/apimodel/request"
	"paysvc/internal/app/domains/apimodel/response"
	"paysvc/internal/app/domains/entity/etorder"
	"paysvc/internal/app/pkg/ginx"
)

// Checkout godoc
// @Summary      提交结账
// @Description  银行卡：暂存待支付订单并返回签名后的网关表单
// @Description  货到付款：直接创建订单
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body request.CheckoutRequest true "结账数据"
// @Success      200 {object} ginx.Response{data=response.CheckoutResponse} "银行卡：返回网关表单"
// @Success      201 {object} ginx.Response{data=response.CheckoutResponse} "货到付款：订单已创建"
// @Failure      400 {object} ginx.Response "参数错误"
// @Failure      500 {object} ginx.Response "服务器错误"
// @Router       /checkout [post]
func (h *PaymentHandler) Checkout(c *gin.Context) {
	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), req.ToOrderData())
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	if result.PaymentMethod == etorder.PaymentMethodCashOnDelivery {
		ginx.Created(c, response.FromCheckoutResult(result))
		return
	}
	ginx.Success(c, response.FromCheckoutResult(result))
}
