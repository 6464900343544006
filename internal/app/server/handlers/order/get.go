package order

import (
	"github.com/gin-gonic/gin"

	"paysvc/internal/app/domains/apimodel/response"
	"paysvc/internal/app/pkg/ginx"
)

// Get godoc
// @Summary      查询订单
// @Description  根据跟踪号查询订单（支付状态、金额、商品）
// @Tags         orders
// @Produce      json
// @Param        tracking_number path string true "跟踪号 XXXX-XXXX-XXXX"
// @Success      200 {object} ginx.Response{data=response.OrderResponse} "查询成功"
// @Failure      404 {object} ginx.Response "订单不存在"
// @Failure      500 {object} ginx.Response "服务器错误"
// @Router       /orders/{tracking_number} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	trackingNumber := c.Param("tracking_number")
	if trackingNumber == "" {
		ginx.BadRequest(c, "tracking_number required")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), trackingNumber)
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromOrderEntity(order))
}
