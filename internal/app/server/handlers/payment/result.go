package payment

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"paysvc/internal/app/domains/apimodel/response"
	"paysvc/internal/app/pkg/ginx"
)

// Result godoc
// @Summary      查询支付结果（Smart Wait）
// @Description  已结算直接返回；否则最多等待 wait 秒（上限 30），超时返回 code=3001
// @Tags         payments
// @Produce      json
// @Param        invoice_id path string true "临时跟踪号或跟踪号"
// @Param        wait query int false "等待秒数"
// @Success      200 {object} ginx.Response{data=response.PaymentResultResponse} "结果"
// @Failure      404 {object} ginx.Response "订单不存在"
// @Router       /payments/{invoice_id}/result [get]
func (h *PaymentHandler) Result(c *gin.Context) {
	invoiceID := c.Param("invoice_id")

	waitSeconds := 0
	if waitStr := c.Query("wait"); waitStr != "" {
		if w, err := strconv.Atoi(waitStr); err == nil && w > 0 {
			waitSeconds = w
		}
	}

	result, err := h.orderService.WaitForPaymentResult(c.Request.Context(), invoiceID, time.Duration(waitSeconds)*time.Second)
	if err != nil {
		ginx.FromError(c, err)
		return
	}
	if result == nil {
		pollURL := fmt.Sprintf("/api/v1/payments/%s/result?wait=10", invoiceID)
		ginx.Processing(c, invoiceID, pollURL)
		return
	}

	ginx.Success(c, response.FromPaymentResult(invoiceID, result))
}
