package payment

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"paysvc/internal/app/domains/entity/etpayment"
	"paysvc/internal/app/domains/services/svcallback"
	"paysvc/internal/app/pkg/errorx"
	"paysvc/internal/app/pkg/euplatesc"
)

// 浏览器失败页文案
const (
	msgMissingData   = "missing payment data"
	msgInvalidData   = "invalid payment data"
	msgOrderNotFound = "order not found"
	msgInternal      = "payment could not be processed, please contact us"
)

// Callback 网关回调
// POST /api/v1/payments/euplatesc/callback  服务端通知（Accept 含 text/html 时按浏览器处理）
// GET  /api/v1/payments/euplatesc/callback  浏览器返回
func (h *PaymentHandler) Callback(c *gin.Context) {
	browser := wantsRedirect(c.Request)

	var values url.Values
	if c.Request.Method == http.MethodGet {
		values = c.Request.URL.Query()
	} else {
		if err := c.Request.ParseForm(); err != nil {
			h.respond(c, browser, nil, errorx.NewValidationError(msgInvalidData))
			return
		}
		values = c.Request.PostForm
	}

	cb := euplatesc.ParseCallback(values)
	if browser && cb.IsEmpty() {
		h.redirectFailure(c, msgMissingData)
		return
	}

	delivery := etpayment.DeliveryServer
	if browser {
		delivery = etpayment.DeliveryBrowser
	}

	settlement, err := h.callbackService.HandleCallback(c.Request.Context(), cb, delivery)
	h.respond(c, browser, settlement, err)
}

// respond 响应整形：同一次结算结果，按调用方选择纯文本确认或页面跳转
func (h *PaymentHandler) respond(c *gin.Context, browser bool, settlement *svcallback.Settlement, err error) {
	if browser {
		h.redirect(c, settlement, err)
		return
	}

	if err == nil {
		c.String(http.StatusOK, "OK")
		return
	}
	code := errorx.HTTPStatus(err)
	switch code {
	case http.StatusForbidden, http.StatusNotFound, http.StatusBadRequest:
		c.String(code, err.Error())
	default:
		c.String(http.StatusInternalServerError, "internal error")
	}
}

func (h *PaymentHandler) redirect(c *gin.Context, settlement *svcallback.Settlement, err error) {
	if err != nil {
		switch errorx.Kind(err) {
		case "signature_mismatch", "validation":
			h.redirectFailure(c, err.Error())
		case "not_found":
			h.redirectFailure(c, msgOrderNotFound)
		default:
			h.redirectFailure(c, msgInternal)
		}
		return
	}

	if !settlement.Status.Success {
		h.redirectFailure(c, settlement.Status.Message)
		return
	}

	params := url.Values{}
	if settlement.Order != nil {
		params.Set("tracking", settlement.Order.TrackingNumber)
	}
	c.Redirect(redirectStatus(c.Request), withQuery(h.storefront.SuccessURL, params))
}

func (h *PaymentHandler) redirectFailure(c *gin.Context, message string) {
	params := url.Values{}
	params.Set("error", message)
	c.Redirect(redirectStatus(c.Request), withQuery(h.storefront.FailureURL, params))
}

// wantsRedirect 浏览器返回：GET，或 Accept 声明需要 HTML
func wantsRedirect(r *http.Request) bool {
	return r.Method == http.MethodGet || strings.Contains(r.Header.Get("Accept"), "text/html")
}

func redirectStatus(r *http.Request) int {
	if r.Method == http.MethodGet {
		return http.StatusFound
	}
	return http.StatusSeeOther
}

// withQuery 在已有 URL 上追加查询参数
func withQuery(base string, params url.Values) string {
	if len(params) == 0 {
		return base
	}
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	for key, vals := range params {
		for _, v := range vals {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
