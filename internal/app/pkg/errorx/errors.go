package errorx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// 业务错误
var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrPendingOrderNotFound = errors.New("pending order not found")
	ErrOrderAlreadyPaid     = errors.New("order already paid")
	ErrDuplicateTransaction = errors.New("duplicate gateway transaction")
)

// ErrorDetail 错误详情
type ErrorDetail struct {
	Path string
	Info string
}

// ConfigurationError 商户配置缺失或非法
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// NewConfigurationError 创建配置错误
func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError 请求字段校验失败
type ValidationError struct {
	Message string
	Details []ErrorDetail
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Details[0].Info)
}

// NewValidationError 创建校验错误
func NewValidationError(message string, details ...ErrorDetail) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

// SignatureMismatchError 回调签名校验失败。不携带任何签名比对细节
type SignatureMismatchError struct {
	InvoiceID string
}

func (e *SignatureMismatchError) Error() string {
	return "invalid signature"
}

// ReconciliationError 支付成功但既无待支付订单也无已建订单
type ReconciliationError struct {
	TempTrackingID string
	TransactionID  string
	Reason         string
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation failed: temp_id=%s, transaction_id=%s: %s",
		e.TempTrackingID, e.TransactionID, e.Reason)
}

// NotFoundError 资源不存在
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// Is 使 errors.Is(err, ErrOrderNotFound) 对订单 NotFoundError 成立
func (e *NotFoundError) Is(target error) bool {
	return target == ErrOrderNotFound && e.Resource == "order"
}

// NewOrderNotFound 订单不存在
func NewOrderNotFound(trackingNumber string) *NotFoundError {
	return &NotFoundError{Resource: "order", ID: trackingNumber}
}

// Kind 错误分类（日志与审计使用）
func Kind(err error) string {
	var (
		cfgErr   *ConfigurationError
		valErr   *ValidationError
		sigErr   *SignatureMismatchError
		recErr   *ReconciliationError
		notFound *NotFoundError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &cfgErr):
		return "configuration"
	case errors.As(err, &valErr):
		return "validation"
	case errors.As(err, &sigErr):
		return "signature_mismatch"
	case errors.As(err, &recErr):
		return "reconciliation"
	case errors.As(err, &notFound), errors.Is(err, ErrOrderNotFound):
		return "not_found"
	case errors.Is(err, ErrOrderAlreadyPaid):
		return "conflict"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "internal"
	}
}

// HTTPStatus 错误对应的 HTTP 状态码
func HTTPStatus(err error) int {
	switch Kind(err) {
	case "":
		return http.StatusOK
	case "validation":
		return http.StatusBadRequest
	case "signature_mismatch":
		return http.StatusForbidden
	case "not_found":
		return http.StatusNotFound
	case "conflict":
		return http.StatusConflict
	case "timeout":
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
