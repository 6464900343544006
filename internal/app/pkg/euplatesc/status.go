package euplatesc

// PaymentStatus 支付结果三态
type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "paid"
	StatusPending PaymentStatus = "pending"
	StatusFailed  PaymentStatus = "failed"
)

// 网关 action 码
const (
	ActionApproved  = "0"
	ActionFailed    = "1"
	ActionPending   = "2"
	ActionCancelled = "3"
)

// StatusResult 状态翻译结果
type StatusResult struct {
	Success bool
	Status  PaymentStatus
	Message string
}

// TranslateStatus 将网关 action 码翻译为支付结果，未知码一律视为失败
func TranslateStatus(action string) StatusResult {
	switch action {
	case ActionApproved:
		return StatusResult{Success: true, Status: StatusPaid, Message: "payment approved"}
	case ActionFailed:
		return StatusResult{Status: StatusFailed, Message: "payment failed"}
	case ActionPending:
		return StatusResult{Status: StatusPending, Message: "waiting for bank confirmation"}
	case ActionCancelled:
		return StatusResult{Status: StatusFailed, Message: "cancelled by user"}
	default:
		return StatusResult{Status: StatusFailed, Message: "unknown payment status"}
	}
}
