package etpayment

import "time"

// Delivery 回调送达方式
type Delivery string

const (
	DeliveryServer  Delivery = "server"  // 网关服务端 POST
	DeliveryBrowser Delivery = "browser" // 用户浏览器跳转返回
)

// CallbackRecord 一次网关回调的审计记录
type CallbackRecord struct {
	ID             uint64
	InvoiceID      string
	TransactionID  string
	Action         string
	Delivery       Delivery
	SignatureValid bool
	Outcome        string            // 结算结果，如 created / duplicate
	Error          string            // 失败原因（不含签名细节）
	Payload        map[string]string // 原始字段（不含 fp_hash）
	CreatedAt      time.Time
}
