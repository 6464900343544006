package euplatesc

import (
	"net/url"
	"strings"
)

// TempInvoicePrefix 临时跟踪号前缀（支付成功前使用）
const TempInvoicePrefix = "TEMP-"

// Callback 网关回调（服务端 POST 表单或浏览器 GET 参数）
type Callback struct {
	Amount        string
	Currency      string
	InvoiceID     string
	TransactionID string // ep_id
	MerchantID    string
	Action        string
	Message       string
	Approval      string
	Timestamp     string
	Nonce         string
	Hash          string // fp_hash
}

// ParseCallback 从表单/查询参数解析回调，字段值原样保留（签名覆盖原始值）
func ParseCallback(values url.Values) *Callback {
	get := values.Get
	return &Callback{
		Amount:        get("amount"),
		Currency:      get("curr"),
		InvoiceID:     get("invoice_id"),
		TransactionID: get("ep_id"),
		MerchantID:    get("merch_id"),
		Action:        get("action"),
		Message:       get("message"),
		Approval:      get("approval"),
		Timestamp:     get("timestamp"),
		Nonce:         get("nonce"),
		Hash:          get("fp_hash"),
	}
}

// Fields 按回调签名顺序返回字段
func (c *Callback) Fields() []Field {
	return orderedFields(CallbackFieldOrder, c.Values())
}

// Values 回调原始字段（不含 fp_hash），用于签名和审计
func (c *Callback) Values() map[string]string {
	return map[string]string{
		"amount":     c.Amount,
		"curr":       c.Currency,
		"invoice_id": c.InvoiceID,
		"ep_id":      c.TransactionID,
		"merch_id":   c.MerchantID,
		"action":     c.Action,
		"message":    c.Message,
		"approval":   c.Approval,
		"timestamp":  c.Timestamp,
		"nonce":      c.Nonce,
	}
}

// VerifySignature 使用回调自身字段校验 fp_hash
func (c *Callback) VerifySignature(secretKeyHex string) bool {
	if c.Hash == "" {
		return false
	}
	return Verify(c.Hash, BuildCanonicalString(c.Fields()), secretKeyHex)
}

// IsTemp 回调引用的是否为临时跟踪号
func (c *Callback) IsTemp() bool {
	return IsTempInvoice(c.InvoiceID)
}

// IsEmpty 浏览器返回时缺少支付数据
func (c *Callback) IsEmpty() bool {
	return c.InvoiceID == "" && c.Action == "" && c.Hash == ""
}

// IsTempInvoice 判断跟踪号是否为临时跟踪号
func IsTempInvoice(invoiceID string) bool {
	return strings.HasPrefix(invoiceID, TempInvoicePrefix)
}
