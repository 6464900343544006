package euplatesc

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"paysvc/internal/app/pkg/errorx"
)

// MerchantConfig 商户配置
type MerchantConfig struct {
	MerchantID   string
	SecretKeyHex string
	ProcessURL   string // 网关支付页地址
}

// Customer 买家信息（可选字段留空即不发送）
type Customer struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	City      string
	State     string
	Zip       string
	Country   string
}

// PaymentRequest 发起支付请求
type PaymentRequest struct {
	AmountMinor      int64 // 最小货币单位（bani）
	Currency         string
	InvoiceID        string // 跟踪号（临时或正式）
	OrderDescription string
	Customer         Customer
}

// PaymentForm 浏览器提交到网关的签名参数
type PaymentForm struct {
	Action string  `json:"action"`
	Fields []Field `json:"fields"`
}

// Values 转换为 url.Values
func (f *PaymentForm) Values() url.Values {
	v := make(url.Values, len(f.Fields))
	for _, field := range f.Fields {
		v.Set(field.Name, field.Value)
	}
	return v
}

// Get 取字段值
func (f *PaymentForm) Get(name string) string {
	for _, field := range f.Fields {
		if field.Name == name {
			return field.Value
		}
	}
	return ""
}

// Initiator 构造网关支付请求
type Initiator struct {
	cfg   MerchantConfig
	clock Clock
}

// NewInitiator 创建 Initiator，clock 为 nil 时使用系统时钟
func NewInitiator(cfg MerchantConfig, clock Clock) *Initiator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Initiator{cfg: cfg, clock: clock}
}

// FormatAmount 最小货币单位转两位小数金额字符串
func FormatAmount(amountMinor int64) string {
	return decimal.New(amountMinor, -2).StringFixed(2)
}

// Prepare 生成带签名的支付参数（每次调用使用新的 timestamp 和 nonce）
func (i *Initiator) Prepare(req PaymentRequest) (*PaymentForm, error) {
	if i.cfg.MerchantID == "" {
		return nil, errorx.NewConfigurationError("euplatesc merchant id is not configured")
	}
	if i.cfg.SecretKeyHex == "" {
		return nil, errorx.NewConfigurationError("euplatesc secret key is not configured")
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	nonce, err := i.clock.Nonce()
	if err != nil {
		return nil, err
	}

	signed := map[string]string{
		"amount":     FormatAmount(req.AmountMinor),
		"curr":       req.Currency,
		"invoice_id": req.InvoiceID,
		"order_desc": req.OrderDescription,
		"merch_id":   i.cfg.MerchantID,
		"timestamp":  Timestamp(i.clock.Now()),
		"nonce":      nonce,
	}
	fields := orderedFields(RequestFieldOrder, signed)

	hash, err := Sign(BuildCanonicalString(fields), i.cfg.SecretKeyHex)
	if err != nil {
		return nil, err
	}

	fields = append(fields, customerFields(req.Customer)...)
	fields = append(fields, Field{Name: "fp_hash", Value: hash})

	return &PaymentForm{
		Action: i.cfg.ProcessURL,
		Fields: fields,
	}, nil
}

func validateRequest(req PaymentRequest) error {
	var details []errorx.ErrorDetail
	require := func(path, value string) {
		if strings.TrimSpace(value) == "" {
			details = append(details, errorx.ErrorDetail{Path: path, Info: path + " is required"})
		}
	}

	if req.AmountMinor <= 0 {
		details = append(details, errorx.ErrorDetail{Path: "amount", Info: "amount must be positive"})
	}
	require("curr", req.Currency)
	require("invoice_id", req.InvoiceID)
	require("fname", req.Customer.FirstName)
	require("lname", req.Customer.LastName)
	require("email", req.Customer.Email)

	if len(details) > 0 {
		return errorx.NewValidationError("invalid payment request", details...)
	}
	return nil
}

// customerFields 买家字段，空值直接省略
func customerFields(c Customer) []Field {
	candidates := []Field{
		{Name: "fname", Value: c.FirstName},
		{Name: "lname", Value: c.LastName},
		{Name: "email", Value: c.Email},
		{Name: "phone", Value: c.Phone},
		{Name: "address", Value: c.Address},
		{Name: "city", Value: c.City},
		{Name: "state", Value: c.State},
		{Name: "zip", Value: c.Zip},
		{Name: "country", Value: c.Country},
	}
	fields := make([]Field, 0, len(candidates))
	for _, f := range candidates {
		if f.Value != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
