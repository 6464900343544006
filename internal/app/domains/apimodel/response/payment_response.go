package response

// PaymentFormResponse 跳转网关所需的表单（字段顺序即提交顺序）
type PaymentFormResponse struct {
	Action string       `json:"action" example:"https://secure.euplatesc.ro/tdsprocess/tranzactd.php"`
	Fields []*FormField `json:"fields"`
}

// FormField 表单字段
type FormField struct {
	Name  string `json:"name" example:"amount"`
	Value string `json:"value" example:"135.00"`
}

// CheckoutResponse 结账响应
// 银行卡返回 temp_tracking_id + payment_form；货到付款返回 order
type CheckoutResponse struct {
	PaymentMethod  string               `json:"payment_method"`
	TempTrackingID string               `json:"temp_tracking_id,omitempty"`
	ExpiresAt      string               `json:"expires_at,omitempty"`
	PaymentForm    *PaymentFormResponse `json:"payment_form,omitempty"`
	Order          *OrderResponse       `json:"order,omitempty"`
}

// PaymentResultResponse 支付结果查询响应
type PaymentResultResponse struct {
	InvoiceID      string `json:"invoice_id"`
	Status         string `json:"status"` // paid / pending / failed
	TrackingNumber string `json:"tracking_number,omitempty"`
	Message        string `json:"message,omitempty"`
}
