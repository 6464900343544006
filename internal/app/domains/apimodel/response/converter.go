package response

import (
	"time"

	"paysvc/internal/app/domains/entity/etorder"
	"paysvc/internal/app/domains/modules/mdresult"
	"paysvc/internal/app/domains/services/svcheckout"
	"paysvc/internal/app/pkg/euplatesc"
)

// FromOrderEntity 从领域对象转换为响应 DTO
func FromOrderEntity(order *etorder.Order) *OrderResponse {
	resp := &OrderResponse{
		TrackingNumber: order.TrackingNumber,
		Status:         string(order.Status),
		Items:          fromItemsEntity(order.Items),
		Subtotal:       order.Subtotal,
		ShippingCost:   order.ShippingCost,
		Discount:       order.Discount,
		Total:          order.Total,
		Currency:       order.Currency,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
	if order.Payment != nil {
		resp.Payment = &PaymentSummary{
			Method: string(order.Payment.Method),
			Status: string(order.Payment.Status),
		}
	}
	return resp
}

func fromItemsEntity(entities []*etorder.Item) []*Item {
	items := make([]*Item, 0, len(entities))
	for _, item := range entities {
		items = append(items, &Item{
			Name:      item.Name,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return items
}

// FromPaymentForm 网关表单转换为响应 DTO
func FromPaymentForm(form *euplatesc.PaymentForm) *PaymentFormResponse {
	fields := make([]*FormField, 0, len(form.Fields))
	for _, f := range form.Fields {
		fields = append(fields, &FormField{Name: f.Name, Value: f.Value})
	}
	return &PaymentFormResponse{Action: form.Action, Fields: fields}
}

// FromCheckoutResult 结账结果转换为响应 DTO
func FromCheckoutResult(result *svcheckout.CheckoutResult) *CheckoutResponse {
	resp := &CheckoutResponse{PaymentMethod: string(result.PaymentMethod)}
	if result.Pending != nil {
		resp.TempTrackingID = result.Pending.TempTrackingID
		resp.ExpiresAt = result.Pending.ExpiresAt.UTC().Format(time.RFC3339)
	}
	if result.Form != nil {
		resp.PaymentForm = FromPaymentForm(result.Form)
	}
	if result.Order != nil {
		resp.Order = FromOrderEntity(result.Order)
	}
	return resp
}

// FromPaymentResult 结算结果转换为响应 DTO
func FromPaymentResult(invoiceID string, result *mdresult.Result) *PaymentResultResponse {
	return &PaymentResultResponse{
		InvoiceID:      invoiceID,
		Status:         result.Status,
		TrackingNumber: result.TrackingNumber,
		Message:        result.Message,
	}
}
