package rpcallback

import (
	"context"

	"paysvc/internal/app/domains/entity/etpayment"
)

// CallbackLogRepository 回调审计日志仓储
type CallbackLogRepository interface {
	// Create 写入一条审计记录
	Create(ctx context.Context, record *etpayment.CallbackRecord) error

	// ListByInvoice 按发票号查询，按时间正序
	ListByInvoice(ctx context.Context, invoiceID string) ([]*etpayment.CallbackRecord, error)
}
