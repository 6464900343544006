package rpcallback

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"paysvc/internal/app/domains/entity/etpayment"
	"paysvc/internal/common/entity"
)

const maxErrorLen = 512

// CallbackLogRepositoryImpl 审计日志仓储实现
type CallbackLogRepositoryImpl struct {
	db *gorm.DB
}

// NewCallbackLogRepository 创建审计日志仓储
func NewCallbackLogRepository(db *gorm.DB) CallbackLogRepository {
	return &CallbackLogRepositoryImpl{db: db}
}

// Create 写入审计记录
func (r *CallbackLogRepositoryImpl) Create(ctx context.Context, record *etpayment.CallbackRecord) error {
	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return err
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	errMsg := record.Error
	if len(errMsg) > maxErrorLen {
		errMsg = errMsg[:maxErrorLen]
	}

	po := &entity.PaymentCallbackLog{
		InvoiceID:      record.InvoiceID,
		TransactionID:  record.TransactionID,
		Action:         record.Action,
		Delivery:       string(record.Delivery),
		SignatureValid: record.SignatureValid,
		Outcome:        record.Outcome,
		Error:          errMsg,
		Payload:        payload,
		CreatedAt:      record.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return err
	}
	record.ID = po.ID
	return nil
}

// ListByInvoice 按发票号查询
func (r *CallbackLogRepositoryImpl) ListByInvoice(ctx context.Context, invoiceID string) ([]*etpayment.CallbackRecord, error) {
	var pos []entity.PaymentCallbackLog
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("id ASC").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}

	records := make([]*etpayment.CallbackRecord, 0, len(pos))
	for i := range pos {
		po := &pos[i]
		record := &etpayment.CallbackRecord{
			ID:             po.ID,
			InvoiceID:      po.InvoiceID,
			TransactionID:  po.TransactionID,
			Action:         po.Action,
			Delivery:       etpayment.Delivery(po.Delivery),
			SignatureValid: po.SignatureValid,
			Outcome:        po.Outcome,
			Error:          po.Error,
			CreatedAt:      po.CreatedAt,
		}
		if len(po.Payload) > 0 {
			if err := json.Unmarshal(po.Payload, &record.Payload); err != nil {
				return nil, err
			}
		}
		records = append(records, record)
	}
	return records, nil
}
