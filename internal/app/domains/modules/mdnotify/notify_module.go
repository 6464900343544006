package mdnotify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"paysvc/internal/app/domains/entity/etorder"
	"paysvc/internal/app/infra/mq/lmstfy"
	"paysvc/internal/app/pkg/idgen"
	"paysvc/internal/app/pkg/logger"
)

// 通知任务类型
const (
	JobOrderConfirmed   = "order_confirmed"
	JobPaymentConfirmed = "payment_confirmed"
)

// DefaultPublishTimeout 单次投递的最长等待时间
const DefaultPublishTimeout = 2 * time.Second

// Notifier 订单通知（邮件由下游消费队列发送）
type Notifier interface {
	NotifyOrderConfirmed(ctx context.Context, order *etorder.Order) error
	NotifyPaymentConfirmed(ctx context.Context, order *etorder.Order) error
}

// Publisher 队列投递接口（由 lmstfy.Client 实现）
type Publisher interface {
	Publish(queue string, data []byte, opts lmstfy.PublishOptions) (string, error)
}

// Job 通知任务消息格式
type Job struct {
	RequestID      string `json:"request_id"`
	Type           string `json:"type"`
	OrderID        string `json:"order_id"`
	TrackingNumber string `json:"tracking_number"`
	Email          string `json:"email"`
	Total          int64  `json:"total"`
	Currency       string `json:"currency"`
}

// QueueNotifier 通过 lmstfy 投递通知任务
type QueueNotifier struct {
	publisher Publisher
	queueName string
	opts      lmstfy.PublishOptions
	timeout   time.Duration
	logger    logger.Logger
}

// NewQueueNotifier 创建通知模块，timeout <= 0 时使用 DefaultPublishTimeout
func NewQueueNotifier(publisher Publisher, queueName string, timeout time.Duration, log logger.Logger) *QueueNotifier {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &QueueNotifier{
		publisher: publisher,
		queueName: queueName,
		opts:      lmstfy.DefaultPublishOptions(),
		timeout:   timeout,
		logger:    log,
	}
}

// NotifyOrderConfirmed 新订单确认
func (n *QueueNotifier) NotifyOrderConfirmed(ctx context.Context, order *etorder.Order) error {
	return n.publish(ctx, JobOrderConfirmed, order)
}

// NotifyPaymentConfirmed 已有订单支付成功
func (n *QueueNotifier) NotifyPaymentConfirmed(ctx context.Context, order *etorder.Order) error {
	return n.publish(ctx, JobPaymentConfirmed, order)
}

func (n *QueueNotifier) publish(ctx context.Context, jobType string, order *etorder.Order) error {
	requestID := logger.RequestID(ctx)
	if requestID == "" {
		requestID = idgen.RequestID()
	}

	job := Job{
		RequestID:      requestID,
		Type:           jobType,
		OrderID:        order.ID,
		TrackingNumber: order.TrackingNumber,
		Email:          order.CustomerEmail(),
		Total:          order.Total,
		Currency:       order.Currency,
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal notify job failed: %w", err)
	}

	jobID, err := n.publishWithin(ctx, data)
	if err != nil {
		return err
	}

	n.logger.InfoContext(ctx, "Notify job published",
		"type", jobType,
		"tracking_number", order.TrackingNumber,
		"job_id", jobID,
	)
	return nil
}

type publishResult struct {
	jobID string
	err   error
}

// publishWithin 投递不超过 timeout，也不超过 ctx 的截止时间
func (n *QueueNotifier) publishWithin(ctx context.Context, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	done := make(chan publishResult, 1)
	go func() {
		jobID, err := n.publisher.Publish(n.queueName, data, n.opts)
		done <- publishResult{jobID: jobID, err: err}
	}()

	select {
	case res := <-done:
		return res.jobID, res.err
	case <-ctx.Done():
		return "", fmt.Errorf("publish notify job to %s: %w", n.queueName, ctx.Err())
	}
}
