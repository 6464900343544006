package mdresult

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"paysvc/internal/app/infra/persistence/redis"
)

// Result 支付结算结果（推送给等待中的浏览器轮询）
type Result struct {
	InvoiceID      string `json:"invoice_id"`
	Kind           string `json:"kind"`   // created / duplicate / updated / ignored
	Status         string `json:"status"` // paid / pending / failed
	TrackingNumber string `json:"tracking_number,omitempty"`
	Message        string `json:"message"`
}

// LookupFunc 订阅建立后检查结果是否已经落库
type LookupFunc func(ctx context.Context) (*Result, error)

// ResultModule 结算结果广播模块
// 职责：
// 1. 频道命名规则：payment:result:{invoice_id}
// 2. 发布/等待结算结果（Smart Wait）
type ResultModule struct {
	redisClient *redis.PubSubClient
}

// NewResultModule 创建结果模块
func NewResultModule(redisClient *redis.PubSubClient) *ResultModule {
	return &ResultModule{redisClient: redisClient}
}

// Channel 结果频道名
func Channel(invoiceID string) string {
	return fmt.Sprintf("payment:result:%s", invoiceID)
}

// Publish 广播结算结果
func (m *ResultModule) Publish(ctx context.Context, result *Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result failed: %w", err)
	}
	return m.redisClient.Publish(ctx, Channel(result.InvoiceID), string(payload))
}

// Wait 等待结算结果
// 1. 先订阅，再调用 lookup 检查已有结果，避免两步之间的消息丢失
// 2. 超时返回 context.DeadlineExceeded
func (m *ResultModule) Wait(ctx context.Context, invoiceID string, timeout time.Duration, lookup LookupFunc) (*Result, error) {
	sub, err := m.redisClient.Subscribe(ctx, Channel(invoiceID))
	if err != nil {
		return nil, fmt.Errorf("subscribe result channel failed: %w", err)
	}
	defer sub.Close()

	if lookup != nil {
		existing, err := lookup(ctx)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	payload, err := sub.Wait(ctx, timeout)
	if err != nil {
		return nil, err
	}

	var result Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
