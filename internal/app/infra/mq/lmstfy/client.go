package lmstfy

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bitleak/lmstfy/client"
)

// PublishOptions 投递参数
type PublishOptions struct {
	TTL   time.Duration // 消息存活时间，0 表示永久
	Tries uint16        // 最大投递次数
	Delay time.Duration // 延迟投递
}

// DefaultPublishOptions 通知类任务的默认投递参数
func DefaultPublishOptions() PublishOptions {
	return PublishOptions{
		TTL:   24 * time.Hour,
		Tries: 3,
	}
}

// DefaultRequestTimeout 单次 HTTP 请求超时（只做投递，不做阻塞消费）
const DefaultRequestTimeout = 2 * time.Second

// Client Lmstfy 客户端封装
type Client struct {
	cli       *client.LmstfyClient
	namespace string
}

// NewClient 创建 Lmstfy 客户端，timeout <= 0 时使用 DefaultRequestTimeout
func NewClient(host string, port int, namespace, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	httpCli := &http.Client{Timeout: timeout}
	return &Client{
		cli:       client.NewLmstfyWithClient(httpCli, host, port, namespace, token),
		namespace: namespace,
	}
}

// Publish 发布消息到队列，返回 job id
func (c *Client) Publish(queue string, data []byte, opts PublishOptions) (string, error) {
	jobID, err := c.cli.Publish(queue, data, uint32(opts.TTL.Seconds()), opts.Tries, uint32(opts.Delay.Seconds()))
	if err != nil {
		return "", fmt.Errorf("lmstfy publish failed: namespace=%s, queue=%s: %w", c.namespace, queue, err)
	}
	return jobID, nil
}
