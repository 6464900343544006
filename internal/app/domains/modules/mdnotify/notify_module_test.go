package mdnotify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paysvc/internal/app/domains/entity/etorder"
	"paysvc/internal/app/infra/mq/lmstfy"
	"paysvc/internal/app/pkg/logger"
)

type publishCall struct {
	queue string
	data  []byte
	opts  lmstfy.PublishOptions
}

type fakePublisher struct {
	calls []publishCall
	err   error
}

func (f *fakePublisher) Publish(queue string, data []byte, opts lmstfy.PublishOptions) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls = append(f.calls, publishCall{queue: queue, data: data, opts: opts})
	return "job-1", nil
}

func sampleOrder() *etorder.Order {
	return &etorder.Order{
		ID:             "id-1",
		TrackingNumber: "AAAA-BBBB-CCCC",
		Billing:        &etorder.Billing{Email: "ana@example.com"},
		Total:          10500,
		Currency:       "RON",
	}
}

func TestQueueNotifier_Publish(t *testing.T) {
	pub := &fakePublisher{}
	n := NewQueueNotifier(pub, "order_notifications", 0, logger.NewNop())
	ctx := logger.WithRequestID(context.Background(), "req-1")

	require.NoError(t, n.NotifyOrderConfirmed(ctx, sampleOrder()))
	require.NoError(t, n.NotifyPaymentConfirmed(ctx, sampleOrder()))
	require.Len(t, pub.calls, 2)

	call := pub.calls[0]
	assert.Equal(t, "order_notifications", call.queue)
	assert.Equal(t, uint16(3), call.opts.Tries)

	var job Job
	require.NoError(t, json.Unmarshal(call.data, &job))
	assert.Equal(t, JobOrderConfirmed, job.Type)
	assert.Equal(t, "req-1", job.RequestID)
	assert.Equal(t, "AAAA-BBBB-CCCC", job.TrackingNumber)
	assert.Equal(t, "ana@example.com", job.Email)
	assert.Equal(t, int64(10500), job.Total)

	require.NoError(t, json.Unmarshal(pub.calls[1].data, &job))
	assert.Equal(t, JobPaymentConfirmed, job.Type)
}

func TestQueueNotifier_PublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("queue down")}
	n := NewQueueNotifier(pub, "q", 0, logger.NewNop())

	err := n.NotifyOrderConfirmed(context.Background(), sampleOrder())
	assert.EqualError(t, err, "queue down")
}

type blockingPublisher struct {
	release chan struct{}
}

func (b *blockingPublisher) Publish(string, []byte, lmstfy.PublishOptions) (string, error) {
	<-b.release
	return "job-late", nil
}

func TestQueueNotifier_PublishTimeout(t *testing.T) {
	pub := &blockingPublisher{release: make(chan struct{})}
	defer close(pub.release)
	n := NewQueueNotifier(pub, "q", 50*time.Millisecond, logger.NewNop())

	start := time.Now()
	err := n.NotifyOrderConfirmed(context.Background(), sampleOrder())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
