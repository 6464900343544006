package rporder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paysvc/internal/app/domains/entity/etorder"
	"paysvc/internal/app/pkg/errorx"
	"paysvc/internal/app/pkg/testx"
)

var baseTime = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func sampleData() *etorder.OrderData {
	data := &etorder.OrderData{
		Items: []*etorder.Item{
			{Name: "Buchet lalele", SKU: "BQ-07", Quantity: 1, UnitPrice: 12000},
		},
		Shipping:      &etorder.Address{FirstName: "Ion", LastName: "Ionescu", Phone: "0712345678", Street: "Bd. Unirii 5", City: "Bucuresti", Country: "RO"},
		Billing:       &etorder.Billing{FirstName: "Ion", LastName: "Ionescu", Email: "ion@example.com"},
		ShippingCost:  1500,
		Currency:      "RON",
		PaymentMethod: etorder.PaymentMethodCard,
	}
	data.ComputeTotals()
	return data
}

func stagePending(t *testing.T, repo OrderRepository, tempID string, expiresIn time.Duration) *etorder.PendingOrder {
	t.Helper()
	pending, err := etorder.NewPendingOrder(tempID, sampleData(), expiresIn, baseTime)
	require.NoError(t, err)
	require.NoError(t, repo.CreatePending(context.Background(), pending))
	return pending
}

func paidPayment(txID string) *etorder.Payment {
	return &etorder.Payment{
		Method:        etorder.PaymentMethodCard,
		Status:        etorder.PaymentStatusPaid,
		TransactionID: txID,
		GatewayData:   &etorder.GatewayData{Action: "0", Message: "Approved", TransactionID: txID},
	}
}

func buildFrom(id, tracking, txID string) BuildOrderFunc {
	return func(p *etorder.PendingOrder) (*etorder.Order, error) {
		return etorder.NewOrderFromPending(id, tracking, p, paidPayment(txID))
	}
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	repo := NewOrderRepository(testx.NewDB(t))
	ctx := context.Background()

	order, err := etorder.NewOrder("id-1", "AAAA-BBBB-CCCC", sampleData(), &etorder.Payment{
		Method: etorder.PaymentMethodCashOnDelivery,
		Status: etorder.PaymentStatusPending,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, order))

	got, err := repo.GetByTrackingNumber(ctx, "AAAA-BBBB-CCCC")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, int64(13500), got.Total)
	assert.Equal(t, etorder.PaymentMethodCashOnDelivery, got.Payment.Method)
	assert.Empty(t, got.SourceTempID)
	assert.Nil(t, got.Payment.GatewayData)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "BQ-07", got.Items[0].SKU)
	assert.Equal(t, "ion@example.com", got.CustomerEmail())

	_, err = repo.GetByTrackingNumber(ctx, "ZZZZ-ZZZZ-ZZZZ")
	assert.ErrorIs(t, err, errorx.ErrOrderNotFound)
}

func TestOrderRepository_PendingLifecycle(t *testing.T) {
	repo := NewOrderRepository(testx.NewDB(t))
	ctx := context.Background()

	stagePending(t, repo, "TEMP-1", time.Hour)

	got, err := repo.FindPending(ctx, "TEMP-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(13500), got.OrderData.Total)

	missing, err := repo.FindPending(ctx, "TEMP-404")
	require.NoError(t, err)
	assert.Nil(t, missing)

	deleted, err := repo.DeletePending(ctx, "TEMP-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeletePending(ctx, "TEMP-1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestOrderRepository_DeleteExpiredPending(t *testing.T) {
	repo := NewOrderRepository(testx.NewDB(t))
	ctx := context.Background()

	stagePending(t, repo, "TEMP-OLD", time.Minute)
	stagePending(t, repo, "TEMP-NEW", 2*time.Hour)

	n, err := repo.DeleteExpiredPending(ctx, baseTime.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	old, err := repo.FindPending(ctx, "TEMP-OLD")
	require.NoError(t, err)
	assert.Nil(t, old)

	fresh, err := repo.FindPending(ctx, "TEMP-NEW")
	require.NoError(t, err)
	assert.NotNil(t, fresh)
}

func TestOrderRepository_ConsumePending(t *testing.T) {
	repo := NewOrderRepository(testx.NewDB(t))
	ctx := context.Background()

	stagePending(t, repo, "TEMP-1", time.Hour)

	order, err := repo.ConsumePending(ctx, "TEMP-1", buildFrom("id-1", "AAAA-BBBB-CCCC", "TX-1"))
	require.NoError(t, err)
	assert.Equal(t, "TEMP-1", order.SourceTempID)

	pending, err := repo.FindPending(ctx, "TEMP-1")
	require.NoError(t, err)
	assert.Nil(t, pending)

	byTx, err := repo.FindByTransactionID(ctx, "TX-1")
	require.NoError(t, err)
	require.NotNil(t, byTx)
	assert.Equal(t, "AAAA-BBBB-CCCC", byTx.TrackingNumber)
	assert.Equal(t, etorder.PaymentStatusPaid, byTx.Payment.Status)
	require.NotNil(t, byTx.Payment.GatewayData)
	assert.Equal(t, "Approved", byTx.Payment.GatewayData.Message)

	bySource, err := repo.FindBySourceTempID(ctx, "TEMP-1")
	require.NoError(t, err)
	require.NotNil(t, bySource)
	assert.Equal(t, byTx.ID, bySource.ID)

	_, err = repo.ConsumePending(ctx, "TEMP-1", buildFrom("id-2", "DDDD-EEEE-FFFF", "TX-1"))
	assert.ErrorIs(t, err, errorx.ErrPendingOrderNotFound)
}

func TestOrderRepository_ConsumePendingRollsBackOnDuplicateTransaction(t *testing.T) {
	repo := NewOrderRepository(testx.NewDB(t))
	ctx := context.Background()

	stagePending(t, repo, "TEMP-1", time.Hour)
	stagePending(t, repo, "TEMP-2", time.Hour)

	_, err := repo.ConsumePending(ctx, "TEMP-1", buildFrom("id-1", "AAAA-BBBB-CCCC", "TX-1"))
	require.NoError(t, err)

	_, err = repo.ConsumePending(ctx, "TEMP-2", buildFrom("id-2", "DDDD-EEEE-FFFF", "TX-1"))
	require.Error(t, err)

	// 事务回滚后待支付订单仍在
	pending, err := repo.FindPending(ctx, "TEMP-2")
	require.NoError(t, err)
	assert.NotNil(t, pending)
}

func TestOrderRepository_ConsumePendingBuildErrorKeepsPending(t *testing.T) {
	repo := NewOrderRepository(testx.NewDB(t))
	ctx := context.Background()

	stagePending(t, repo, "TEMP-1", time.Hour)

	boom := errors.New("boom")
	_, err := repo.ConsumePending(ctx, "TEMP-1", func(*etorder.PendingOrder) (*etorder.Order, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	pending, err := repo.FindPending(ctx, "TEMP-1")
	require.NoError(t, err)
	assert.NotNil(t, pending)
}

func TestOrderRepository_ConsumePendingConcurrent(t *testing.T) {
	repo := NewOrderRepository(testx.NewDB(t))
	ctx := context.Background()

	stagePending(t, repo, "TEMP-RACE", time.Hour)

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		created  int
		notFound int
	)
	trackings := []string{"AAAA-0000-0001", "AAAA-0000-0002", "AAAA-0000-0003", "AAAA-0000-0004",
		"AAAA-0000-0005", "AAAA-0000-0006", "AAAA-0000-0007", "AAAA-0000-0008"}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.ConsumePending(ctx, "TEMP-RACE", buildFrom(trackings[i], trackings[i], "TX-RACE"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, errorx.ErrPendingOrderNotFound):
				notFound++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, notFound)
}

func TestOrderRepository_UpdatePayment(t *testing.T) {
	repo := NewOrderRepository(testx.NewDB(t))
	ctx := context.Background()

	order, err := etorder.NewOrder("id-1", "AAAA-BBBB-CCCC", sampleData(), &etorder.Payment{
		Method: etorder.PaymentMethodCard,
		Status: etorder.PaymentStatusPending,
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, order))

	failed := &etorder.Payment{
		Method:        etorder.PaymentMethodCard,
		Status:        etorder.PaymentStatusFailed,
		TransactionID: "TX-A",
		GatewayData:   &etorder.GatewayData{Action: "1", Message: "Declined"},
	}
	result, err := repo.UpdatePayment(ctx, "AAAA-BBBB-CCCC", failed)
	require.NoError(t, err)
	assert.Equal(t, PaymentUpdated, result)

	result, err = repo.UpdatePayment(ctx, "AAAA-BBBB-CCCC", paidPayment("TX-B"))
	require.NoError(t, err)
	assert.Equal(t, PaymentUpdated, result)

	// 已支付后不再改写
	result, err = repo.UpdatePayment(ctx, "AAAA-BBBB-CCCC", failed)
	require.NoError(t, err)
	assert.Equal(t, PaymentAlreadyPaid, result)

	got, err := repo.GetByTrackingNumber(ctx, "AAAA-BBBB-CCCC")
	require.NoError(t, err)
	assert.Equal(t, etorder.PaymentStatusPaid, got.Payment.Status)
	assert.Equal(t, "TX-B", got.Payment.TransactionID)
	assert.Equal(t, "Approved", got.Payment.GatewayData.Message)

	_, err = repo.UpdatePayment(ctx, "ZZZZ-ZZZZ-ZZZZ", failed)
	assert.ErrorIs(t, err, errorx.ErrOrderNotFound)
}
