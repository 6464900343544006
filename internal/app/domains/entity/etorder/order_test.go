package etorder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData() *OrderData {
	return &OrderData{
		Items: []*Item{
			{Name: "Buchet trandafiri", SKU: "BQ-01", Quantity: 2, UnitPrice: 4500},
			{Name: "Felicitare", Quantity: 1, UnitPrice: 1000},
		},
		Shipping:     &Address{FirstName: "Ana", LastName: "Pop", Street: "Str. Florilor 1", City: "Cluj-Napoca", Country: "RO"},
		Billing:      &Billing{FirstName: "Ana", LastName: "Pop", Email: "ana@example.com"},
		ShippingCost: 500,
		Discount:     1000,
		Currency:     "RON",
	}
}

func TestComputeTotals(t *testing.T) {
	data := sampleData()
	data.ComputeTotals()
	assert.Equal(t, int64(10000), data.Subtotal)
	assert.Equal(t, int64(9500), data.Total)

	data.Discount = 20000
	data.ComputeTotals()
	assert.Equal(t, int64(0), data.Total)
}

func TestNewPendingOrderExpiry(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	p, err := NewPendingOrder("TEMP-ABC", sampleData(), time.Hour, now)
	require.NoError(t, err)

	assert.Equal(t, now.Add(time.Hour), p.ExpiresAt)

	_, err = NewPendingOrder("", sampleData(), time.Hour, now)
	assert.ErrorIs(t, err, ErrInvalidTempID)

	_, err = NewPendingOrder("TEMP-X", &OrderData{}, time.Hour, now)
	assert.ErrorIs(t, err, ErrInvalidOrderData)
}

func TestNewOrderFromPendingCopiesTotals(t *testing.T) {
	data := sampleData()
	data.Total = 10000
	pending, err := NewPendingOrder("TEMP-ABC", data, time.Hour, time.Now())
	require.NoError(t, err)

	order, err := NewOrderFromPending("id-1", "ABCD-EFGH-IJKL", pending, &Payment{
		Method: PaymentMethodCard,
		Status: PaymentStatusPaid,
	})
	require.NoError(t, err)

	assert.Equal(t, "TEMP-ABC", order.SourceTempID)
	assert.Equal(t, int64(10000), order.Total)
	assert.Equal(t, int64(500), order.ShippingCost)
	assert.Equal(t, OrderStatusProcessing, order.Status)
	assert.True(t, order.IsPaid())
	assert.Equal(t, "ana@example.com", order.CustomerEmail())
}

func TestNewOrderValidation(t *testing.T) {
	_, err := NewOrder("", "T", sampleData(), &Payment{})
	assert.ErrorIs(t, err, ErrInvalidOrderID)

	_, err = NewOrder("id", "", sampleData(), &Payment{})
	assert.ErrorIs(t, err, ErrInvalidTrackingNumber)

	_, err = NewOrder("id", "T", sampleData(), nil)
	assert.ErrorIs(t, err, ErrInvalidPayment)

	data := sampleData()
	data.ShippingCost = -1
	_, err = NewOrder("id", "T", data, &Payment{})
	assert.ErrorIs(t, err, ErrNegativeAmount)
}
