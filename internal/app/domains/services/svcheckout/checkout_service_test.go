package svcheckout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paysvc/internal/app/domains/entity/etorder"
	"paysvc/internal/app/domains/modules/mdorder"
	"paysvc/internal/app/domains/repo/rporder"
	"paysvc/internal/app/pkg/errorx"
	"paysvc/internal/app/pkg/euplatesc"
	"paysvc/internal/app/pkg/logger"
	"paysvc/internal/app/pkg/testx"
)

const testKey = "00112233445566778899AABBCCDDEEFF0011223344556677"

type fakeNotifier struct {
	mu      sync.Mutex
	created int
}

func (f *fakeNotifier) NotifyOrderConfirmed(context.Context, *etorder.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created++
	return nil
}

func (f *fakeNotifier) NotifyPaymentConfirmed(context.Context, *etorder.Order) error {
	return nil
}

type failingPreparer struct{}

func (failingPreparer) Prepare(euplatesc.PaymentRequest) (*euplatesc.PaymentForm, error) {
	return nil, errorx.NewConfigurationError("euplatesc merchant id is not configured")
}

type fixture struct {
	svc      *CheckoutService
	repo     rporder.OrderRepository
	notifier *fakeNotifier
}

func newFixture(t *testing.T, preparer PaymentPreparer) *fixture {
	repo := rporder.NewOrderRepository(testx.NewDB(t))
	notifier := &fakeNotifier{}
	if preparer == nil {
		preparer = euplatesc.NewInitiator(euplatesc.MerchantConfig{
			MerchantID:   "44840981287",
			SecretKeyHex: testKey,
			ProcessURL:   "https://secure.euplatesc.ro/tdsprocess/tranzactd.php",
		}, nil)
	}
	svc := NewCheckoutService(mdorder.NewOrderModule(repo), notifier, preparer, time.Hour, "RON", logger.NewNop())
	return &fixture{svc: svc, repo: repo, notifier: notifier}
}

func orderData(method etorder.PaymentMethod) *etorder.OrderData {
	return &etorder.OrderData{
		Items: []*etorder.Item{
			{Name: "Buchet bujori", Quantity: 2, UnitPrice: 4500},
			{Name: "Vaza", Quantity: 1, UnitPrice: 1000},
		},
		Shipping:      &etorder.Address{FirstName: "Ana", LastName: "Pop", Phone: "0722000111", Street: "Str. Florilor 1", City: "Cluj-Napoca", Country: "RO"},
		Billing:       &etorder.Billing{FirstName: "Ana", LastName: "Pop", Email: "ana@example.com", City: "Cluj-Napoca"},
		ShippingCost:  500,
		Discount:      1000,
		Subtotal:      1, // 由服务端重新计算
		Total:         1,
		PaymentMethod: method,
	}
}

func TestCheckout_Card(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	result, err := f.svc.Checkout(ctx, orderData(etorder.PaymentMethodCard))
	require.NoError(t, err)
	require.NotNil(t, result.Pending)
	require.NotNil(t, result.Form)
	assert.Nil(t, result.Order)

	tempID := result.Pending.TempTrackingID
	assert.True(t, euplatesc.IsTempInvoice(tempID))
	assert.Equal(t, tempID, result.Form.Get("invoice_id"))
	assert.Equal(t, "95.00", result.Form.Get("amount"))
	assert.Equal(t, "RON", result.Form.Get("curr"))
	assert.Equal(t, "ana@example.com", result.Form.Get("email"))
	assert.Equal(t, "fp_hash", result.Form.Fields[len(result.Form.Fields)-1].Name)

	pending, err := f.repo.FindPending(ctx, tempID)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, int64(9500), pending.OrderData.Total)
	assert.Equal(t, int64(10000), pending.OrderData.Subtotal)
	assert.Zero(t, f.notifier.created)
}

func TestCheckout_CardPrepareFailureDiscardsPending(t *testing.T) {
	f := newFixture(t, failingPreparer{})

	_, err := f.svc.Checkout(context.Background(), orderData(etorder.PaymentMethodCard))
	var cfgErr *errorx.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))

	n, err := f.repo.DeleteExpiredPending(context.Background(), time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCheckout_CashOnDelivery(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	result, err := f.svc.Checkout(ctx, orderData(etorder.PaymentMethodCashOnDelivery))
	require.NoError(t, err)
	require.NotNil(t, result.Order)
	assert.Nil(t, result.Form)
	assert.Equal(t, etorder.PaymentStatusPending, result.Order.Payment.Status)
	assert.Equal(t, etorder.OrderStatusProcessing, result.Order.Status)
	assert.Equal(t, 1, f.notifier.created)

	got, err := f.repo.GetByTrackingNumber(ctx, result.Order.TrackingNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(9500), got.Total)
}

func TestCheckout_Validation(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Checkout(context.Background(), &etorder.OrderData{PaymentMethod: etorder.PaymentMethodCard})
	var valErr *errorx.ValidationError
	require.True(t, errors.As(err, &valErr))

	data := orderData("bitcoin")
	_, err = f.svc.Checkout(context.Background(), data)
	require.True(t, errors.As(err, &valErr))
	require.Len(t, valErr.Details, 1)
	assert.Equal(t, "payment_method", valErr.Details[0].Path)
}

func TestRetryPayment(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	result, err := f.svc.Checkout(ctx, orderData(etorder.PaymentMethodCashOnDelivery))
	require.NoError(t, err)
	tracking := result.Order.TrackingNumber

	form, err := f.svc.RetryPayment(ctx, tracking)
	require.NoError(t, err)
	assert.Equal(t, tracking, form.Get("invoice_id"))
	assert.Equal(t, "95.00", form.Get("amount"))
	assert.False(t, euplatesc.IsTempInvoice(form.Get("invoice_id")))

	_, err = f.repo.UpdatePayment(ctx, tracking, &etorder.Payment{Status: etorder.PaymentStatusPaid, TransactionID: "TX-R"})
	require.NoError(t, err)

	_, err = f.svc.RetryPayment(ctx, tracking)
	assert.ErrorIs(t, err, errorx.ErrOrderAlreadyPaid)

	_, err = f.svc.RetryPayment(ctx, "ZZZZ-ZZZZ-ZZZZ")
	assert.ErrorIs(t, err, errorx.ErrOrderNotFound)
}
