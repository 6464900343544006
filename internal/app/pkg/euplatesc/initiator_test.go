package euplatesc

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paysvc/internal/app/pkg/errorx"
)

type fixedClock struct {
	now   time.Time
	nonce string
}

func (c fixedClock) Now() time.Time         { return c.now }
func (c fixedClock) Nonce() (string, error) { return c.nonce, nil }

func testMerchant() MerchantConfig {
	return MerchantConfig{
		MerchantID:   "44840981287",
		SecretKeyHex: testKey,
		ProcessURL:   "https://secure.euplatesc.ro/tdsprocess/tranzactd.php",
	}
}

func testPaymentRequest() PaymentRequest {
	return PaymentRequest{
		AmountMinor:      10000,
		Currency:         "RON",
		InvoiceID:        "TEMP-ABC",
		OrderDescription: "Comanda flori",
		Customer: Customer{
			FirstName: "Ana",
			LastName:  "Pop",
			Email:     "ana@example.com",
			City:      "Cluj-Napoca",
		},
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "100.00", FormatAmount(10000))
	assert.Equal(t, "0.05", FormatAmount(5))
	assert.Equal(t, "1234.50", FormatAmount(123450))
}

func TestPrepareKnownVector(t *testing.T) {
	clock := fixedClock{
		now:   time.Date(2026, 10, 17, 12, 0, 0, 0, time.Local),
		nonce: "0123456789abcdef0123456789abcdef",
	}
	form, err := NewInitiator(testMerchant(), clock).Prepare(testPaymentRequest())
	require.NoError(t, err)

	assert.Equal(t, testMerchant().ProcessURL, form.Action)
	assert.Equal(t, "100.00", form.Get("amount"))
	assert.Equal(t, "20261017120000", form.Get("timestamp"))
	assert.Equal(t, "524f5df494142208003c1c9599a5a54e", form.Get("fp_hash"))
	assert.Equal(t, "fp_hash", form.Fields[len(form.Fields)-1].Name)

	values := form.Values()
	assert.Equal(t, "Cluj-Napoca", values.Get("city"))
	_, hasPhone := values["phone"]
	assert.False(t, hasPhone, "empty optional fields must be omitted")
}

func TestPrepareFreshNoncePerCall(t *testing.T) {
	initiator := NewInitiator(testMerchant(), nil)

	first, err := initiator.Prepare(testPaymentRequest())
	require.NoError(t, err)
	second, err := initiator.Prepare(testPaymentRequest())
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), first.Get("nonce"))
	assert.Regexp(t, regexp.MustCompile(`^\d{14}$`), first.Get("timestamp"))
	assert.NotEqual(t, first.Get("nonce"), second.Get("nonce"))
	assert.NotEqual(t, first.Get("fp_hash"), second.Get("fp_hash"))
}

func TestPrepareConfigurationErrors(t *testing.T) {
	cfg := testMerchant()
	cfg.MerchantID = ""
	_, err := NewInitiator(cfg, nil).Prepare(testPaymentRequest())
	var cfgErr *errorx.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))

	cfg = testMerchant()
	cfg.SecretKeyHex = ""
	_, err = NewInitiator(cfg, nil).Prepare(testPaymentRequest())
	assert.True(t, errors.As(err, &cfgErr))
}

func TestPrepareValidationErrors(t *testing.T) {
	req := testPaymentRequest()
	req.AmountMinor = 0
	req.InvoiceID = ""
	req.Customer.Email = ""

	_, err := NewInitiator(testMerchant(), nil).Prepare(req)
	var valErr *errorx.ValidationError
	require.True(t, errors.As(err, &valErr))

	paths := make([]string, 0, len(valErr.Details))
	for _, d := range valErr.Details {
		paths = append(paths, d.Path)
	}
	assert.ElementsMatch(t, []string{"amount", "invoice_id", "email"}, paths)
}
