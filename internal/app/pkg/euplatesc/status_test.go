package euplatesc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateStatus(t *testing.T) {
	tests := []struct {
		action  string
		success bool
		status  PaymentStatus
		message string
	}{
		{"0", true, StatusPaid, "payment approved"},
		{"1", false, StatusFailed, "payment failed"},
		{"2", false, StatusPending, "waiting for bank confirmation"},
		{"3", false, StatusFailed, "cancelled by user"},
		{"99", false, StatusFailed, "unknown payment status"},
		{"", false, StatusFailed, "unknown payment status"},
		{" 0", false, StatusFailed, "unknown payment status"},
	}

	for _, tt := range tests {
		t.Run("action_"+tt.action, func(t *testing.T) {
			got := TranslateStatus(tt.action)
			assert.Equal(t, tt.success, got.Success)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}
