package ginx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paysvc/internal/app/pkg/errorx"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"not found", errorx.NewOrderNotFound("AAAA-BBBB-CCCC"), http.StatusNotFound, "order not found: AAAA-BBBB-CCCC"},
		{"conflict", errorx.ErrOrderAlreadyPaid, http.StatusConflict, "order already paid"},
		{"signature", &errorx.SignatureMismatchError{}, http.StatusForbidden, "invalid signature"},
		{"internal", errors.New("db exploded"), http.StatusInternalServerError, "Internal server error"},
		{"configuration", errorx.NewConfigurationError("secret missing"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tt.err)

			assert.Equal(t, tt.code, w.Code)
			resp := decode(t, w)
			assert.Equal(t, tt.code, resp.Meta.Code)
			assert.Equal(t, tt.message, resp.Meta.Message)
		})
	}
}

func TestFromError_ValidationDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	FromError(c, errorx.NewValidationError("invalid payment request",
		errorx.ErrorDetail{Path: "email", Info: "email is required"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "invalid payment request", resp.Meta.Message)
	require.Len(t, resp.Meta.Details, 1)
	assert.Equal(t, "email", resp.Meta.Details[0].Path)
}

func TestProcessing(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Processing(c, "TEMP-1", "/api/v1/payments/TEMP-1/result")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, CodeProcessing, resp.Meta.Code)
}
