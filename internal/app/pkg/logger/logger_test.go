package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestWithContextPrependsRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	fields := withContext(ctx, []interface{}{"order_id", "o1"})
	assert.Equal(t, []interface{}{"request_id", "req-1", "order_id", "o1"}, fields)

	fields = withContext(context.Background(), []interface{}{"order_id", "o1"})
	assert.Equal(t, []interface{}{"order_id", "o1"}, fields)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}
