package idgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	trackingAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	trackingLength   = 12 // 3 组，每组 4 位
	trackingGroup    = 4
	tempSuffixLength = 8
	tempPrefix       = "TEMP-"
)

// OrderID 生成订单主键 (UUID)
func OrderID() string {
	return uuid.New().String()
}

// RequestID 生成请求 ID（链路追踪）
func RequestID() string {
	return uuid.New().String()
}

// TrackingNumber 生成对外可分享的跟踪号，格式 XXXX-XXXX-XXXX
func TrackingNumber() (string, error) {
	raw, err := randomString(trackingLength)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 0; i < len(raw); i += trackingGroup {
		if i > 0 {
			b.WriteByte('-')
		}
		b.WriteString(raw[i : i+trackingGroup])
	}
	return b.String(), nil
}

// TempTrackingID 生成支付前使用的临时跟踪号，格式 TEMP-<毫秒时间戳 36 进制>-<随机串>
func TempTrackingID() (string, error) {
	suffix, err := randomString(tempSuffixLength)
	if err != nil {
		return "", err
	}
	stamp := strings.ToUpper(big.NewInt(time.Now().UnixMilli()).Text(36))
	return fmt.Sprintf("%s%s-%s", tempPrefix, stamp, suffix), nil
}

// randomString 从 trackingAlphabet 中均匀取 n 个字符（crypto/rand）
func randomString(n int) (string, error) {
	limit := big.NewInt(int64(len(trackingAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate random index failed: %w", err)
		}
		buf[i] = trackingAlphabet[idx.Int64()]
	}
	return string(buf), nil
}
