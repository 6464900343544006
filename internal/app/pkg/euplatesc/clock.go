package euplatesc

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// timestampLayout 网关要求的时间格式 YYYYMMDDHHmmss（无时区、无分隔符）
const timestampLayout = "20060102150405"

// Clock 时间戳与随机数来源（测试可替换）
type Clock interface {
	Now() time.Time
	Nonce() (string, error)
}

// SystemClock 使用本地时间和 crypto/rand
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Nonce() (string, error) { return Nonce() }

// Timestamp 格式化为网关时间戳（服务器本地时间）
func Timestamp(t time.Time) string {
	return t.Local().Format(timestampLayout)
}

// Nonce 生成 16 字节安全随机数，hex 编码为 32 个字符
func Nonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes failed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
