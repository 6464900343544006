package euplatesc

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"

	"paysvc/internal/app/pkg/errorx"
)

// Field 参与签名的字段（顺序即网关协议顺序）
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// 出站请求签名字段顺序
var RequestFieldOrder = []string{
	"amount",
	"curr",
	"invoice_id",
	"order_desc",
	"merch_id",
	"timestamp",
	"nonce",
}

// 回调签名字段顺序
var CallbackFieldOrder = []string{
	"amount",
	"curr",
	"invoice_id",
	"ep_id",
	"merch_id",
	"action",
	"message",
	"approval",
	"timestamp",
	"nonce",
}

// BuildCanonicalString 构造签名原文：空值写 "-"，否则写 字节长度+值，字段之间无分隔符
func BuildCanonicalString(fields []Field) string {
	var b strings.Builder
	for _, f := range fields {
		if f.Value == "" {
			b.WriteByte('-')
			continue
		}
		b.WriteString(strconv.Itoa(len(f.Value)))
		b.WriteString(f.Value)
	}
	return b.String()
}

// Sign 使用 hex 解码后的密钥计算 HMAC-MD5，返回小写 hex
func Sign(canonical, secretKeyHex string) (string, error) {
	key, err := hex.DecodeString(secretKeyHex)
	if err != nil {
		return "", errorx.NewConfigurationError("secret key is not valid hex: %v", err)
	}
	if len(key) == 0 {
		return "", errorx.NewConfigurationError("secret key is required")
	}

	mac := hmac.New(md5.New, key)
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify 校验网关签名（大小写不敏感，常量时间比较）
func Verify(receivedHash, canonical, secretKeyHex string) bool {
	expected, err := Sign(canonical, secretKeyHex)
	if err != nil {
		return false
	}
	received := strings.ToLower(strings.TrimSpace(receivedHash))
	return subtle.ConstantTimeCompare([]byte(received), []byte(expected)) == 1
}

// orderedFields 按给定顺序从 values 中取出字段
func orderedFields(order []string, values map[string]string) []Field {
	fields := make([]Field, 0, len(order))
	for _, name := range order {
		fields = append(fields, Field{Name: name, Value: values[name]})
	}
	return fields
}
