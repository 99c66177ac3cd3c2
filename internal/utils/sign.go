package utils

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// GenerateSign signs webhook notify params: sorted key=value pairs
// joined by &, secret appended, md5 upper-cased. Empty values and the
// sign field itself are excluded.
func GenerateSign(params map[string]string, secretKey string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if k == "sign" || strings.TrimSpace(v) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(params[k])
		if i < len(keys)-1 {
			sb.WriteString("&")
		}
	}
	sb.WriteString("&key=")
	sb.WriteString(secretKey)

	hash := md5.Sum([]byte(sb.String()))
	return strings.ToUpper(hex.EncodeToString(hash[:]))
}

// VerifySign checks a received sign against the expected one.
func VerifySign(params map[string]string, secretKey string) bool {
	receivedSign := params["sign"]
	if receivedSign == "" {
		return false
	}
	return strings.EqualFold(receivedSign, GenerateSign(params, secretKey))
}
