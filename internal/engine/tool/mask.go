package tool

import "strings"

/**
 * @file: mask.go
 * @description: 敏感字段脱敏
 */

// MaskPhone 手机号脱敏，保留前三后四
// 长度不足时整体打码
func MaskPhone(phone string) string {
	if phone == "" {
		return ""
	}
	runes := []rune(phone)
	if len(runes) < 8 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:3]) + strings.Repeat("*", len(runes)-7) + string(runes[len(runes)-4:])
}

// MaskEmail 邮箱脱敏，本地部分保留首字符
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return Mask(email)
	}
	local := []rune(email[:at])
	if len(local) == 1 {
		return "*" + email[at:]
	}
	return string(local[0]) + strings.Repeat("*", len(local)-1) + email[at:]
}

// Mask 通用脱敏，保留首尾字符
func Mask(s string) string {
	runes := []rune(s)
	switch {
	case len(runes) == 0:
		return ""
	case len(runes) <= 2:
		return strings.Repeat("*", len(runes))
	default:
		return string(runes[0]) + strings.Repeat("*", len(runes)-2) + string(runes[len(runes)-1])
	}
}
