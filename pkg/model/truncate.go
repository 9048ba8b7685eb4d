package model

import "unicode/utf8"

// Truncate 按字节上限截断字符串，回退到最近的字符边界，
// 不会把多字节字符切成非法 UTF-8
func Truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
