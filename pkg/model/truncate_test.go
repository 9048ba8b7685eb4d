package model

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		limit int
		want  string
	}{
		{"短于上限不变", "abc", 10, "abc"},
		{"恰好等于上限不变", "abcde", 5, "abcde"},
		{"ASCII 按字节截断", "abcdef", 3, "abc"},
		{"上限为零不截断", "abc", 0, "abc"},
		{"空串", "", 5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.s, tt.limit); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.limit, got, tt.want)
			}
		})
	}
}

func TestTruncate_MultiByteBoundary(t *testing.T) {
	// 每个汉字占 3 字节，上限落在字符中间时回退到边界
	s := "智能制造"
	got := Truncate(s, 7)
	if got != "智能" {
		t.Errorf("Truncate(%q, 7) = %q, want 智能", s, got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("Truncate(%q, 7) produced invalid UTF-8: %q", s, got)
	}

	// 任意上限都不能产生非法 UTF-8
	long := strings.Repeat("数据", 100)
	for limit := 1; limit <= 24; limit++ {
		if out := Truncate(long, limit); !utf8.ValidString(out) {
			t.Errorf("Truncate(limit=%d) produced invalid UTF-8: %q", limit, out)
		}
	}
}
