package story

import (
	"strings"
	"unicode/utf8"
)

// previewRunes 日志中保留的提示词前缀长度
const previewRunes = 40

func truncateByRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i] + "…"
		}
		n++
	}
	return s
}

func promptPreview(prompt string) string {
	return truncateByRunes(strings.Join(strings.Fields(prompt), " "), previewRunes)
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
