package trade

import "strings"

// MT4/MT5订单注释最长31字符
const maxCommentLen = 31

// SanitizeComment 清洗EA订单注释：只保留字母数字、空格、下划线、连字符、点，
// 超长截断到31字符
func SanitizeComment(comment string) string {
	if comment == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(comment))
	for _, r := range comment {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '_', r == '-', r == '.':
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > maxCommentLen {
		s = s[:maxCommentLen]
	}
	return s
}
