package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var englishPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z\s'.\-]*$`)

// SanitizeInput 移除控制字元並去除首尾空白，超過 maxRunes 的部分會被截斷
func SanitizeInput(input string, maxRunes int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)
	cleaned = strings.TrimSpace(cleaned)
	if maxRunes > 0 && utf8.RuneCountInString(cleaned) > maxRunes {
		cleaned = string([]rune(cleaned)[:maxRunes])
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}

// NormalizeLookup 查詢比對用的正規化：去空白並轉小寫
func NormalizeLookup(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// IsEnglishText 只允許字母、空白、撇號、連字號與句點
func IsEnglishText(text string) bool {
	return englishPattern.MatchString(text)
}
