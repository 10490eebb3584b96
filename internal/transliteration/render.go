package transliteration

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// render pairs chunk i with mask[i]. An uppercase entry capitalizes the first
// letter of its chunk only; chunks past the end of the mask keep base case.
func render(b *strings.Builder, chunks []string, mask []bool) {
	for i, chunk := range chunks {
		if i < len(mask) && mask[i] {
			chunk = capitalize(chunk)
		}
		b.WriteString(chunk)
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
