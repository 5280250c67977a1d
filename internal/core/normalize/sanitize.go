package normalize

import (
	"strings"
	"unicode"
)

// Sanitize drops invalid UTF-8 and control runes other than \n, \r and \t
// It returns s unchanged when nothing needs cleaning
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	clean := strings.ToValidUTF8(s, "")
	if strings.IndexFunc(clean, dropRune) < 0 {
		return clean
	}
	return strings.Map(func(r rune) rune {
		if dropRune(r) {
			return -1
		}
		return r
	}, clean)
}

// dropRune covers NUL, C0 controls, DEL and the C1 block
func dropRune(r rune) bool {
	switch r {
	case '\n', '\r', '\t':
		return false
	}
	return unicode.IsControl(r)
}
