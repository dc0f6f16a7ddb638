package validation

import (
	"strings"
	"unicode"
)

// MaskPAN canonicalises raw PAN keystrokes: positions 1–5 and 10 keep letters
// (upper-cased), positions 6–9 keep digits, anything else is dropped and the
// result never exceeds 10 characters.
func MaskPAN(raw string) string {
	var b strings.Builder
	n := 0
	for _, r := range raw {
		if n == MaxPANLength {
			break
		}
		letterSlot := n < 5 || n == 9
		switch {
		case letterSlot && r < unicode.MaxASCII && unicode.IsLetter(r):
			b.WriteRune(unicode.ToUpper(r))
		case !letterSlot && r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			continue
		}
		n++
	}
	return b.String()
}

// PANInputMode is the virtual keyboard hint for the next PAN character.
func PANInputMode(value string) string {
	if len(value) < 5 || len(value) >= 9 {
		return "text"
	}
	return "numeric"
}

// MaskDate rebuilds a DD/MM/YYYY string from the digits of raw. While the
// user types forward a separator is appended as soon as the day or month is
// complete; while deleting no trailing separator is added. If the result is
// not acceptable the previous value is returned unchanged.
func MaskDate(previous, raw string) string {
	var digits []rune
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) > 8 {
		digits = digits[:8]
	}
	forward := len(raw) > len(previous)

	var b strings.Builder
	for i, r := range digits {
		if i == 2 || i == 4 {
			b.WriteByte('/')
		}
		b.WriteRune(r)
	}
	if forward && (len(digits) == 2 || len(digits) == 4) {
		b.WriteByte('/')
	}
	masked := b.String()
	if !DateAcceptable(masked) {
		return previous
	}
	return masked
}
