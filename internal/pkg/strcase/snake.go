// Package strcase converts Go identifier casing to wire-friendly forms.
package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts a CamelCase identifier to snake_case.
//
// Acronym runs are kept together: "OTPCode" becomes "otp_code", not
// "o_t_p_code".
func ToLowerSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]

			var next rune
			if i+1 < len(runes) {
				next = runes[i+1]
			}

			// boundaries: lower/digit->Upper, and end of an acronym run
			if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				(unicode.IsUpper(prev) && next != 0 && unicode.IsLower(next)) {
				b.WriteRune('_')
			}
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
