// Package cpf validates Brazilian individual taxpayer numbers (CPF).
package cpf

import "strings"

// Checker validates CPF numbers by length and check digits. Formatted input
// ("529.982.247-25") and bare digits are both accepted.
type Checker struct{}

// NewChecker creates a new Checker.
func NewChecker() Checker { return Checker{} }

// IsValid reports whether s is a well-formed CPF with correct check digits.
func (Checker) IsValid(s string) bool {
	digits := Normalize(s)
	if len(digits) != 11 {
		return false
	}

	// Sequences like 111.111.111-11 pass the checksum but are never issued.
	if strings.Count(digits, digits[:1]) == len(digits) {
		return false
	}

	return checkDigit(digits[:9]) == digits[9] && checkDigit(digits[:10]) == digits[10]
}

// Normalize strips the "." and "-" separators. Any other non-digit makes the
// result invalid.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-':
		default:
			return ""
		}
	}
	return b.String()
}

func checkDigit(base string) byte {
	sum := 0
	weight := len(base) + 1
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * weight
		weight--
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		rest = 0
	}
	return byte('0' + rest)
}
