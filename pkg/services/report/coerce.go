package report

import (
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

const (
	maxMagnitude = 309
	minMagnitude = -330
)

// Coerce converts a raw amount cell to a finite number. Thousands separators,
// whitespace and currency symbols are ignored and accounting parentheses mark a
// negative value. Anything that does not parse yields 0.
func Coerce(value string) float64 {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return 0
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	// Float64 expands the exponent, so anything outside float64 range is
	// rejected before converting.
	if magnitude := int(d.Exponent()) + d.NumDigits(); magnitude > maxMagnitude || magnitude < minMagnitude {
		return 0
	}
	if negative {
		d = d.Neg()
	}

	f, _ := d.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func coerceCell(value string, ok bool) float64 {
	if !ok {
		return 0
	}
	return Coerce(value)
}
