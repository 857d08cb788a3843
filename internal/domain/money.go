package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts free-form amount input ("1.234,56", "$ 120.50",
// "80,-") into an exact decimal. Every rune that is not a digit, comma or
// period is dropped. When a comma survives it is taken as the decimal
// separator and any periods are treated as thousands marks. Input that still
// does not form a number yields (Zero, false); the function never fails.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return decimal.Zero, false
	}

	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

// HasValue reports whether raw holds anything besides whitespace.
func HasValue(raw string) bool {
	return strings.TrimSpace(raw) != ""
}
