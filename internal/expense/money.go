package expense

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/spendtrack/spendtrack/internal/apperr"
)

// ParseAmountCents converts a decimal amount string to integer cents.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted and the
// third decimal place is rounded half-up. Negative amounts and exponent
// notation are rejected; zero is allowed. All arithmetic downstream stays in
// cents so repeated aggregation never drifts.
func ParseAmountCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, apperr.Validationf("amount is required")
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "-") {
		return 0, apperr.Validationf("amount must not be negative")
	}
	s = strings.TrimPrefix(s, "+")

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, apperr.Validationf("invalid amount %q", s)
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, apperr.Validationf("invalid amount %q", s)
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, apperr.Validationf("invalid amount %q", s)
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, apperr.Validationf("invalid amount %q", s)
	}
	const maxWhole = (1<<63 - 1) / 100
	if iv > maxWhole {
		return 0, apperr.Validationf("amount out of range")
	}

	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// FormatCents renders cents as a two-decimal string.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
