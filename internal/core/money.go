// Package core holds the domain entities and the pure aggregation logic
// built on top of them. Everything in this package is deterministic and
// side-effect free; persistence and transport live elsewhere.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// MaxAmountCents bounds user-entered amounts to 1,000,000 currency units.
const MaxAmountCents int64 = 1_000_000 * 100

// Money is an integer amount of cents. Using cents everywhere avoids
// floating-point drift in sums; floats appear only in rates and percentages.
type Money struct {
	Cents int64
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Units returns the amount in whole currency units for display purposes.
// Calculations should stay in cents.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Both dot and comma separators are
// accepted. Only positive amounts are valid.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
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
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// SanitizeAmount strips everything but digits and dots from a raw currency
// string, parses what remains, and bounds the result to [0, MaxAmountCents].
// Unparseable input yields zero.
func SanitizeAmount(raw string) Money {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) || r == '.' {
			b.WriteRune(r)
		}
	}
	cents, err := ParseDecimalToCents(b.String())
	if err != nil {
		return Money{}
	}
	if cents > MaxAmountCents {
		cents = MaxAmountCents
	}
	return Money{Cents: cents}
}
