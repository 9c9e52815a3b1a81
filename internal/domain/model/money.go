package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cents is a monetary amount in centavos (BRL).
type Cents int64

var errInvalidAmount = errors.New("invalid amount")

// ParseCents parses user input such as "150", "150,50", "1.234,56", "R$ 1.234,56" or "1234.56".
// A single separator followed by one or two digits is treated as the decimal mark.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return 0, nil
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimSpace(strings.TrimPrefix(s, "-"))
	if s == "" {
		return 0, fmt.Errorf("%w: missing digits", errInvalidAmount)
	}

	intPart, frac := s, ""
	if i := strings.LastIndexAny(s, ".,"); i >= 0 && len(s)-i-1 <= 2 && len(s)-i-1 > 0 {
		intPart, frac = s[:i], s[i+1:]
	}
	intPart = strings.NewReplacer(".", "", ",", "", " ", "").Replace(intPart)
	if intPart == "" {
		intPart = "0"
	}
	if len(frac) == 1 {
		frac += "0"
	}
	if frac == "" {
		frac = "00"
	}

	if !digitsOnly(intPart) || !digitsOnly(frac) {
		return 0, fmt.Errorf("%w: %q", errInvalidAmount, s)
	}
	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || whole > (math.MaxInt64-99)/100 {
		return 0, fmt.Errorf("%w: %q", errInvalidAmount, s)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errInvalidAmount, s)
	}
	v := Cents(whole*100 + cents)
	if neg {
		v = -v
	}
	return v, nil
}

func digitsOnly(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String renders the amount as "R$ 1.234,56".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := strconv.FormatInt(v/100, 10)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), v%100)
}

// Input renders the amount for a form field ("1234,56").
func (c Cents) Input() string {
	if c == 0 {
		return ""
	}
	v := int64(c)
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	return fmt.Sprintf("%s%d,%02d", sign, v/100, v%100)
}

// NonNegative clamps negative amounts to zero.
func (c Cents) NonNegative() Cents {
	if c < 0 {
		return 0
	}
	return c
}
