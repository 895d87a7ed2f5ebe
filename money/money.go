// Package money formats Brazilian real amounts for display.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

const Symbol = "R$"

var hundred = decimal.NewFromInt(100)

// Format renders d as "R$ 1.234,56". Rounding to cents happens here and
// nowhere earlier.
func Format(d decimal.Decimal) string {
	return Symbol + " " + Plain(d)
}

// Plain renders d as "1.234,56" without the currency symbol.
func Plain(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// DiscountPercent returns the whole-number percentage off original that
// price represents, or 0 when there is no discount.
func DiscountPercent(price, original decimal.Decimal) int64 {
	if !original.IsPositive() || !price.LessThan(original) {
		return 0
	}
	return original.Sub(price).Div(original).Mul(hundred).Round(0).IntPart()
}
