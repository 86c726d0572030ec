package catalog

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ToSubunits converts an external display price (e.g. 4.05) to integer
// subunits (405). Fractions beyond the subunit are truncated toward zero,
// never rounded.
func ToSubunits(display decimal.Decimal) int64 {
	return display.Mul(hundred).IntPart()
}

// DisplayPrice converts stored subunits back to the external decimal value.
// Two-decimal amounts are exactly representable in float64, so the division
// is performed in decimal space and only the final value is converted.
func DisplayPrice(subunits int64) float64 {
	return decimal.NewFromInt(subunits).Div(hundred).InexactFloat64()
}
