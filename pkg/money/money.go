// Package money centralizes currency math. Amounts are integer paise; every
// fractional computation funnels through the same half-up rounding so tax,
// coupon and shipping figures can never disagree by a unit.
package money

import "github.com/shopspring/decimal"

// PercentOf returns percent% of the amount, rounded half-up to whole paise.
func PercentOf(amountCents int64, percent float64) int64 {
	if amountCents == 0 || percent == 0 {
		return 0
	}
	return decimal.NewFromInt(amountCents).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// Min returns the smaller of two amounts.
func Min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// ClampNonNegative floors an amount at zero.
func ClampNonNegative(amount int64) int64 {
	if amount < 0 {
		return 0
	}
	return amount
}
