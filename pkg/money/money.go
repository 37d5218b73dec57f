// Package money converts between the decimal currency values used at the
// JSON boundary and the integer minor units (cents) used everywhere inside
// the application. Arithmetic on amounts must only ever happen in cents.
package money

import "math"

// ToCents converts a decimal currency amount to integer cents,
// rounding half away from zero.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromCents converts integer cents back to a decimal currency amount.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}
