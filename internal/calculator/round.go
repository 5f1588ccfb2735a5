package calculator

import "github.com/shopspring/decimal"

// Round2 rounds to two decimal places, halves away from zero. Every
// monetary and percentage output in the system goes through this.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
