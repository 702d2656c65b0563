package domain

import "github.com/shopspring/decimal"

// MoneyPlaces is the scale of every monetary column (DECIMAL(10,2)).
const MoneyPlaces = 2

func init() {
	// The desktop front end reads prices and totals as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// RoundMoney rounds d half away from zero to MoneyPlaces. The work is
// bounded by the digits of d, never by its exponent.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	switch {
	case d.Sign() == 0:
		return decimal.Zero
	case d.Exponent() >= -MoneyPlaces:
		return d
	case d.NumDigits()+int(d.Exponent()) < -MoneyPlaces:
		// |d| < 0.001
		return decimal.Zero
	}
	return d.Round(MoneyPlaces)
}

// IntegerDigits reports how many digits d has left of the decimal point,
// without expanding its exponent. Zero has none.
func IntegerDigits(d decimal.Decimal) int {
	if d.Sign() == 0 {
		return 0
	}
	return d.NumDigits() + int(d.Exponent())
}
