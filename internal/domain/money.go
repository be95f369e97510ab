package domain

import "github.com/shopspring/decimal"

// MoneyScale decimales con los que se truncan promedios y comisiones (punto fijo).
const MoneyScale int32 = 2

// TruncDiv divide a entre n truncando hacia cero a MoneyScale decimales. n == 0 devuelve cero.
func TruncDiv(a decimal.Decimal, n int64) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	q, _ := a.QuoRem(decimal.NewFromInt(n), MoneyScale)
	return q
}
