package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance saldo interno de puntos/tokens de una identidad.
type Balance struct {
	Holder    string
	Amount    decimal.Decimal
	UpdatedAt time.Time
}
