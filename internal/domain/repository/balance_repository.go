package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceRepository saldos internos por identidad. Un titular sin fila tiene saldo cero.
type BalanceRepository interface {
	Get(ctx context.Context, holder string) (decimal.Decimal, error)
	// GetForUpdate bloquea la fila del titular (si existe) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, holder string) (decimal.Decimal, error)
	Upsert(ctx context.Context, holder string, amount decimal.Decimal, updatedAt time.Time) error
}
