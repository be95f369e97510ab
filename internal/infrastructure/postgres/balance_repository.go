package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo saldos internos sobre PostgreSQL. Sin fila, el saldo es cero.
type BalanceRepo struct {
	q Querier
}

func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

func (r *BalanceRepo) Get(ctx context.Context, holder string) (decimal.Decimal, error) {
	return r.get(ctx, holder, false)
}

// GetForUpdate bloquea la fila si existe. Un titular sin fila no se bloquea:
// el primer Upsert concurrente gana y el otro espera en ON CONFLICT.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, holder string) (decimal.Decimal, error) {
	return r.get(ctx, holder, true)
}

func (r *BalanceRepo) get(ctx context.Context, holder string, lock bool) (decimal.Decimal, error) {
	var amount decimal.Decimal
	query := forUpdate(`SELECT amount FROM balances WHERE holder = $1`, lock)
	if err := r.q.QueryRow(ctx, query, holder).Scan(&amount); err != nil {
		if isNoRows(err) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("get balance: %w", err)
	}
	return amount, nil
}

// Upsert fija el saldo del titular. El CHECK (amount >= 0) rechaza negativos.
func (r *BalanceRepo) Upsert(ctx context.Context, holder string, amount decimal.Decimal, updatedAt time.Time) error {
	query := `
		INSERT INTO balances (holder, amount, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (holder) DO UPDATE SET amount = EXCLUDED.amount, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, holder, amount, updatedAt); err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}
