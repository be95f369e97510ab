// Package funds mantiene los saldos internos de puntos que el orquestador usa para liquidar órdenes.
package funds

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/internal/domain"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
)

// UseCase saldo, transferencias y acreditación administrativa.
type UseCase struct {
	tx            repository.TxRunner
	repos         repository.Repos
	platformAdmin string
	log           zerolog.Logger
}

// NewUseCase construye el caso de uso. platformAdmin es la única identidad que puede acreditar.
func NewUseCase(tx repository.TxRunner, repos repository.Repos, platformAdmin string, log zerolog.Logger) *UseCase {
	return &UseCase{
		tx:            tx,
		repos:         repos,
		platformAdmin: platformAdmin,
		log:           log.With().Str("component", "funds").Logger(),
	}
}

// BalanceOf devuelve el saldo de holder (cero si nunca tuvo movimientos).
func (uc *UseCase) BalanceOf(ctx context.Context, holder string) (*dto.BalanceResponse, error) {
	amount, err := uc.repos.Balances.Get(ctx, holder)
	if err != nil {
		return nil, fmt.Errorf("obtener saldo: %w", err)
	}
	return &dto.BalanceResponse{Holder: holder, Amount: amount}, nil
}

// BalanceOfInTx lee el saldo bloqueando la fila dentro de la transacción en curso.
func (uc *UseCase) BalanceOfInTx(ctx context.Context, r repository.Repos, holder string) (decimal.Decimal, error) {
	amount, err := r.Balances.GetForUpdate(ctx, holder)
	if err != nil {
		return decimal.Zero, fmt.Errorf("obtener saldo: %w", err)
	}
	return amount, nil
}

// Transfer mueve amount de from a to en su propia transacción.
func (uc *UseCase) Transfer(ctx context.Context, from string, in dto.TransferRequest) error {
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		return uc.TransferInTx(ctx, r, from, in.To, in.Amount)
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("caller", from).Msg("transferencia rechazada")
		return err
	}
	uc.log.Info().Str("caller", from).Str("to", in.To).Str("amount", in.Amount.String()).
		Str("event", entity.EventFundsTransferred).Msg("transferencia aplicada")
	return nil
}

// TransferInTx mueve amount de from a to con los repos de una transacción en curso.
// ErrInsufficientBalance si from no alcanza; no deja saldos negativos.
func (uc *UseCase) TransferInTx(ctx context.Context, r repository.Repos, from, to string, amount decimal.Decimal) error {
	if from == "" {
		return domain.NewError(domain.ErrUnauthorized, "balance", nil, "from")
	}
	if to == "" {
		return domain.Invalid("balance", "to")
	}
	if !amount.IsPositive() {
		return domain.Invalid("balance", "amount")
	}
	if err := uc.LockInTx(ctx, r, from, to); err != nil {
		return err
	}
	now := time.Now().UTC()
	fromBal, err := uc.BalanceOfInTx(ctx, r, from)
	if err != nil {
		return err
	}
	if fromBal.LessThan(amount) {
		return domain.NewError(domain.ErrInsufficientBalance, "balance", from, "amount")
	}
	if err := r.Balances.Upsert(ctx, from, fromBal.Sub(amount), now); err != nil {
		return fmt.Errorf("debitar saldo: %w", err)
	}
	// Se relee después del débito: from y to pueden coincidir.
	toBal, err := uc.BalanceOfInTx(ctx, r, to)
	if err != nil {
		return err
	}
	if err := r.Balances.Upsert(ctx, to, toBal.Add(amount), now); err != nil {
		return fmt.Errorf("acreditar saldo: %w", err)
	}
	return r.Audit.Append(ctx, entity.NewAuditEvent(entity.EventFundsTransferred, from, map[string]any{
		"from":   from,
		"to":     to,
		"amount": amount.String(),
	}, now))
}

// LockInTx bloquea los saldos de holders en orden lexicográfico, sin repetir. Quien
// tome varios saldos en una transacción lo hace en el mismo orden, y dos transferencias
// opuestas esperan en la misma fila en lugar de bloquearse mutuamente.
func (uc *UseCase) LockInTx(ctx context.Context, r repository.Repos, holders ...string) error {
	sorted := slices.Clone(holders)
	slices.Sort(sorted)
	for _, h := range slices.Compact(sorted) {
		if h == "" {
			continue
		}
		if _, err := r.Balances.GetForUpdate(ctx, h); err != nil {
			return fmt.Errorf("bloquear saldo: %w", err)
		}
	}
	return nil
}

// Credit acredita amount a holder. Solo el administrador de plataforma.
func (uc *UseCase) Credit(ctx context.Context, caller string, in dto.CreditRequest) (*dto.BalanceResponse, error) {
	if uc.platformAdmin == "" || caller != uc.platformAdmin {
		return nil, domain.NewError(domain.ErrUnauthorized, "balance", in.Holder, "caller")
	}
	if in.Holder == "" {
		return nil, domain.Invalid("balance", "holder")
	}
	if !in.Amount.IsPositive() {
		return nil, domain.Invalid("balance", "amount")
	}
	var total decimal.Decimal
	now := time.Now().UTC()
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		cur, err := uc.BalanceOfInTx(ctx, r, in.Holder)
		if err != nil {
			return err
		}
		total = cur.Add(in.Amount)
		if err := r.Balances.Upsert(ctx, in.Holder, total, now); err != nil {
			return fmt.Errorf("acreditar saldo: %w", err)
		}
		return r.Audit.Append(ctx, entity.NewAuditEvent(entity.EventFundsCredited, caller, map[string]any{
			"holder": in.Holder,
			"amount": in.Amount.String(),
		}, now))
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("holder", in.Holder).Str("amount", in.Amount.String()).Str("caller", caller).
		Str("event", entity.EventFundsCredited).Msg("saldo acreditado")
	return &dto.BalanceResponse{Holder: in.Holder, Amount: total}, nil
}
