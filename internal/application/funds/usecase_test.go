package funds_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/internal/application/funds"
	"github.com/ijair/codeEcommerce-sub001/internal/domain"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
	"github.com/ijair/codeEcommerce-sub001/internal/infrastructure/memory"
)

const platformAdmin = "platform-admin"

func newUseCase() *funds.UseCase {
	s := memory.NewStore()
	return funds.NewUseCase(s, s.Repos(), platformAdmin, zerolog.Nop())
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func balance(t *testing.T, uc *funds.UseCase, holder string) decimal.Decimal {
	t.Helper()
	b, err := uc.BalanceOf(context.Background(), holder)
	require.NoError(t, err)
	return b.Amount
}

func TestBalanceOf_SinMovimientosEsCero(t *testing.T) {
	assert.True(t, balance(t, newUseCase(), "nadie").IsZero())
}

func TestCredit_SoloAdministrador(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	_, err := uc.Credit(ctx, "alice", dto.CreditRequest{Holder: "alice", Amount: dec("10")})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Credit(ctx, platformAdmin, dto.CreditRequest{Holder: "alice", Amount: dec("0")})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := uc.Credit(ctx, platformAdmin, dto.CreditRequest{Holder: "alice", Amount: dec("10")})
	require.NoError(t, err)
	assert.True(t, out.Amount.Equal(dec("10")))

	out, err = uc.Credit(ctx, platformAdmin, dto.CreditRequest{Holder: "alice", Amount: dec("2.5")})
	require.NoError(t, err)
	assert.True(t, out.Amount.Equal(dec("12.5")))
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()
	_, err := uc.Credit(ctx, platformAdmin, dto.CreditRequest{Holder: "alice", Amount: dec("10")})
	require.NoError(t, err)

	require.NoError(t, uc.Transfer(ctx, "alice", dto.TransferRequest{To: "bob", Amount: dec("4")}))
	assert.True(t, balance(t, uc, "alice").Equal(dec("6")))
	assert.True(t, balance(t, uc, "bob").Equal(dec("4")))

	err = uc.Transfer(ctx, "alice", dto.TransferRequest{To: "bob", Amount: dec("6.01")})
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.True(t, balance(t, uc, "alice").Equal(dec("6")), "un rechazo no mueve saldo")

	err = uc.Transfer(ctx, "alice", dto.TransferRequest{To: "bob", Amount: dec("-1")})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	err = uc.Transfer(ctx, "", dto.TransferRequest{To: "bob", Amount: dec("1")})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTransfer_AUnoMismo(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()
	_, err := uc.Credit(ctx, platformAdmin, dto.CreditRequest{Holder: "alice", Amount: dec("10")})
	require.NoError(t, err)

	require.NoError(t, uc.Transfer(ctx, "alice", dto.TransferRequest{To: "alice", Amount: dec("10")}))
	assert.True(t, balance(t, uc, "alice").Equal(dec("10")))
}

// lockRecorder anota el orden en que se bloquean los saldos.
type lockRecorder struct {
	repository.BalanceRepository
	locked []string
}

func (l *lockRecorder) GetForUpdate(ctx context.Context, holder string) (decimal.Decimal, error) {
	l.locked = append(l.locked, holder)
	return l.BalanceRepository.GetForUpdate(ctx, holder)
}

func TestTransferInTx_BloqueaEnOrdenLexicografico(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	uc := funds.NewUseCase(s, s.Repos(), platformAdmin, zerolog.Nop())
	_, err := uc.Credit(ctx, platformAdmin, dto.CreditRequest{Holder: "bob", Amount: dec("10")})
	require.NoError(t, err)

	var rec *lockRecorder
	err = s.Run(ctx, func(r repository.Repos) error {
		rec = &lockRecorder{BalanceRepository: r.Balances}
		r.Balances = rec
		return uc.TransferInTx(ctx, r, "bob", "alice", dec("3"))
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rec.locked), 2)
	assert.Equal(t, []string{"alice", "bob"}, rec.locked[:2], "primero el titular menor")

	assert.True(t, balance(t, uc, "bob").Equal(dec("7")))
	assert.True(t, balance(t, uc, "alice").Equal(dec("3")))
}

func TestLockInTx_OrdenaYSinRepetir(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	uc := funds.NewUseCase(s, s.Repos(), platformAdmin, zerolog.Nop())

	var rec *lockRecorder
	err := s.Run(ctx, func(r repository.Repos) error {
		rec = &lockRecorder{BalanceRepository: r.Balances}
		r.Balances = rec
		return uc.LockInTx(ctx, r, "owner", "client", "", "owner", "treasury")
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"client", "owner", "treasury"}, rec.locked)
}
