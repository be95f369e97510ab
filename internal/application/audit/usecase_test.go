package audit_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ijair/codeEcommerce-sub001/internal/application/audit"
	authzuc "github.com/ijair/codeEcommerce-sub001/internal/application/authz"
	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/internal/application/funds"
	"github.com/ijair/codeEcommerce-sub001/internal/domain"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/authz"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/infrastructure/memory"
)

const (
	platformAdmin = "platform-admin"
	catalogAdmin  = "catalog-admin"
	ledgerAdmin   = "ledger-admin"
)

// newUseCase deja tres eventos: grant en catalog, grant en ledger y un crédito de plataforma.
func newUseCase(t *testing.T) *audit.UseCase {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	log := zerolog.Nop()
	gate := authz.NewGate(map[string]string{
		entity.StoreCatalog: catalogAdmin,
		entity.StoreLedger:  ledgerAdmin,
	})
	grants := authzuc.NewUseCase(s, s.Repos(), gate, log)
	_, err := grants.Grant(ctx, catalogAdmin, entity.StoreCatalog, "orch")
	require.NoError(t, err)
	_, err = grants.Grant(ctx, ledgerAdmin, entity.StoreLedger, "orch")
	require.NoError(t, err)
	_, err = funds.NewUseCase(s, s.Repos(), platformAdmin, log).
		Credit(ctx, platformAdmin, dto.CreditRequest{Holder: "client-a", Amount: decimal.NewFromInt(5)})
	require.NoError(t, err)
	return audit.NewUseCase(s.Repos(), gate, platformAdmin, log)
}

func TestRecent_AdministradorDePlataformaVeTodo(t *testing.T) {
	uc := newUseCase(t)
	out, err := uc.Recent(context.Background(), platformAdmin, 0)
	require.NoError(t, err)
	require.Len(t, out.Items, 3)
	assert.Equal(t, 3, out.Page.Total)

	assert.Equal(t, entity.EventGranted, out.Items[0].Type)
	assert.Equal(t, entity.StoreCatalog, out.Items[0].Store)
	assert.Equal(t, catalogAdmin, out.Items[0].Actor)
	assert.Equal(t, "orch", out.Items[0].Payload["caller"])
	assert.Equal(t, entity.StoreLedger, out.Items[1].Store)
	assert.Equal(t, entity.EventFundsCredited, out.Items[2].Type)
	assert.Empty(t, out.Items[2].Store)
}

func TestRecent_Limite(t *testing.T) {
	uc := newUseCase(t)
	out, err := uc.Recent(context.Background(), platformAdmin, 1)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, entity.EventFundsCredited, out.Items[0].Type, "quedan los más recientes")
}

func TestRecent_AdministradorDeAlmacenSoloSuAlmacen(t *testing.T) {
	uc := newUseCase(t)
	out, err := uc.Recent(context.Background(), catalogAdmin, 0)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, entity.StoreCatalog, out.Items[0].Store)
}

func TestRecent_OtroLlamadorRechazado(t *testing.T) {
	uc := newUseCase(t)
	_, err := uc.Recent(context.Background(), "mallory", 0)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Recent(context.Background(), "", 0)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}
