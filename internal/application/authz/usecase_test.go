package authz_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authzuc "github.com/ijair/codeEcommerce-sub001/internal/application/authz"
	"github.com/ijair/codeEcommerce-sub001/internal/domain"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/authz"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/infrastructure/memory"
)

const (
	catalogAdmin = "catalog-admin"
	ledgerAdmin  = "ledger-admin"
)

func newUseCase() *authzuc.UseCase {
	s := memory.NewStore()
	gate := authz.NewGate(map[string]string{
		entity.StoreCatalog: catalogAdmin,
		entity.StoreLedger:  ledgerAdmin,
	})
	return authzuc.NewUseCase(s, s.Repos(), gate, zerolog.Nop())
}

func TestGrantRevoke_Ciclo(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	ok, err := uc.IsAuthorized(ctx, entity.StoreCatalog, "orch")
	require.NoError(t, err)
	assert.False(t, ok)

	g, err := uc.Grant(ctx, catalogAdmin, entity.StoreCatalog, "orch")
	require.NoError(t, err)
	assert.Equal(t, catalogAdmin, g.GrantedBy)

	ok, err = uc.IsAuthorized(ctx, entity.StoreCatalog, "orch")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = uc.IsAuthorized(ctx, entity.StoreLedger, "orch")
	require.NoError(t, err)
	assert.False(t, ok, "los grants son por almacén")

	_, err = uc.Grant(ctx, catalogAdmin, entity.StoreCatalog, "orch")
	require.ErrorIs(t, err, domain.ErrAlreadyAuthorized)

	require.NoError(t, uc.Revoke(ctx, catalogAdmin, entity.StoreCatalog, "orch"))
	require.ErrorIs(t, uc.Revoke(ctx, catalogAdmin, entity.StoreCatalog, "orch"), domain.ErrNotAuthorized)

	ok, err = uc.IsAuthorized(ctx, entity.StoreCatalog, "orch")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGrant_SoloAdministradorDelAlmacen(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	_, err := uc.Grant(ctx, ledgerAdmin, entity.StoreCatalog, "orch")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Grant(ctx, "", entity.StoreCatalog, "orch")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Grant(ctx, catalogAdmin, "warehouse", "orch")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Grant(ctx, catalogAdmin, entity.StoreCatalog, "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	require.ErrorIs(t, uc.Revoke(ctx, "orch", entity.StoreCatalog, "orch"), domain.ErrUnauthorized)
}

func TestAdministradorSiempreAutorizado(t *testing.T) {
	ok, err := newUseCase().IsAuthorized(context.Background(), entity.StoreLedger, ledgerAdmin)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()
	_, err := uc.Grant(ctx, ledgerAdmin, entity.StoreLedger, "orch")
	require.NoError(t, err)

	out, err := uc.List(ctx, entity.StoreLedger)
	require.NoError(t, err)
	assert.Equal(t, ledgerAdmin, out.Admin)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "orch", out.Items[0].Caller)

	_, err = uc.List(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEnsureGranted_Idempotente(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	uc := authzuc.NewUseCase(s, s.Repos(), authz.NewGate(nil), zerolog.Nop())

	require.NoError(t, uc.EnsureGranted(ctx, entity.StoreCatalog, "orch"))
	require.NoError(t, uc.EnsureGranted(ctx, entity.StoreCatalog, "orch"))

	out, err := uc.List(ctx, entity.StoreCatalog)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "system", out.Items[0].GrantedBy)
}
