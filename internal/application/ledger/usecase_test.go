package ledger_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ijair/codeEcommerce-sub001/internal/application/company"
	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/internal/application/ledger"
	"github.com/ijair/codeEcommerce-sub001/internal/domain"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/authz"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/filter"
	"github.com/ijair/codeEcommerce-sub001/internal/infrastructure/memory"
)

const (
	owner       = "alice"
	ledgerAdmin = "ledger-admin"
)

func newFixture(t *testing.T) (*ledger.UseCase, *company.UseCase, int64) {
	t.Helper()
	s := memory.NewStore()
	gate := authz.NewGate(map[string]string{entity.StoreLedger: ledgerAdmin})
	companies := company.NewUseCase(s, s.Repos(), "", zerolog.Nop())
	c, err := companies.Create(context.Background(), owner, dto.CreateCompanyRequest{Name: "Tienda"})
	require.NoError(t, err)
	return ledger.NewUseCase(s, s.Repos(), gate, zerolog.Nop()), companies, c.ID
}

func purchase(clientID string, amount string) dto.RegisterPurchaseRequest {
	return dto.RegisterPurchaseRequest{ClientID: clientID, Amount: decimal.RequireFromString(amount)}
}

func TestRegisterPurchase_CreaYAcumula(t *testing.T) {
	ctx := context.Background()
	uc, _, companyID := newFixture(t)

	c, err := uc.RegisterPurchase(ctx, owner, companyID, purchase("client-a", "10"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.TotalPurchases)
	assert.True(t, c.TotalSpent.Equal(decimal.NewFromInt(10)))
	assert.True(t, c.IsActive)

	c, err = uc.RegisterPurchase(ctx, owner, companyID, purchase("client-a", "5"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), c.TotalPurchases)
	assert.True(t, c.TotalSpent.Equal(decimal.NewFromInt(15)), c.TotalSpent.String())
	assert.Equal(t, int64(0), c.InvoiceCount)
}

func TestRegisterPurchase_Validaciones(t *testing.T) {
	ctx := context.Background()
	uc, companies, companyID := newFixture(t)

	_, err := uc.RegisterPurchase(ctx, owner, companyID, purchase("client-a", "0"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterPurchase(ctx, owner, companyID, purchase("", "1"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterPurchase(ctx, "mallory", companyID, purchase("client-a", "1"))
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.RegisterPurchase(ctx, owner, 99, purchase("client-a", "1"))
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = companies.SetActive(ctx, owner, companyID, false)
	require.NoError(t, err)
	_, err = uc.RegisterPurchase(ctx, owner, companyID, purchase("client-a", "1"))
	require.ErrorIs(t, err, domain.ErrInactive)
}

func TestRegisterPurchase_ClienteInactivo(t *testing.T) {
	ctx := context.Background()
	uc, _, companyID := newFixture(t)

	_, err := uc.RegisterPurchase(ctx, owner, companyID, purchase("client-a", "1"))
	require.NoError(t, err)
	_, err = uc.SetActive(ctx, owner, companyID, "client-a", false)
	require.NoError(t, err)

	_, err = uc.RegisterPurchase(ctx, owner, companyID, purchase("client-a", "1"))
	require.ErrorIs(t, err, domain.ErrInactive)

	_, err = uc.SetActive(ctx, owner, companyID, "client-a", false)
	require.ErrorIs(t, err, domain.ErrAlreadyInState)
}

func TestIncrementInvoiceCount(t *testing.T) {
	ctx := context.Background()
	uc, _, companyID := newFixture(t)

	_, err := uc.IncrementInvoiceCount(ctx, ledgerAdmin, companyID, "client-a")
	require.ErrorIs(t, err, domain.ErrNotFound, "requiere una compra previa")

	_, err = uc.RegisterPurchase(ctx, owner, companyID, purchase("client-a", "1"))
	require.NoError(t, err)

	_, err = uc.IncrementInvoiceCount(ctx, owner, companyID, "client-a")
	require.ErrorIs(t, err, domain.ErrUnauthorized, "ser dueño no abre el punto privilegiado")

	c, err := uc.IncrementInvoiceCount(ctx, ledgerAdmin, companyID, "client-a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.InvoiceCount)

	_, err = uc.IncrementInvoiceCount(ctx, ledgerAdmin, companyID, "client-a")
	require.ErrorIs(t, err, domain.ErrInvalidInput, "invoice_count no puede superar total_purchases")
}

func TestStats_PromedioTruncado(t *testing.T) {
	ctx := context.Background()
	uc, _, companyID := newFixture(t)

	empty, err := uc.Stats(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.TotalClients)
	assert.True(t, empty.AverageSpentPerClient.IsZero())

	for _, p := range []dto.RegisterPurchaseRequest{
		purchase("a", "10"), purchase("b", "0.01"), purchase("c", "0.01"),
	} {
		_, err := uc.RegisterPurchase(ctx, owner, companyID, p)
		require.NoError(t, err)
	}
	_, err = uc.SetActive(ctx, owner, companyID, "c", false)
	require.NoError(t, err)

	s, err := uc.Stats(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.TotalClients)
	assert.Equal(t, int64(2), s.ActiveClients)
	assert.Equal(t, int64(1), s.InactiveClients)
	assert.Equal(t, int64(3), s.TotalPurchases)
	assert.True(t, s.TotalSpent.Equal(decimal.RequireFromString("10.02")))
	// 10.02 / 3 = 3.34
	assert.True(t, s.AverageSpentPerClient.Equal(decimal.RequireFromString("3.34")), s.AverageSpentPerClient.String())
}

func TestComputeStats_TruncaHaciaCero(t *testing.T) {
	s := ledger.ComputeStats([]*entity.Client{
		{TotalSpent: decimal.NewFromInt(10), IsActive: true, TotalPurchases: 1},
		{TotalSpent: decimal.Zero, IsActive: true, TotalPurchases: 1},
		{TotalSpent: decimal.Zero, IsActive: true, TotalPurchases: 1},
	})
	assert.True(t, s.AverageSpentPerClient.Equal(decimal.RequireFromString("3.33")), s.AverageSpentPerClient.String())
}

func TestFilterYTopClients(t *testing.T) {
	ctx := context.Background()
	uc, _, companyID := newFixture(t)
	for _, p := range []dto.RegisterPurchaseRequest{
		purchase("ana", "50"), purchase("beto", "200"), purchase("carla", "50"), purchase("ana", "100"),
	} {
		_, err := uc.RegisterPurchase(ctx, owner, companyID, p)
		require.NoError(t, err)
	}

	_, err := uc.Filter(ctx, filter.ClientQuery{})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "company_id es obligatoria")

	out, err := uc.Filter(ctx, filter.ClientQuery{CompanyID: companyID, MinPurchases: 2})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "ana", out.Items[0].ClientID)

	top, err := uc.TopClients(ctx, companyID, 2)
	require.NoError(t, err)
	require.Len(t, top.Items, 2)
	assert.Equal(t, "beto", top.Items[0].ClientID)
	assert.Equal(t, "ana", top.Items[1].ClientID)

	_, err = uc.TopClients(ctx, companyID, 0)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.ListByCompany(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ana", "beto", "carla"},
		[]string{list.Items[0].ClientID, list.Items[1].ClientID, list.Items[2].ClientID})
}
