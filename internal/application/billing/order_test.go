package billing_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authzuc "github.com/ijair/codeEcommerce-sub001/internal/application/authz"
	"github.com/ijair/codeEcommerce-sub001/internal/application/billing"
	"github.com/ijair/codeEcommerce-sub001/internal/application/catalog"
	"github.com/ijair/codeEcommerce-sub001/internal/application/company"
	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/internal/application/funds"
	"github.com/ijair/codeEcommerce-sub001/internal/application/ledger"
	"github.com/ijair/codeEcommerce-sub001/internal/domain"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/authz"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/fee"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/filter"
	"github.com/ijair/codeEcommerce-sub001/internal/infrastructure/memory"
)

const (
	owner         = "alice"
	orchestrator  = "orchestrator"
	platformAdmin = "platform-admin"
	treasury      = "treasury"
)

type fixture struct {
	store     *memory.Store
	orders    *billing.OrderUseCase
	companies *company.UseCase
	catalog   *catalog.UseCase
	ledger    *ledger.UseCase
	funds     *funds.UseCase
	companyID int64
}

type options struct {
	trackInventory bool
	feeBps         int64
	skipGrants     bool
}

func newFixture(t *testing.T, opts options) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	log := zerolog.Nop()
	gate := authz.NewGate(map[string]string{
		entity.StoreCatalog: "catalog-admin",
		entity.StoreLedger:  "ledger-admin",
	})

	f := &fixture{
		store:     s,
		companies: company.NewUseCase(s, s.Repos(), platformAdmin, log),
		catalog:   catalog.NewUseCase(s, s.Repos(), gate, log),
		ledger:    ledger.NewUseCase(s, s.Repos(), gate, log),
		funds:     funds.NewUseCase(s, s.Repos(), platformAdmin, log),
	}
	if !opts.skipGrants {
		grants := authzuc.NewUseCase(s, s.Repos(), gate, log)
		require.NoError(t, grants.EnsureGranted(ctx, entity.StoreCatalog, orchestrator))
		require.NoError(t, grants.EnsureGranted(ctx, entity.StoreLedger, orchestrator))
	}

	policy, err := fee.NewPolicy(opts.feeBps, treasury)
	require.NoError(t, err)
	f.orders = billing.NewOrderUseCase(s, s.Repos(), f.companies, f.catalog, f.ledger, f.funds, billing.Config{
		TrackInventory: opts.trackInventory,
		Caller:         orchestrator,
		Fee:            policy,
	}, log)

	c, err := f.companies.Create(ctx, owner, dto.CreateCompanyRequest{Name: "Tienda"})
	require.NoError(t, err)
	f.companyID = c.ID
	return f
}

func (f *fixture) product(t *testing.T, name, price string, stock int64) int64 {
	t.Helper()
	p, err := f.catalog.Create(context.Background(), owner, dto.CreateProductRequest{
		CompanyID: f.companyID,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Image:     "ipfs://" + name,
		Stock:     stock,
	})
	require.NoError(t, err)
	return p.ID
}

func (f *fixture) stock(t *testing.T, id int64) int64 {
	t.Helper()
	p, err := f.catalog.Get(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

func (f *fixture) balance(t *testing.T, holder string) decimal.Decimal {
	t.Helper()
	b, err := f.funds.BalanceOf(context.Background(), holder)
	require.NoError(t, err)
	return b.Amount
}

func (f *fixture) order(number, clientID string, items ...dto.OrderItemRequest) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{CompanyID: f.companyID, Number: number, ClientID: clientID, Items: items}
}

func item(productID, qty int64) dto.OrderItemRequest {
	return dto.OrderItemRequest{ProductID: productID, Quantity: qty}
}

// assertNothingRecorded verifica que una orden rechazada no dejó factura ni cliente.
func (f *fixture) assertNothingRecorded(t *testing.T, clientID string) {
	t.Helper()
	ctx := context.Background()
	list, err := f.orders.ListByCompany(ctx, f.companyID)
	require.NoError(t, err)
	assert.Empty(t, list.Items, "no debe quedar factura")
	_, err = f.ledger.Get(ctx, f.companyID, clientID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "no debe quedar cliente")
}

func TestCreateOrder_DescuentaStockYRegistraCompra(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, options{trackInventory: true})
	pid := f.product(t, "Computer", "10", 100)

	inv, err := f.orders.CreateOrder(ctx, owner, f.order("F-001", "client-a", item(pid, 5)))
	require.NoError(t, err)

	assert.Equal(t, int64(1), inv.ID)
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(50)), inv.TotalAmount.String())
	assert.False(t, inv.IsPaid)
	require.Len(t, inv.Items, 1)
	assert.True(t, inv.Items[0].UnitPrice.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, int64(95), f.stock(t, pid))

	c, err := f.ledger.Get(ctx, f.companyID, "client-a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.TotalPurchases)
	assert.Equal(t, int64(1), c.InvoiceCount)
	assert.True(t, c.TotalSpent.Equal(decimal.NewFromInt(50)))

	got, err := f.orders.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "F-001", got.Number)
}

func TestCreateOrder_StockInsuficienteNoDejaEfectos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, options{trackInventory: true})
	a := f.product(t, "A", "10", 10)
	b := f.product(t, "B", "20", 1)

	_, err := f.orders.CreateOrder(ctx, owner, f.order("F-001", "client-a", item(a, 2), item(b, 5)))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(10), f.stock(t, a))
	assert.Equal(t, int64(1), f.stock(t, b))
	f.assertNothingRecorded(t, "client-a")
}

func TestCreateOrder_StockSeAcumulaPorProducto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, options{trackInventory: true})
	a := f.product(t, "A", "10", 5)

	_, err := f.orders.CreateOrder(ctx, owner, f.order("F-001", "client-a", item(a, 3), item(a, 3)))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), f.stock(t, a))

	inv, err := f.orders.CreateOrder(ctx, owner, f.order("F-002", "client-a", item(a, 3), item(a, 2)))
	require.NoError(t, err)
	assert.Len(t, inv.Items, 2)
	assert.Equal(t, int64(0), f.stock(t, a))
}

func TestCreateOrder_LiquidaDesdeSaldoConComision(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, options{trackInventory: true, feeBps: 250})
	pid := f.product(t, "Computer", "10", 100)
	_, err := f.funds.Credit(ctx, platformAdmin, dto.CreditRequest{Holder: "client-a", Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	req := f.order("F-001", "client-a", item(pid, 5))
	req.SettleFromBalance = true
	inv, err := f.orders.CreateOrder(ctx, owner, req)
	require.NoError(t, err)
	assert.True(t, inv.IsPaid)

	assert.True(t, f.balance(t, "client-a").Equal(decimal.NewFromInt(50)))
	assert.True(t, f.balance(t, treasury).Equal(decimal.RequireFromString("1.25")), f.balance(t, treasury).String())
	assert.True(t, f.balance(t, owner).Equal(decimal.RequireFromString("48.75")), f.balance(t, owner).String())
}

func TestCreateOrder_SaldoInsuficiente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, options{trackInventory: true})
	pid := f.product(t, "Computer", "10", 100)
	_, err := f.funds.Credit(ctx, platformAdmin, dto.CreditRequest{Holder: "client-a", Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)

	req := f.order("F-001", "client-a", item(pid, 5))
	req.SettleFromBalance = true
	_, err = f.orders.CreateOrder(ctx, owner, req)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	assert.Equal(t, int64(100), f.stock(t, pid))
	assert.True(t, f.balance(t, "client-a").Equal(decimal.NewFromInt(10)))
	assert.True(t, f.balance(t, owner).IsZero())
	f.assertNothingRecorded(t, "client-a")
}

func TestCreateOrder_LlamadorNoEsDueno(t *testing.T) {
	f := newFixture(t, options{trackInventory: true})
	pid := f.product(t, "Computer", "10", 100)

	_, err := f.orders.CreateOrder(context.Background(), "mallory", f.order("F-001", "client-a", item(pid, 1)))
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, int64(100), f.stock(t, pid))
}

func TestCreateOrder_OrquestadorSinGrant(t *testing.T) {
	f := newFixture(t, options{trackInventory: true, skipGrants: true})
	pid := f.product(t, "Computer", "10", 100)

	_, err := f.orders.CreateOrder(context.Background(), owner, f.order("F-001", "client-a", item(pid, 1)))
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, int64(100), f.stock(t, pid))
	f.assertNothingRecorded(t, "client-a")
}

func TestCreateOrder_FalloDespuesDeLiquidarRestauraSaldos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, options{trackInventory: true, feeBps: 250, skipGrants: true})
	pid := f.product(t, "Computer", "10", 100)
	_, err := f.funds.Credit(ctx, platformAdmin, dto.CreditRequest{Holder: "client-a", Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)

	// La liquidación ocurre antes del descuento de stock, que falla por falta de grant.
	req := f.order("F-001", "client-a", item(pid, 5))
	req.SettleFromBalance = true
	_, err = f.orders.CreateOrder(ctx, owner, req)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.True(t, f.balance(t, "client-a").Equal(decimal.NewFromInt(100)), f.balance(t, "client-a").String())
	assert.True(t, f.balance(t, owner).IsZero(), f.balance(t, owner).String())
	assert.True(t, f.balance(t, treasury).IsZero(), f.balance(t, treasury).String())
	assert.Equal(t, int64(100), f.stock(t, pid))
	f.assertNothingRecorded(t, "client-a")
}

func TestCreateOrder_ProductoInvalido(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, options{trackInventory: true})
	pid := f.product(t, "Computer", "10", 100)

	_, err := f.orders.CreateOrder(ctx, owner, f.order("F-001", "client-a", item(99, 1)))
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	other, err := f.companies.Create(ctx, "bob", dto.CreateCompanyRequest{Name: "Otra"})
	require.NoError(t, err)
	foreign, err := f.catalog.Create(ctx, "bob", dto.CreateProductRequest{
		CompanyID: other.ID, Name: "X", Price: decimal.NewFromInt(1), Image: "x", Stock: 10,
	})
	require.NoError(t, err)
	_, err = f.orders.CreateOrder(ctx, owner, f.order("F-001", "client-a", item(foreign.ID, 1)))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.catalog.SetActive(ctx, owner, pid, false)
	require.NoError(t, err)
	_, err = f.orders.CreateOrder(ctx, owner, f.order("F-001", "client-a", item(pid, 1)))
	require.ErrorIs(t, err, domain.ErrInactive)
}

func TestCreateOrder_Validaciones(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, options{trackInventory: true})
	pid := f.product(t, "Computer", "10", 100)

	_, err := f.orders.CreateOrder(ctx, owner, f.order("", "client-a", item(pid, 1)))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.orders.CreateOrder(ctx, owner, f.order("F-001", "", item(pid, 1)))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.orders.CreateOrder(ctx, owner, f.order("F-001", "client-a"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.orders.CreateOrder(ctx, owner, f.order("F-001", "client-a", item(pid, 0)))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.companies.SetActive(ctx, owner, f.companyID, false)
	require.NoError(t, err)
	_, err = f.orders.CreateOrder(ctx, owner, f.order("F-001", "client-a", item(pid, 1)))
	require.ErrorIs(t, err, domain.ErrInactive)
}

func TestCreateOrder_PrecioExplicito(t *testing.T) {
	f := newFixture(t, options{trackInventory: true})
	pid := f.product(t, "Computer", "10", 100)

	it := item(pid, 2)
	it.UnitPrice = decimal.RequireFromString("7.5")
	inv, err := f.orders.CreateOrder(context.Background(), owner, f.order("F-001", "client-a", it))
	require.NoError(t, err)
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(15)), inv.TotalAmount.String())
}

func TestCreateOrder_SinInventario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, options{trackInventory: false})
	pid := f.product(t, "Computer", "10", 3)

	_, err := f.orders.CreateOrder(ctx, owner, f.order("F-001", "client-a", item(pid, 1)))
	require.ErrorIs(t, err, domain.ErrZeroAmount, "sin catálogo no se toma el precio del producto")

	it := item(pid, 50)
	it.UnitPrice = decimal.NewFromInt(2)
	inv, err := f.orders.CreateOrder(ctx, owner, f.order("F-001", "client-a", it))
	require.NoError(t, err)
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, int64(3), f.stock(t, pid), "el stock no se toca")
}

func TestCreateOrder_SinInventario_LineaGratuita(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, options{trackInventory: false})

	free := item(1, 1)
	paid := item(2, 1)
	paid.UnitPrice = decimal.NewFromInt(5)
	inv, err := f.orders.CreateOrder(ctx, owner, f.order("F-001", "client-a", free, paid))
	require.NoError(t, err)
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(5)), inv.TotalAmount.String())
	require.Len(t, inv.Items, 2)
	assert.True(t, inv.Items[0].LineTotal.IsZero())

	c, err := f.ledger.Get(ctx, f.companyID, "client-a")
	require.NoError(t, err)
	assert.True(t, c.TotalSpent.Equal(decimal.NewFromInt(5)))
}

func TestCreateOrder_TotalCero(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, options{trackInventory: false})

	_, err := f.orders.CreateOrder(ctx, owner, f.order("F-001", "client-a", item(1, 1), item(2, 3)))
	require.ErrorIs(t, err, domain.ErrZeroAmount)
	f.assertNothingRecorded(t, "client-a")

	neg := item(1, 1)
	neg.UnitPrice = decimal.NewFromInt(-1)
	_, err = f.orders.CreateOrder(ctx, owner, f.order("F-001", "client-a", neg))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInvoices_PagoYFiltros(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, options{trackInventory: true})
	pid := f.product(t, "Computer", "10", 100)

	a, err := f.orders.CreateOrder(ctx, owner, f.order("F-001", "client-a", item(pid, 1)))
	require.NoError(t, err)
	_, err = f.orders.CreateOrder(ctx, owner, f.order("F-002", "client-b", item(pid, 3)))
	require.NoError(t, err)

	_, err = f.orders.MarkPaid(ctx, "mallory", a.ID)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	paid, err := f.orders.MarkPaid(ctx, owner, a.ID)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)

	_, err = f.orders.MarkPaid(ctx, owner, a.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyInState)

	_, err = f.orders.UpdatePayment(ctx, owner, a.ID, dto.UpdatePaymentRequest{IsPaid: false})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	upd, err := f.orders.UpdatePayment(ctx, owner, a.ID, dto.UpdatePaymentRequest{IsPaid: false, TotalAmount: decimal.NewFromInt(8)})
	require.NoError(t, err)
	assert.False(t, upd.IsPaid)
	assert.True(t, upd.TotalAmount.Equal(decimal.NewFromInt(8)))
	assert.Len(t, upd.Items, 1, "las líneas no cambian")

	_, err = f.orders.MarkPaid(ctx, owner, 99)
	require.ErrorIs(t, err, domain.ErrNotFound)

	byClient, err := f.orders.ListByClient(ctx, f.companyID, "client-b")
	require.NoError(t, err)
	require.Len(t, byClient.Items, 1)
	assert.Equal(t, "F-002", byClient.Items[0].Number)

	unpaid := false
	out, err := f.orders.Filter(ctx, filter.InvoiceQuery{CompanyID: f.companyID, IsPaid: &unpaid, Search: "F-00"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Total)

	_, err = f.orders.Filter(ctx, filter.InvoiceQuery{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
