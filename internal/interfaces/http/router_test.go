package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ijair/codeEcommerce-sub001/internal/application/audit"
	authzuc "github.com/ijair/codeEcommerce-sub001/internal/application/authz"
	"github.com/ijair/codeEcommerce-sub001/internal/application/billing"
	"github.com/ijair/codeEcommerce-sub001/internal/application/catalog"
	"github.com/ijair/codeEcommerce-sub001/internal/application/company"
	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/internal/application/funds"
	"github.com/ijair/codeEcommerce-sub001/internal/application/ledger"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/authz"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/fee"
	"github.com/ijair/codeEcommerce-sub001/internal/infrastructure/memory"
	apphttp "github.com/ijair/codeEcommerce-sub001/internal/interfaces/http"
)

const (
	owner         = "alice"
	stranger      = "mallory"
	orchestrator  = "orchestrator"
	platformAdmin = "platform-admin"
)

// newAPI arma la API completa sobre el almacén en memoria, como cmd/api.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	s := memory.NewStore()
	log := zerolog.Nop()
	gate := authz.NewGate(map[string]string{
		entity.StoreCatalog: "catalog-admin",
		entity.StoreLedger:  "ledger-admin",
	})
	companies := company.NewUseCase(s, s.Repos(), platformAdmin, log)
	products := catalog.NewUseCase(s, s.Repos(), gate, log)
	clients := ledger.NewUseCase(s, s.Repos(), gate, log)
	balances := funds.NewUseCase(s, s.Repos(), platformAdmin, log)
	grants := authzuc.NewUseCase(s, s.Repos(), gate, log)
	require.NoError(t, grants.EnsureGranted(context.Background(), entity.StoreCatalog, orchestrator))
	require.NoError(t, grants.EnsureGranted(context.Background(), entity.StoreLedger, orchestrator))

	policy, err := fee.NewPolicy(0, "")
	require.NoError(t, err)
	orders := billing.NewOrderUseCase(s, s.Repos(), companies, products, clients, balances, billing.Config{
		TrackInventory: true,
		Caller:         orchestrator,
		Fee:            policy,
	}, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CompanyUC: companies,
		CatalogUC: products,
		LedgerUC:  clients,
		AuthzUC:   grants,
		FundsUC:   balances,
		OrderUC:   orders,
		AuditUC:   audit.NewUseCase(s.Repos(), gate, platformAdmin, log),
		JWTSecret: testJWTSecret,
		JWTIssuer: testIssuer,
	})
	return app
}

// call lanza la petición; caller vacío la envía sin token. out puede ser nil.
func call(t *testing.T, app *fiber.App, method, path, caller string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if caller != "" {
		req.Header.Set("Authorization", bearer(t, caller))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// seed crea una empresa de owner con un producto de precio 10 y stock 100.
func seed(t *testing.T, app *fiber.App) (companyID, productID int64) {
	t.Helper()
	var c dto.CompanyResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/companies", owner,
		dto.CreateCompanyRequest{Name: "Tienda"}, &c))

	var p dto.ProductResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/products", owner,
		dto.CreateProductRequest{CompanyID: c.ID, Name: "Computer", Price: decimal.NewFromInt(10), Image: "ipfs://pc", Stock: 100}, &p))
	return c.ID, p.ID
}

func TestRouter_Health(t *testing.T) {
	app := newAPI(t)
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/health", "", nil, nil))
}

func TestRouter_MutacionSinToken_Retorna401(t *testing.T) {
	app := newAPI(t)
	status := call(t, app, http.MethodPost, "/api/companies", "", dto.CreateCompanyRequest{Name: "Tienda"}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRouter_LecturasPublicas(t *testing.T) {
	app := newAPI(t)
	companyID, productID := seed(t, app)

	var c dto.CompanyResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, fmt.Sprintf("/api/companies/%d", companyID), "", nil, &c))
	assert.Equal(t, owner, c.OwnerID)
	assert.True(t, c.IsActive)

	var p dto.ProductResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, fmt.Sprintf("/api/products/%d", productID), "", nil, &p))
	assert.Equal(t, int64(100), p.Stock)

	var list dto.ProductListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/products/search?q=Comp&max_price=20", "", nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, productID, list.Items[0].ID)
}

func TestRouter_OrdenCompleta(t *testing.T) {
	app := newAPI(t)
	companyID, productID := seed(t, app)

	var inv dto.InvoiceResponse
	status := call(t, app, http.MethodPost, "/api/orders", owner, dto.CreateOrderRequest{
		CompanyID: companyID,
		Number:    "F-001",
		ClientID:  "client-a",
		Items:     []dto.OrderItemRequest{{ProductID: productID, Quantity: 5}},
	}, &inv)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(50)), inv.TotalAmount.String())

	var p dto.ProductResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, fmt.Sprintf("/api/products/%d", productID), "", nil, &p))
	assert.Equal(t, int64(95), p.Stock)

	var cl dto.ClientResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet,
		fmt.Sprintf("/api/companies/%d/clients/client-a", companyID), "", nil, &cl))
	assert.Equal(t, int64(1), cl.TotalPurchases)
	assert.Equal(t, int64(1), cl.InvoiceCount)

	var invoices dto.InvoiceListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet,
		fmt.Sprintf("/api/companies/%d/invoices/search?paid=false&q=F-", companyID), "", nil, &invoices))
	assert.Len(t, invoices.Items, 1)

	var paid dto.InvoiceResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost,
		fmt.Sprintf("/api/invoices/%d/paid", inv.ID), owner, nil, &paid))
	assert.True(t, paid.IsPaid)
}

func TestRouter_ErroresDeDominio(t *testing.T) {
	app := newAPI(t)
	companyID, productID := seed(t, app)

	var errBody dto.ErrorResponse
	status := call(t, app, http.MethodPost, "/api/orders", owner, dto.CreateOrderRequest{
		CompanyID: companyID,
		Number:    "F-001",
		ClientID:  "client-a",
		Items:     []dto.OrderItemRequest{{ProductID: productID, Quantity: 500}},
	}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errBody.Code)

	status = call(t, app, http.MethodPost, "/api/orders", owner, dto.CreateOrderRequest{
		CompanyID: companyID,
		Number:    "F-002",
		ClientID:  "client-a",
		Items:     []dto.OrderItemRequest{{ProductID: 999, Quantity: 1}},
	}, &errBody)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "PRODUCT_NOT_FOUND", errBody.Code)

	status = call(t, app, http.MethodPatch, fmt.Sprintf("/api/companies/%d/active", companyID), stranger,
		dto.ActiveRequest{Active: false}, &errBody)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errBody.Code)

	status = call(t, app, http.MethodGet, "/api/companies/999", "", nil, &errBody)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errBody.Code)

	status = call(t, app, http.MethodGet, "/api/companies/abc", "", nil, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRouter_GrantsYSaldos(t *testing.T) {
	app := newAPI(t)

	var g dto.GrantResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/grants/catalog", "catalog-admin",
		dto.GrantRequest{Caller: "pos-1"}, &g))
	assert.Equal(t, "pos-1", g.Caller)

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/grants/catalog", "catalog-admin",
		dto.GrantRequest{Caller: "pos-1"}, &errBody))
	assert.Equal(t, "ALREADY_AUTHORIZED", errBody.Code)

	var check map[string]bool
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/grants/catalog/pos-1", "", nil, &check))
	assert.True(t, check["authorized"])

	assert.Equal(t, http.StatusNoContent, call(t, app, http.MethodDelete, "/api/grants/catalog/pos-1", "catalog-admin", nil, nil))

	var b dto.BalanceResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/balances/credit", platformAdmin,
		dto.CreditRequest{Holder: "client-a", Amount: decimal.NewFromInt(30)}, &b))
	assert.True(t, b.Amount.Equal(decimal.NewFromInt(30)))

	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/balances/transfer", "client-a",
		dto.TransferRequest{To: "client-b", Amount: decimal.NewFromInt(10)}, &b))
	assert.True(t, b.Amount.Equal(decimal.NewFromInt(20)))

	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/balances/client-b", "", nil, &b))
	assert.True(t, b.Amount.Equal(decimal.NewFromInt(10)))

	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/api/balances/credit", stranger,
		dto.CreditRequest{Holder: stranger, Amount: decimal.NewFromInt(1)}, &errBody))
}

func TestRouter_PDFSinGenerador_Retorna501(t *testing.T) {
	app := newAPI(t)
	assert.Equal(t, http.StatusNotImplemented, call(t, app, http.MethodGet, "/api/invoices/1/pdf", owner, nil, nil))
}

func TestRouter_Auditoria(t *testing.T) {
	app := newAPI(t)
	seed(t, app)

	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/api/audit", "", nil, nil))

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodGet, "/api/audit", owner, nil, &errBody))
	assert.Equal(t, "FORBIDDEN", errBody.Code)

	// Dos grants del orquestador, la empresa y el producto.
	var all dto.AuditListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/audit", platformAdmin, nil, &all))
	require.Len(t, all.Items, 4)
	assert.Equal(t, entity.EventGranted, all.Items[0].Type)
	assert.Equal(t, entity.EventProductCreated, all.Items[3].Type)

	var recent dto.AuditListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/audit?limit=1", platformAdmin, nil, &recent))
	require.Len(t, recent.Items, 1)
	assert.Equal(t, entity.EventProductCreated, recent.Items[0].Type)

	var catalogOnly dto.AuditListResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/audit", "catalog-admin", nil, &catalogOnly))
	require.Len(t, catalogOnly.Items, 2)
	for _, e := range catalogOnly.Items {
		assert.Equal(t, entity.StoreCatalog, e.Store)
	}
}
