package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ijair/codeEcommerce-sub001/internal/application/audit"
	"github.com/ijair/codeEcommerce-sub001/internal/application/authz"
	"github.com/ijair/codeEcommerce-sub001/internal/application/billing"
	"github.com/ijair/codeEcommerce-sub001/internal/application/catalog"
	"github.com/ijair/codeEcommerce-sub001/internal/application/company"
	"github.com/ijair/codeEcommerce-sub001/internal/application/funds"
	"github.com/ijair/codeEcommerce-sub001/internal/application/ledger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC *company.UseCase
	CatalogUC *catalog.UseCase
	LedgerUC  *ledger.UseCase
	AuthzUC   *authz.UseCase
	FundsUC   *funds.UseCase
	OrderUC   *billing.OrderUseCase
	PDFUC     *billing.PDFUseCase // opcional
	AuditUC   *audit.UseCase      // opcional
	JWTSecret string
	JWTIssuer string
}

// Router registra las rutas de la API. Las lecturas son públicas; toda mutación exige Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	companyHandler := NewCompanyHandler(deps.CompanyUC)
	productHandler := NewProductHandler(deps.CatalogUC)
	clientHandler := NewClientHandler(deps.LedgerUC)
	invoiceHandler := NewInvoiceHandler(deps.OrderUC, deps.PDFUC)
	balanceHandler := NewBalanceHandler(deps.FundsUC)
	grantHandler := NewGrantHandler(deps.AuthzUC)

	// Lecturas (público)
	api.Get("/companies", companyHandler.List)
	api.Get("/companies/:id", companyHandler.GetByID)
	api.Get("/companies/:id/clients", clientHandler.List)
	api.Get("/companies/:id/clients/search", clientHandler.Search)
	api.Get("/companies/:id/clients/stats", clientHandler.Stats)
	api.Get("/companies/:id/clients/top", clientHandler.Top)
	api.Get("/companies/:id/clients/:clientId", clientHandler.Get)
	api.Get("/companies/:id/invoices", invoiceHandler.ListByCompany)
	api.Get("/companies/:id/invoices/search", invoiceHandler.Search)

	api.Get("/products", productHandler.List)
	api.Get("/products/search", productHandler.Search)
	api.Get("/products/:id", productHandler.GetByID)

	api.Get("/invoices/:id", invoiceHandler.GetByID)
	api.Get("/balances/:holder", balanceHandler.Get)
	api.Get("/grants/:store", grantHandler.List)
	api.Get("/grants/:store/:caller", grantHandler.Check)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	protected.Post("/companies", companyHandler.Create)
	protected.Put("/companies/:id", companyHandler.Rename)
	protected.Patch("/companies/:id/active", companyHandler.SetActive)
	protected.Post("/companies/:id/transfer", companyHandler.Transfer)
	protected.Post("/companies/:id/clients/purchases", clientHandler.RegisterPurchase)
	protected.Post("/companies/:id/clients/:clientId/invoice-count", clientHandler.IncrementInvoiceCount)
	protected.Patch("/companies/:id/clients/:clientId/active", clientHandler.SetActive)

	protected.Post("/products", productHandler.Create)
	protected.Put("/products/:id", productHandler.Update)
	protected.Patch("/products/:id/active", productHandler.SetActive)
	protected.Post("/products/:id/restock", productHandler.Restock())
	protected.Post("/products/:id/purchase", productHandler.Purchase())
	protected.Post("/products/:id/decrement", productHandler.Decrement())

	protected.Post("/orders", invoiceHandler.CreateOrder)
	protected.Get("/invoices/:id/pdf", invoiceHandler.DownloadPDF)
	protected.Patch("/invoices/:id/payment", invoiceHandler.UpdatePayment)
	protected.Post("/invoices/:id/paid", invoiceHandler.MarkPaid)

	protected.Post("/balances/transfer", balanceHandler.Transfer)
	protected.Post("/balances/credit", balanceHandler.Credit)

	protected.Post("/grants/:store", grantHandler.Grant)
	protected.Delete("/grants/:store/:caller", grantHandler.Revoke)

	if deps.AuditUC != nil {
		protected.Get("/audit", NewAuditHandler(deps.AuditUC).Recent)
	}
}
