package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
)

// Colaboradores del orquestador. Cada uno opera con los repos de la transacción en curso,
// de modo que todos los efectos de una orden se confirman o se descartan juntos.

// CompanyReader lectura del directorio de empresas.
type CompanyReader interface {
	GetInTx(ctx context.Context, r repository.Repos, id int64) (*entity.Company, error)
}

// ProductStore punto privilegiado del catálogo.
type ProductStore interface {
	DecrementStockInTx(ctx context.Context, r repository.Repos, caller string, id, qty int64) (*entity.Product, error)
}

// ClientStore puntos privilegiados del libro de clientes. IncrementInvoiceCountInTx
// exige que RegisterPurchaseInTx haya creado el registro antes.
type ClientStore interface {
	RegisterPurchaseInTx(ctx context.Context, r repository.Repos, caller string, companyID int64, clientID string, amount decimal.Decimal) (*entity.Client, error)
	IncrementInvoiceCountInTx(ctx context.Context, r repository.Repos, caller string, companyID int64, clientID string) (*entity.Client, error)
}

// FundsStore saldos internos para liquidar la orden.
type FundsStore interface {
	LockInTx(ctx context.Context, r repository.Repos, holders ...string) error
	BalanceOfInTx(ctx context.Context, r repository.Repos, holder string) (decimal.Decimal, error)
	TransferInTx(ctx context.Context, r repository.Repos, from, to string, amount decimal.Decimal) error
}

// InvoiceLineForPDF línea de factura enriquecida con el nombre del producto.
type InvoiceLineForPDF struct {
	entity.InvoiceItem
	ProductName string
}

// InvoicePDFGenerator genera la representación gráfica de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, company *entity.Company, lines []InvoiceLineForPDF) ([]byte, error)
}
