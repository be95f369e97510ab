package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxNumberLen longitud máxima (bytes) del número de factura.
const MaxNumberLen = 100

// Invoice representa una factura emitida por una empresa a un cliente.
// Items es inmutable tras la creación; solo IsPaid y TotalAmount se pueden enmendar.
type Invoice struct {
	ID          int64
	CompanyID   int64
	Number      string
	Date        time.Time
	ClientID    string
	TotalAmount decimal.Decimal
	IsPaid      bool
	Items       []InvoiceItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InvoiceItem línea de factura. LineTotal = Quantity * UnitPrice.
type InvoiceItem struct {
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// ItemsTotal suma los totales de línea.
func (inv *Invoice) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range inv.Items {
		total = total.Add(it.LineTotal)
	}
	return total
}
