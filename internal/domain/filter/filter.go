// Package filter evalúa consultas multi-predicado sobre productos, clientes y facturas.
//
// Reglas comunes:
//   - Un predicado en su valor cero (0, "", nil, time.Time{}) no se aplica.
//   - Todos los predicados presentes se combinan con AND; el orden en que se declaran no importa.
//   - La búsqueda de texto es contención exacta de bytes (sensible a mayúsculas); "" coincide con todo.
//   - El resultado conserva el orden de la colección de entrada (orden de creación); nunca se reordena.
//   - Mínimo > máximo con ambos presentes es ErrInvalidInput.
package filter

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ijair/codeEcommerce-sub001/internal/domain"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
)

// ProductQuery predicados sobre productos. Search se aplica al nombre.
type ProductQuery struct {
	CompanyID int64
	MinPrice  decimal.Decimal
	MaxPrice  decimal.Decimal
	IsActive  *bool
	Search    string
}

// ClientQuery predicados sobre clientes de una empresa. Search se aplica al ClientID.
type ClientQuery struct {
	CompanyID    int64
	MinSpent     decimal.Decimal
	MaxSpent     decimal.Decimal
	MinPurchases int64
	MaxPurchases int64
	IsActive     *bool
	Search       string
}

// InvoiceQuery predicados sobre facturas. Search se aplica al número de factura.
// From y To son inclusivos sobre Invoice.Date.
type InvoiceQuery struct {
	CompanyID int64
	ClientID  string
	MinAmount decimal.Decimal
	MaxAmount decimal.Decimal
	From      time.Time
	To        time.Time
	IsPaid    *bool
	Search    string
}

// Contains es la coincidencia de subcadena del motor: bytes exactos, "" coincide siempre.
func Contains(s, term string) bool {
	return strings.Contains(s, term)
}

// Validate rechaza rangos invertidos o negativos.
func (q ProductQuery) Validate() error {
	if q.MinPrice.IsNegative() || q.MaxPrice.IsNegative() {
		return domain.Invalid("product", "price_range")
	}
	if !q.MinPrice.IsZero() && !q.MaxPrice.IsZero() && q.MinPrice.GreaterThan(q.MaxPrice) {
		return domain.Invalid("product", "price_range")
	}
	return nil
}

// Match evalúa todos los predicados presentes sobre p.
func (q ProductQuery) Match(p *entity.Product) bool {
	if q.CompanyID != 0 && p.CompanyID != q.CompanyID {
		return false
	}
	if !q.MinPrice.IsZero() && p.Price.LessThan(q.MinPrice) {
		return false
	}
	if !q.MaxPrice.IsZero() && p.Price.GreaterThan(q.MaxPrice) {
		return false
	}
	if q.IsActive != nil && p.IsActive != *q.IsActive {
		return false
	}
	return Contains(p.Name, q.Search)
}

// Products filtra list conservando su orden.
func Products(list []*entity.Product, q ProductQuery) ([]*entity.Product, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0, len(list))
	for _, p := range list {
		if q.Match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Validate rechaza rangos invertidos o negativos.
func (q ClientQuery) Validate() error {
	if q.MinSpent.IsNegative() || q.MaxSpent.IsNegative() {
		return domain.Invalid("client", "spent_range")
	}
	if !q.MinSpent.IsZero() && !q.MaxSpent.IsZero() && q.MinSpent.GreaterThan(q.MaxSpent) {
		return domain.Invalid("client", "spent_range")
	}
	if q.MinPurchases < 0 || q.MaxPurchases < 0 {
		return domain.Invalid("client", "purchases_range")
	}
	if q.MinPurchases != 0 && q.MaxPurchases != 0 && q.MinPurchases > q.MaxPurchases {
		return domain.Invalid("client", "purchases_range")
	}
	return nil
}

// Match evalúa todos los predicados presentes sobre c.
func (q ClientQuery) Match(c *entity.Client) bool {
	if q.CompanyID != 0 && c.CompanyID != q.CompanyID {
		return false
	}
	if !q.MinSpent.IsZero() && c.TotalSpent.LessThan(q.MinSpent) {
		return false
	}
	if !q.MaxSpent.IsZero() && c.TotalSpent.GreaterThan(q.MaxSpent) {
		return false
	}
	if q.MinPurchases != 0 && c.TotalPurchases < q.MinPurchases {
		return false
	}
	if q.MaxPurchases != 0 && c.TotalPurchases > q.MaxPurchases {
		return false
	}
	if q.IsActive != nil && c.IsActive != *q.IsActive {
		return false
	}
	return Contains(c.ClientID, q.Search)
}

// Clients filtra list conservando su orden.
func Clients(list []*entity.Client, q ClientQuery) ([]*entity.Client, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	out := make([]*entity.Client, 0, len(list))
	for _, c := range list {
		if q.Match(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Validate rechaza rangos invertidos o negativos.
func (q InvoiceQuery) Validate() error {
	if q.MinAmount.IsNegative() || q.MaxAmount.IsNegative() {
		return domain.Invalid("invoice", "amount_range")
	}
	if !q.MinAmount.IsZero() && !q.MaxAmount.IsZero() && q.MinAmount.GreaterThan(q.MaxAmount) {
		return domain.Invalid("invoice", "amount_range")
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		return domain.Invalid("invoice", "date_range")
	}
	return nil
}

// Match evalúa todos los predicados presentes sobre inv.
func (q InvoiceQuery) Match(inv *entity.Invoice) bool {
	if q.CompanyID != 0 && inv.CompanyID != q.CompanyID {
		return false
	}
	if q.ClientID != "" && inv.ClientID != q.ClientID {
		return false
	}
	if !q.MinAmount.IsZero() && inv.TotalAmount.LessThan(q.MinAmount) {
		return false
	}
	if !q.MaxAmount.IsZero() && inv.TotalAmount.GreaterThan(q.MaxAmount) {
		return false
	}
	if !q.From.IsZero() && inv.Date.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && inv.Date.After(q.To) {
		return false
	}
	if q.IsPaid != nil && inv.IsPaid != *q.IsPaid {
		return false
	}
	return Contains(inv.Number, q.Search)
}

// Invoices filtra list conservando su orden.
func Invoices(list []*entity.Invoice, q InvoiceQuery) ([]*entity.Invoice, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	out := make([]*entity.Invoice, 0, len(list))
	for _, inv := range list {
		if q.Match(inv) {
			out = append(out, inv)
		}
	}
	return out, nil
}
