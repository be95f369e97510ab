package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de una empresa.
// Stock nunca es negativo; solo baja por el orquestador autorizado o por el dueño (venta directa).
type Product struct {
	ID        int64
	CompanyID int64
	Name      string
	Price     decimal.Decimal // > 0
	Image     string          // referencia al contenido (CID/URL), 1..100 bytes
	Stock     int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasStock informa si hay al menos qty unidades disponibles.
func (p *Product) HasStock(qty int64) bool {
	return qty > 0 && p.Stock >= qty
}
