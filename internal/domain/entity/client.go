package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client agregado de compras de un cliente dentro de una empresa (clave: CompanyID + ClientID).
// Nace con la primera compra registrada; no existe un alta separada.
// Invariantes: TotalPurchases >= InvoiceCount >= 0 y TotalSpent nunca decrece.
type Client struct {
	CompanyID      int64
	ClientID       string
	TotalPurchases int64
	TotalSpent     decimal.Decimal
	InvoiceCount   int64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ClientStats resumen agregado de los clientes de una empresa.
type ClientStats struct {
	TotalClients          int64
	ActiveClients         int64
	InactiveClients       int64
	TotalSpent            decimal.Decimal
	TotalPurchases        int64
	AverageSpentPerClient decimal.Decimal
}

// MaxClientIDLen longitud máxima (bytes) del identificador de cliente.
const MaxClientIDLen = 200
