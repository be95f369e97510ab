package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterPurchaseRequest body para registrar una compra fuera del orquestador.
type RegisterPurchaseRequest struct {
	ClientID string          `json:"client_id" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
}

// ClientResponse agregado de un cliente dentro de una empresa.
type ClientResponse struct {
	CompanyID      int64           `json:"company_id"`
	ClientID       string          `json:"client_id"`
	TotalPurchases int64           `json:"total_purchases"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	InvoiceCount   int64           `json:"invoice_count"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ClientListResponse lista de clientes en orden de creación.
type ClientListResponse struct {
	Items []ClientResponse `json:"items"`
	Page  ListResponse     `json:"page"`
}

// ClientStatsResponse resumen de clientes de una empresa.
type ClientStatsResponse struct {
	CompanyID             int64           `json:"company_id"`
	TotalClients          int64           `json:"total_clients"`
	ActiveClients         int64           `json:"active_clients"`
	InactiveClients       int64           `json:"inactive_clients"`
	TotalSpent            decimal.Decimal `json:"total_spent"`
	TotalPurchases        int64           `json:"total_purchases"`
	AverageSpentPerClient decimal.Decimal `json:"average_spent_per_client"`
}
