package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/orders.
// SettleFromBalance: cobra el total del saldo interno del cliente y marca la factura como pagada.
type CreateOrderRequest struct {
	CompanyID         int64              `json:"company_id" validate:"required"`
	Number            string             `json:"number" validate:"required,max=100"`
	ClientID          string             `json:"client_id" validate:"required"`
	Items             []OrderItemRequest `json:"items" validate:"required,min=1"`
	SettleFromBalance bool               `json:"settle_from_balance"`
}

// OrderItemRequest línea de la orden. UnitPrice en cero toma el precio del catálogo.
type OrderItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// UpdatePaymentRequest body para PATCH /api/invoices/:id/payment.
type UpdatePaymentRequest struct {
	IsPaid      bool            `json:"is_paid"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// InvoiceResponse factura con sus líneas.
type InvoiceResponse struct {
	ID          int64                 `json:"id"`
	CompanyID   int64                 `json:"company_id"`
	Number      string                `json:"number"`
	Date        time.Time             `json:"date"`
	ClientID    string                `json:"client_id"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
	IsPaid      bool                  `json:"is_paid"`
	Items       []InvoiceItemResponse `json:"items"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// InvoiceItemResponse línea de factura en la respuesta.
type InvoiceItemResponse struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// InvoiceListResponse lista de facturas en orden de creación.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  ListResponse      `json:"page"`
}
