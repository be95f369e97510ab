package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tipos de evento de auditoría.
const (
	EventCompanyCreated     = "company.created"
	EventCompanyUpdated     = "company.updated"
	EventCompanyTransferred = "company.transferred"
	EventProductCreated     = "product.created"
	EventProductUpdated     = "product.updated"
	EventStockDecremented   = "product.stock_decremented"
	EventStockIncremented   = "product.stock_incremented"
	EventPurchaseRegistered = "client.purchase_registered"
	EventClientUpdated      = "client.updated"
	EventInvoiceCreated     = "invoice.created"
	EventInvoiceUpdated     = "invoice.updated"
	EventGranted            = "authz.granted"
	EventRevoked            = "authz.revoked"
	EventFundsTransferred   = "funds.transferred"
	EventFundsCredited      = "funds.credited"
)

// AuditEvent registro append-only de un cambio confirmado.
// Se escribe en la misma transacción que el cambio que describe.
type AuditEvent struct {
	ID   uuid.UUID
	Type string
	// Store almacén privilegiado afectado (catalog, ledger); vacío para eventos de plataforma.
	Store     string
	Actor     string
	Payload   map[string]any
	CreatedAt time.Time
}

// NewAuditEvent arma un evento con ID nuevo.
func NewAuditEvent(typ, actor string, payload map[string]any, at time.Time) *AuditEvent {
	return &AuditEvent{
		ID:        uuid.New(),
		Type:      typ,
		Store:     storeOf(typ),
		Actor:     actor,
		Payload:   payload,
		CreatedAt: at,
	}
}

// InStore fija el almacén del evento cuando no se deduce del tipo.
func (e *AuditEvent) InStore(store string) *AuditEvent {
	e.Store = store
	return e
}

func storeOf(typ string) string {
	switch {
	case strings.HasPrefix(typ, "product."):
		return StoreCatalog
	case strings.HasPrefix(typ, "client."):
		return StoreLedger
	}
	return ""
}
