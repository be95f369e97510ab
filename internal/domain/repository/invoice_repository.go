package repository

import (
	"context"

	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	// Create asigna el ID y persiste cabecera y líneas en el orden recibido.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Invoice, error)
	// UpdatePayment actualiza solo is_paid, total_amount y updated_at; las líneas son inmutables.
	UpdatePayment(ctx context.Context, invoice *entity.Invoice) error
	ListByCompany(ctx context.Context, companyID int64) ([]*entity.Invoice, error)
}
