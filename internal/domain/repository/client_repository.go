package repository

import (
	"context"

	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para los agregados de cliente por empresa.
type ClientRepository interface {
	Get(ctx context.Context, companyID int64, clientID string) (*entity.Client, error)
	GetForUpdate(ctx context.Context, companyID int64, clientID string) (*entity.Client, error)
	Create(ctx context.Context, client *entity.Client) error
	Update(ctx context.Context, client *entity.Client) error
	// ListByCompany devuelve los clientes en orden de creación.
	ListByCompany(ctx context.Context, companyID int64) ([]*entity.Client, error)
}
