package repository

import (
	"context"

	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	// Create asigna el siguiente ID de la secuencia de empresas y persiste el registro.
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id int64) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context) ([]*entity.Company, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entity.Company, error)
}
