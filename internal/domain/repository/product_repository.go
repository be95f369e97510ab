package repository

import (
	"context"
	"time"

	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los listados devuelven siempre orden de creación (ID ascendente).
type ProductRepository interface {
	// Create asigna el siguiente ID de la secuencia de productos (nunca reutilizado).
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate obtiene el producto bloqueando la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	// Update persiste nombre, precio, imagen y estado. No toca el stock.
	Update(ctx context.Context, product *entity.Product) error
	UpdateStock(ctx context.Context, id int64, stock int64, updatedAt time.Time) error
	ListAll(ctx context.Context) ([]*entity.Product, error)
	ListByCompany(ctx context.Context, companyID int64) ([]*entity.Product, error)
}
