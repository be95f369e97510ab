package repository

import (
	"context"

	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
)

// GrantRepository tabla de capacidades (store, caller).
type GrantRepository interface {
	Exists(ctx context.Context, store, caller string) (bool, error)
	Create(ctx context.Context, grant *entity.Grant) error
	Delete(ctx context.Context, store, caller string) error
	ListByStore(ctx context.Context, store string) ([]*entity.Grant, error)
}
