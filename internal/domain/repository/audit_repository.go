package repository

import (
	"context"

	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
)

// AuditRepository log append-only de eventos.
type AuditRepository interface {
	Append(ctx context.Context, event *entity.AuditEvent) error
	// ListRecent devuelve los últimos limit eventos, del más antiguo al más reciente.
	ListRecent(ctx context.Context, limit int) ([]*entity.AuditEvent, error)
}
