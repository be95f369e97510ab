package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo log append-only de eventos en audit_events.
type AuditRepo struct {
	q Querier
}

func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Append inserta el evento; el payload se guarda como JSONB.
func (r *AuditRepo) Append(ctx context.Context, e *entity.AuditEvent) error {
	payload := e.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	query := `INSERT INTO audit_events (id, type, store, actor, payload, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, e.ID.String(), e.Type, e.Store, e.Actor, payload, e.CreatedAt); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListRecent devuelve los últimos limit eventos en orden cronológico.
func (r *AuditRepo) ListRecent(ctx context.Context, limit int) ([]*entity.AuditEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id::text, type, store, actor, payload, created_at FROM (
			SELECT seq, id, type, store, actor, payload, created_at
			FROM audit_events
			ORDER BY seq DESC
			LIMIT $1
		) recent
		ORDER BY seq`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditEvent
	for rows.Next() {
		var (
			id string
			e  entity.AuditEvent
		)
		if err := rows.Scan(&id, &e.Type, &e.Store, &e.Actor, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("audit event id %q: %w", id, err)
		}
		e.ID = parsed
		list = append(list, &e)
	}
	return list, rows.Err()
}
