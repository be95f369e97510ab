package postgres

import (
	"context"
	"fmt"

	"github.com/ijair/codeEcommerce-sub001/internal/domain"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
)

var _ repository.GrantRepository = (*GrantRepo)(nil)

// GrantRepo tabla de capacidades sobre PostgreSQL.
type GrantRepo struct {
	q Querier
}

func NewGrantRepository(q Querier) *GrantRepo {
	return &GrantRepo{q: q}
}

func (r *GrantRepo) Exists(ctx context.Context, store, caller string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM grants WHERE store = $1 AND caller = $2)`, store, caller).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("exists grant: %w", err)
	}
	return ok, nil
}

// Create inserta el grant; si el par ya existe devuelve ErrAlreadyAuthorized.
func (r *GrantRepo) Create(ctx context.Context, g *entity.Grant) error {
	query := `INSERT INTO grants (store, caller, granted_by, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.q.Exec(ctx, query, g.Store, g.Caller, g.GrantedBy, g.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.NewError(domain.ErrAlreadyAuthorized, "grant", g.Caller, "caller")
		}
		return fmt.Errorf("insert grant: %w", err)
	}
	return nil
}

// Delete borra el grant; si no existía devuelve ErrNotAuthorized.
func (r *GrantRepo) Delete(ctx context.Context, store, caller string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM grants WHERE store = $1 AND caller = $2`, store, caller)
	if err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewError(domain.ErrNotAuthorized, "grant", caller, "caller")
	}
	return nil
}

func (r *GrantRepo) ListByStore(ctx context.Context, store string) ([]*entity.Grant, error) {
	query := `
		SELECT store, caller, granted_by, created_at
		FROM grants
		WHERE store = $1
		ORDER BY created_at, caller`
	rows, err := r.q.Query(ctx, query, store)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	defer rows.Close()

	var list []*entity.Grant
	for rows.Next() {
		var g entity.Grant
		if err := rows.Scan(&g.Store, &g.Caller, &g.GrantedBy, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		list = append(list, &g)
	}
	return list, rows.Err()
}
