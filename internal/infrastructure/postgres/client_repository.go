package postgres

import (
	"context"
	"fmt"

	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `company_id, client_id, total_purchases, total_spent, invoice_count, is_active, created_at, updated_at`

func scanClient(row rowScanner) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(&c.CompanyID, &c.ClientID, &c.TotalPurchases, &c.TotalSpent, &c.InvoiceCount,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Get obtiene el agregado de (empresa, cliente); (nil, nil) si no existe.
func (r *ClientRepo) Get(ctx context.Context, companyID int64, clientID string) (*entity.Client, error) {
	return r.get(ctx, companyID, clientID, false)
}

// GetForUpdate igual que Get pero bloquea la fila.
func (r *ClientRepo) GetForUpdate(ctx context.Context, companyID int64, clientID string) (*entity.Client, error) {
	return r.get(ctx, companyID, clientID, true)
}

func (r *ClientRepo) get(ctx context.Context, companyID int64, clientID string, lock bool) (*entity.Client, error) {
	query := forUpdate(`SELECT `+clientColumns+` FROM clients WHERE company_id = $1 AND client_id = $2`, lock)
	c, err := scanClient(r.q.QueryRow(ctx, query, companyID, clientID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// Create inserta el agregado. Dos altas concurrentes del mismo par chocan con la clave primaria.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (company_id, client_id, total_purchases, total_spent, invoice_count, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		c.CompanyID, c.ClientID, c.TotalPurchases, c.TotalSpent, c.InvoiceCount, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert client: alta concurrente de %q: %w", c.ClientID, err)
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// Update persiste contadores, total y estado.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients
		SET total_purchases = $3, total_spent = $4, invoice_count = $5, is_active = $6, updated_at = $7
		WHERE company_id = $1 AND client_id = $2`
	tag, err := r.q.Exec(ctx, query,
		c.CompanyID, c.ClientID, c.TotalPurchases, c.TotalSpent, c.InvoiceCount, c.IsActive, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update client: %q no existe en empresa %d", c.ClientID, c.CompanyID)
	}
	return nil
}

// ListByCompany lista los clientes de la empresa en orden de creación.
func (r *ClientRepo) ListByCompany(ctx context.Context, companyID int64) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, `SELECT `+clientColumns+` FROM clients WHERE company_id = $1 ORDER BY seq`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
