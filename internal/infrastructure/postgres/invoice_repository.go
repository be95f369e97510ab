package postgres

import (
	"context"
	"fmt"

	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación del puerto InvoiceRepository sobre PostgreSQL.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador de persistencia para facturas.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, number, date, client_id, total_amount, is_paid, created_at, updated_at`

func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(&inv.ID, &inv.CompanyID, &inv.Number, &inv.Date, &inv.ClientID,
		&inv.TotalAmount, &inv.IsPaid, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persiste la cabecera y las líneas (posición = índice en Items).
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (company_id, number, date, client_id, total_amount, is_paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		inv.CompanyID, inv.Number, inv.Date, inv.ClientID, inv.TotalAmount, inv.IsPaid, inv.CreatedAt, inv.UpdatedAt,
	).Scan(&inv.ID)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}

	itemQuery := `
		INSERT INTO invoice_items (invoice_id, position, product_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i, it := range inv.Items {
		if _, err := r.q.Exec(ctx, itemQuery, inv.ID, i, it.ProductID, it.Quantity, it.UnitPrice, it.LineTotal); err != nil {
			return fmt.Errorf("insert invoice item %d: %w", i, err)
		}
	}
	return nil
}

// GetByID obtiene la factura con sus líneas; (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate igual que GetByID pero bloquea la cabecera.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Invoice, error) {
	return r.get(ctx, id, true)
}

func (r *InvoiceRepo) get(ctx context.Context, id int64, lock bool) (*entity.Invoice, error) {
	query := forUpdate(`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, lock)
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	items, err := r.loadItems(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	inv.Items = items[id]
	return inv, nil
}

// UpdatePayment enmienda estado de pago y total; las líneas no se tocan.
func (r *InvoiceRepo) UpdatePayment(ctx context.Context, inv *entity.Invoice) error {
	query := `UPDATE invoices SET is_paid = $2, total_amount = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, inv.ID, inv.IsPaid, inv.TotalAmount, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update invoice: id %d no existe", inv.ID)
	}
	return nil
}

// ListByCompany lista las facturas de la empresa en orden de creación, con líneas.
func (r *InvoiceRepo) ListByCompany(ctx context.Context, companyID int64) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE company_id = $1 ORDER BY id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	var list []*entity.Invoice
	var ids []int64
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
		ids = append(ids, inv.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, inv := range list {
		inv.Items = items[inv.ID]
	}
	return list, nil
}

func (r *InvoiceRepo) loadItems(ctx context.Context, ids []int64) (map[int64][]entity.InvoiceItem, error) {
	query := `
		SELECT invoice_id, product_id, quantity, unit_price, line_total
		FROM invoice_items
		WHERE invoice_id = ANY($1)
		ORDER BY invoice_id, position`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]entity.InvoiceItem, len(ids))
	for rows.Next() {
		var invoiceID int64
		var it entity.InvoiceItem
		if err := rows.Scan(&invoiceID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		out[invoiceID] = append(out[invoiceID], it)
	}
	return out, rows.Err()
}
