package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ijair/codeEcommerce-sub001/internal/domain"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
)

var (
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.ClientRepository  = (*ClientRepo)(nil)
	_ repository.InvoiceRepository = (*InvoiceRepo)(nil)
	_ repository.GrantRepository   = (*GrantRepo)(nil)
	_ repository.BalanceRepository = (*BalanceRepo)(nil)
	_ repository.AuditRepository   = (*AuditRepo)(nil)
)

// ── Empresas ────────────────────────────────────────────────────────────────

// CompanyRepo implementación en memoria de repository.CompanyRepository.
type CompanyRepo struct{ a access }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	return r.a.write(func(st *state) error {
		st.companySeq++
		c.ID = st.companySeq
		st.companies[c.ID] = copyCompany(c)
		st.companyOrder = append(st.companyOrder, c.ID)
		st.byOwner[c.OwnerID] = append(st.byOwner[c.OwnerID], c.ID)
		return nil
	})
}

func (r *CompanyRepo) GetByID(_ context.Context, id int64) (*entity.Company, error) {
	var out *entity.Company
	r.a.read(func(st *state) {
		if c, ok := st.companies[id]; ok {
			out = copyCompany(c)
		}
	})
	return out, nil
}

// Update persiste el registro. Si cambió el dueño, el ID se agrega al índice del nuevo dueño;
// el índice del anterior no se toca y ListByOwner filtra por el dueño vigente.
func (r *CompanyRepo) Update(_ context.Context, c *entity.Company) error {
	return r.a.write(func(st *state) error {
		prev, ok := st.companies[c.ID]
		if !ok {
			return domain.NotFound("company", c.ID)
		}
		if prev.OwnerID != c.OwnerID && !containsID(st.byOwner[c.OwnerID], c.ID) {
			st.byOwner[c.OwnerID] = append(st.byOwner[c.OwnerID], c.ID)
		}
		st.companies[c.ID] = copyCompany(c)
		return nil
	})
}

func (r *CompanyRepo) List(_ context.Context) ([]*entity.Company, error) {
	var out []*entity.Company
	r.a.read(func(st *state) {
		out = make([]*entity.Company, 0, len(st.companyOrder))
		for _, id := range st.companyOrder {
			out = append(out, copyCompany(st.companies[id]))
		}
	})
	return out, nil
}

func (r *CompanyRepo) ListByOwner(_ context.Context, ownerID string) ([]*entity.Company, error) {
	var out []*entity.Company
	r.a.read(func(st *state) {
		ids := st.byOwner[ownerID]
		out = make([]*entity.Company, 0, len(ids))
		for _, id := range ids {
			if c := st.companies[id]; c.OwnerID == ownerID {
				out = append(out, copyCompany(c))
			}
		}
	})
	return out, nil
}

// ── Productos ───────────────────────────────────────────────────────────────

// ProductRepo implementación en memoria de repository.ProductRepository.
type ProductRepo struct{ a access }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.a.write(func(st *state) error {
		st.productSeq++
		p.ID = st.productSeq
		st.products[p.ID] = copyProduct(p)
		st.productOrder = append(st.productOrder, p.ID)
		st.productsByCompany[p.CompanyID] = append(st.productsByCompany[p.CompanyID], p.ID)
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	r.a.read(func(st *state) {
		if p, ok := st.products[id]; ok {
			out = copyProduct(p)
		}
	})
	return out, nil
}

// GetForUpdate equivale a GetByID: dentro de Run el lock de escritura ya serializa.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.a.write(func(st *state) error {
		prev, ok := st.products[p.ID]
		if !ok {
			return domain.NotFound("product", p.ID)
		}
		cp := copyProduct(p)
		cp.Stock = prev.Stock
		cp.CompanyID = prev.CompanyID
		st.products[p.ID] = cp
		return nil
	})
}

func (r *ProductRepo) UpdateStock(_ context.Context, id int64, stock int64, updatedAt time.Time) error {
	return r.a.write(func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.NotFound("product", id)
		}
		if stock < 0 {
			return fmt.Errorf("memory: stock negativo para producto %d", id)
		}
		p.Stock = stock
		p.UpdatedAt = updatedAt
		return nil
	})
}

func (r *ProductRepo) ListAll(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	r.a.read(func(st *state) {
		out = make([]*entity.Product, 0, len(st.productOrder))
		for _, id := range st.productOrder {
			out = append(out, copyProduct(st.products[id]))
		}
	})
	return out, nil
}

func (r *ProductRepo) ListByCompany(_ context.Context, companyID int64) ([]*entity.Product, error) {
	var out []*entity.Product
	r.a.read(func(st *state) {
		ids := st.productsByCompany[companyID]
		out = make([]*entity.Product, 0, len(ids))
		for _, id := range ids {
			out = append(out, copyProduct(st.products[id]))
		}
	})
	return out, nil
}

// ── Clientes ────────────────────────────────────────────────────────────────

// ClientRepo implementación en memoria de repository.ClientRepository.
type ClientRepo struct{ a access }

func (r *ClientRepo) Get(_ context.Context, companyID int64, clientID string) (*entity.Client, error) {
	var out *entity.Client
	r.a.read(func(st *state) {
		if c, ok := st.clients[clientKey{companyID, clientID}]; ok {
			out = copyClient(c)
		}
	})
	return out, nil
}

func (r *ClientRepo) GetForUpdate(ctx context.Context, companyID int64, clientID string) (*entity.Client, error) {
	return r.Get(ctx, companyID, clientID)
}

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	return r.a.write(func(st *state) error {
		k := clientKey{c.CompanyID, c.ClientID}
		if _, ok := st.clients[k]; ok {
			return fmt.Errorf("memory: cliente %q ya existe en empresa %d", c.ClientID, c.CompanyID)
		}
		st.clients[k] = copyClient(c)
		st.clientsByCompany[c.CompanyID] = append(st.clientsByCompany[c.CompanyID], c.ClientID)
		return nil
	})
}

func (r *ClientRepo) Update(_ context.Context, c *entity.Client) error {
	return r.a.write(func(st *state) error {
		k := clientKey{c.CompanyID, c.ClientID}
		if _, ok := st.clients[k]; !ok {
			return domain.NotFound("client", c.ClientID)
		}
		st.clients[k] = copyClient(c)
		return nil
	})
}

func (r *ClientRepo) ListByCompany(_ context.Context, companyID int64) ([]*entity.Client, error) {
	var out []*entity.Client
	r.a.read(func(st *state) {
		ids := st.clientsByCompany[companyID]
		out = make([]*entity.Client, 0, len(ids))
		for _, id := range ids {
			out = append(out, copyClient(st.clients[clientKey{companyID, id}]))
		}
	})
	return out, nil
}

// ── Facturas ────────────────────────────────────────────────────────────────

// InvoiceRepo implementación en memoria de repository.InvoiceRepository.
type InvoiceRepo struct{ a access }

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.a.write(func(st *state) error {
		st.invoiceSeq++
		inv.ID = st.invoiceSeq
		st.invoices[inv.ID] = copyInvoice(inv)
		st.invoicesByCompany[inv.CompanyID] = append(st.invoicesByCompany[inv.CompanyID], inv.ID)
		return nil
	})
}

func (r *InvoiceRepo) GetByID(_ context.Context, id int64) (*entity.Invoice, error) {
	var out *entity.Invoice
	r.a.read(func(st *state) {
		if inv, ok := st.invoices[id]; ok {
			out = copyInvoice(inv)
		}
	})
	return out, nil
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

// UpdatePayment solo toca is_paid, total_amount y updated_at.
func (r *InvoiceRepo) UpdatePayment(_ context.Context, inv *entity.Invoice) error {
	return r.a.write(func(st *state) error {
		cur, ok := st.invoices[inv.ID]
		if !ok {
			return domain.NotFound("invoice", inv.ID)
		}
		cur.IsPaid = inv.IsPaid
		cur.TotalAmount = inv.TotalAmount
		cur.UpdatedAt = inv.UpdatedAt
		return nil
	})
}

func (r *InvoiceRepo) ListByCompany(_ context.Context, companyID int64) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	r.a.read(func(st *state) {
		ids := st.invoicesByCompany[companyID]
		out = make([]*entity.Invoice, 0, len(ids))
		for _, id := range ids {
			out = append(out, copyInvoice(st.invoices[id]))
		}
	})
	return out, nil
}

// ── Grants ──────────────────────────────────────────────────────────────────

// GrantRepo implementación en memoria de repository.GrantRepository.
type GrantRepo struct{ a access }

func (r *GrantRepo) Exists(_ context.Context, store, caller string) (bool, error) {
	var ok bool
	r.a.read(func(st *state) {
		_, ok = st.grants[grantKey{store, caller}]
	})
	return ok, nil
}

func (r *GrantRepo) Create(_ context.Context, g *entity.Grant) error {
	return r.a.write(func(st *state) error {
		k := grantKey{g.Store, g.Caller}
		if _, ok := st.grants[k]; ok {
			return domain.NewError(domain.ErrAlreadyAuthorized, "grant", g.Caller, "caller")
		}
		cp := *g
		st.grants[k] = &cp
		return nil
	})
}

func (r *GrantRepo) Delete(_ context.Context, store, caller string) error {
	return r.a.write(func(st *state) error {
		k := grantKey{store, caller}
		if _, ok := st.grants[k]; !ok {
			return domain.NewError(domain.ErrNotAuthorized, "grant", caller, "caller")
		}
		delete(st.grants, k)
		return nil
	})
}

// ListByStore devuelve los grants vigentes por fecha de alta.
func (r *GrantRepo) ListByStore(_ context.Context, store string) ([]*entity.Grant, error) {
	var out []*entity.Grant
	r.a.read(func(st *state) {
		for k, g := range st.grants {
			if k.store == store {
				cp := *g
				out = append(out, &cp)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Caller < out[j].Caller
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ── Saldos ──────────────────────────────────────────────────────────────────

// BalanceRepo implementación en memoria de repository.BalanceRepository.
type BalanceRepo struct{ a access }

func (r *BalanceRepo) Get(_ context.Context, holder string) (decimal.Decimal, error) {
	amount := decimal.Zero
	r.a.read(func(st *state) {
		if b, ok := st.balances[holder]; ok {
			amount = b.Amount
		}
	})
	return amount, nil
}

func (r *BalanceRepo) GetForUpdate(ctx context.Context, holder string) (decimal.Decimal, error) {
	return r.Get(ctx, holder)
}

func (r *BalanceRepo) Upsert(_ context.Context, holder string, amount decimal.Decimal, updatedAt time.Time) error {
	return r.a.write(func(st *state) error {
		if amount.IsNegative() {
			return fmt.Errorf("memory: saldo negativo para %q", holder)
		}
		st.balances[holder] = &entity.Balance{Holder: holder, Amount: amount, UpdatedAt: updatedAt}
		return nil
	})
}

// ── Auditoría ───────────────────────────────────────────────────────────────

// AuditRepo implementación en memoria de repository.AuditRepository.
type AuditRepo struct{ a access }

func (r *AuditRepo) Append(_ context.Context, e *entity.AuditEvent) error {
	return r.a.write(func(st *state) error {
		st.audit = append(st.audit, e)
		return nil
	})
}

func (r *AuditRepo) ListRecent(_ context.Context, limit int) ([]*entity.AuditEvent, error) {
	var out []*entity.AuditEvent
	r.a.read(func(st *state) {
		start := 0
		if limit > 0 && len(st.audit) > limit {
			start = len(st.audit) - limit
		}
		out = append(out, st.audit[start:]...)
	})
	return out, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
