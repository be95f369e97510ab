package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/internal/domain"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/filter"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
)

func getInvoice(ctx context.Context, r repository.Repos, id int64, forUpdate bool) (*entity.Invoice, error) {
	var (
		inv *entity.Invoice
		err error
	)
	if forUpdate {
		inv, err = r.Invoices.GetForUpdate(ctx, id)
	} else {
		inv, err = r.Invoices.GetByID(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.NotFound("invoice", id)
	}
	return inv, nil
}

// GetInvoice obtiene una factura con sus líneas.
func (uc *OrderUseCase) GetInvoice(ctx context.Context, id int64) (*dto.InvoiceResponse, error) {
	inv, err := getInvoice(ctx, uc.repos, id, false)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// ListByCompany lista las facturas de la empresa en orden de creación.
func (uc *OrderUseCase) ListByCompany(ctx context.Context, companyID int64) (*dto.InvoiceListResponse, error) {
	list, err := uc.repos.Invoices.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	return toInvoiceList(list), nil
}

// ListByClient lista las facturas de un cliente dentro de la empresa.
func (uc *OrderUseCase) ListByClient(ctx context.Context, companyID int64, clientID string) (*dto.InvoiceListResponse, error) {
	if clientID == "" {
		return nil, domain.Invalid("invoice", "client_id")
	}
	return uc.Filter(ctx, filter.InvoiceQuery{CompanyID: companyID, ClientID: clientID})
}

// Filter evalúa q sobre las facturas de q.CompanyID (obligatoria).
func (uc *OrderUseCase) Filter(ctx context.Context, q filter.InvoiceQuery) (*dto.InvoiceListResponse, error) {
	if q.CompanyID == 0 {
		return nil, domain.Invalid("invoice", "company_id")
	}
	list, err := uc.repos.Invoices.ListByCompany(ctx, q.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	out, err := filter.Invoices(list, q)
	if err != nil {
		return nil, err
	}
	return toInvoiceList(out), nil
}

// UpdatePayment enmienda estado de pago y monto. Solo el dueño; las líneas no cambian.
func (uc *OrderUseCase) UpdatePayment(ctx context.Context, caller string, id int64, in dto.UpdatePaymentRequest) (*dto.InvoiceResponse, error) {
	if !in.TotalAmount.IsPositive() {
		return nil, domain.Invalid("invoice", "total_amount")
	}
	return uc.amend(ctx, caller, id, func(inv *entity.Invoice) error {
		inv.IsPaid = in.IsPaid
		inv.TotalAmount = in.TotalAmount
		return nil
	})
}

// MarkPaid marca la factura como pagada. ErrAlreadyInState si ya lo estaba.
func (uc *OrderUseCase) MarkPaid(ctx context.Context, caller string, id int64) (*dto.InvoiceResponse, error) {
	return uc.amend(ctx, caller, id, func(inv *entity.Invoice) error {
		if inv.IsPaid {
			return domain.NewError(domain.ErrAlreadyInState, "invoice", id, "is_paid")
		}
		inv.IsPaid = true
		return nil
	})
}

func (uc *OrderUseCase) amend(ctx context.Context, caller string, id int64, fn func(inv *entity.Invoice) error) (*dto.InvoiceResponse, error) {
	var out *entity.Invoice
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		inv, err := getInvoice(ctx, r, id, true)
		if err != nil {
			return err
		}
		company, err := uc.companies.GetInTx(ctx, r, inv.CompanyID)
		if err != nil {
			return err
		}
		if caller == "" || company.OwnerID != caller {
			return domain.NewError(domain.ErrUnauthorized, "invoice", id, "owner_id")
		}
		if err := fn(inv); err != nil {
			return err
		}
		inv.UpdatedAt = time.Now().UTC()
		if err := r.Invoices.UpdatePayment(ctx, inv); err != nil {
			return fmt.Errorf("actualizar factura: %w", err)
		}
		out = inv
		return r.Audit.Append(ctx, entity.NewAuditEvent(entity.EventInvoiceUpdated, caller, map[string]any{
			"invoice_id":   inv.ID,
			"company_id":   inv.CompanyID,
			"is_paid":      inv.IsPaid,
			"total_amount": inv.TotalAmount.String(),
		}, inv.UpdatedAt))
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("invoice_id", id).Str("caller", caller).Str("event", entity.EventInvoiceUpdated).Msg("factura actualizada")
	return ToInvoiceResponse(out), nil
}

// ToInvoiceResponse convierte la entidad al DTO de salida.
func ToInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	if inv == nil {
		return nil
	}
	resp := &dto.InvoiceResponse{
		ID:          inv.ID,
		CompanyID:   inv.CompanyID,
		Number:      inv.Number,
		Date:        inv.Date,
		ClientID:    inv.ClientID,
		TotalAmount: inv.TotalAmount,
		IsPaid:      inv.IsPaid,
		Items:       make([]dto.InvoiceItemResponse, 0, len(inv.Items)),
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
	for _, it := range inv.Items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		})
	}
	return resp
}

func toInvoiceList(list []*entity.Invoice) *dto.InvoiceListResponse {
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *ToInvoiceResponse(inv))
	}
	return &dto.InvoiceListResponse{Items: items, Page: dto.ListResponse{Total: len(items)}}
}
