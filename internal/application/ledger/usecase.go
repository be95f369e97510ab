// Package ledger implementa el libro de clientes por empresa: agregados de compras que nacen
// con la primera compra registrada y solo crecen.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/internal/domain"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/authz"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/filter"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
)

// UseCase casos de uso del libro de clientes.
type UseCase struct {
	tx    repository.TxRunner
	repos repository.Repos
	gate  *authz.Gate
	log   zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx repository.TxRunner, repos repository.Repos, gate *authz.Gate, log zerolog.Logger) *UseCase {
	return &UseCase{
		tx:    tx,
		repos: repos,
		gate:  gate,
		log:   log.With().Str("component", "ledger").Logger(),
	}
}

func activeCompany(ctx context.Context, r repository.Repos, companyID int64) (*entity.Company, error) {
	c, err := r.Companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("obtener empresa: %w", err)
	}
	if c == nil {
		return nil, domain.NotFound("company", companyID)
	}
	if !c.IsActive {
		return nil, domain.NewError(domain.ErrInactive, "company", companyID, "is_active")
	}
	return c, nil
}

func getClient(ctx context.Context, r repository.Repos, companyID int64, clientID string, forUpdate bool) (*entity.Client, error) {
	var (
		c   *entity.Client
		err error
	)
	if forUpdate {
		c, err = r.Clients.GetForUpdate(ctx, companyID, clientID)
	} else {
		c, err = r.Clients.Get(ctx, companyID, clientID)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	return c, nil
}

// RegisterPurchase suma una compra al agregado del cliente, creándolo en la primera.
// Lo invoca el dueño de la empresa o un llamador autorizado en el libro.
func (uc *UseCase) RegisterPurchase(ctx context.Context, caller string, companyID int64, in dto.RegisterPurchaseRequest) (*dto.ClientResponse, error) {
	var out *entity.Client
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		c, err := uc.RegisterPurchaseInTx(ctx, r, caller, companyID, in.ClientID, in.Amount)
		out = c
		return err
	})
	if err != nil {
		uc.log.Debug().Err(err).Int64("company_id", companyID).Str("caller", caller).Msg("compra rechazada")
		return nil, err
	}
	uc.log.Info().Int64("company_id", companyID).Str("client_id", in.ClientID).Str("caller", caller).
		Str("event", entity.EventPurchaseRegistered).Msg("compra registrada")
	return ToClientResponse(out), nil
}

// RegisterPurchaseInTx es la operación de alta-o-suma, idempotente por primera escritura:
// si el par (empresa, cliente) no existe se crea con TotalPurchases=1 y TotalSpent=amount;
// si existe se incrementan ambos. No hay otro camino de creación de clientes.
func (uc *UseCase) RegisterPurchaseInTx(ctx context.Context, r repository.Repos, caller string, companyID int64, clientID string, amount decimal.Decimal) (*entity.Client, error) {
	if err := domain.CheckLength("client", "client_id", clientID, entity.MaxClientIDLen); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, domain.Invalid("client", "amount")
	}
	company, err := activeCompany(ctx, r, companyID)
	if err != nil {
		return nil, err
	}
	if caller == "" || company.OwnerID != caller {
		if err := uc.gate.Check(ctx, r.Grants, entity.StoreLedger, caller); err != nil {
			return nil, err
		}
	}
	c, err := getClient(ctx, r, companyID, clientID, true)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if c == nil {
		c = &entity.Client{
			CompanyID:      companyID,
			ClientID:       clientID,
			TotalPurchases: 1,
			TotalSpent:     amount,
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := r.Clients.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("crear cliente: %w", err)
		}
	} else {
		if !c.IsActive {
			return nil, domain.NewError(domain.ErrInactive, "client", clientID, "is_active")
		}
		c.TotalPurchases++
		c.TotalSpent = c.TotalSpent.Add(amount)
		c.UpdatedAt = now
		if err := r.Clients.Update(ctx, c); err != nil {
			return nil, fmt.Errorf("actualizar cliente: %w", err)
		}
	}
	err = r.Audit.Append(ctx, entity.NewAuditEvent(entity.EventPurchaseRegistered, caller, map[string]any{
		"company_id":      companyID,
		"client_id":       clientID,
		"amount":          amount.String(),
		"total_purchases": c.TotalPurchases,
	}, now))
	return c, err
}

// IncrementInvoiceCount punto privilegiado (solo administrador o grant del libro).
// ErrNotFound si el cliente no existe: RegisterPurchase debe ir antes.
func (uc *UseCase) IncrementInvoiceCount(ctx context.Context, caller string, companyID int64, clientID string) (*dto.ClientResponse, error) {
	var out *entity.Client
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		c, err := uc.IncrementInvoiceCountInTx(ctx, r, caller, companyID, clientID)
		out = c
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("company_id", companyID).Str("client_id", clientID).Str("caller", caller).Msg("contador de facturas incrementado")
	return ToClientResponse(out), nil
}

// IncrementInvoiceCountInTx incrementa InvoiceCount con los repos de una transacción en curso.
func (uc *UseCase) IncrementInvoiceCountInTx(ctx context.Context, r repository.Repos, caller string, companyID int64, clientID string) (*entity.Client, error) {
	if err := uc.gate.Check(ctx, r.Grants, entity.StoreLedger, caller); err != nil {
		return nil, err
	}
	c, err := getClient(ctx, r, companyID, clientID, true)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("client", clientID)
	}
	if c.InvoiceCount+1 > c.TotalPurchases {
		return nil, domain.Invalid("client", "invoice_count")
	}
	c.InvoiceCount++
	c.UpdatedAt = time.Now().UTC()
	if err := r.Clients.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("actualizar cliente: %w", err)
	}
	return c, nil
}

// SetActive activa o desactiva un cliente. Solo el dueño; ErrAlreadyInState si no hay cambio.
func (uc *UseCase) SetActive(ctx context.Context, caller string, companyID int64, clientID string, active bool) (*dto.ClientResponse, error) {
	var out *entity.Client
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		company, err := r.Companies.GetByID(ctx, companyID)
		if err != nil {
			return fmt.Errorf("obtener empresa: %w", err)
		}
		if company == nil {
			return domain.NotFound("company", companyID)
		}
		if caller == "" || company.OwnerID != caller {
			return domain.NewError(domain.ErrUnauthorized, "client", clientID, "owner_id")
		}
		c, err := getClient(ctx, r, companyID, clientID, true)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NotFound("client", clientID)
		}
		if c.IsActive == active {
			return domain.NewError(domain.ErrAlreadyInState, "client", clientID, "is_active")
		}
		c.IsActive = active
		c.UpdatedAt = time.Now().UTC()
		if err := r.Clients.Update(ctx, c); err != nil {
			return fmt.Errorf("actualizar cliente: %w", err)
		}
		out = c
		return r.Audit.Append(ctx, entity.NewAuditEvent(entity.EventClientUpdated, caller, map[string]any{
			"company_id": companyID,
			"client_id":  clientID,
			"is_active":  active,
		}, c.UpdatedAt))
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("company_id", companyID).Str("client_id", clientID).Str("caller", caller).
		Str("event", entity.EventClientUpdated).Msg("cliente actualizado")
	return ToClientResponse(out), nil
}

// ── Lecturas ────────────────────────────────────────────────────────────────

// Get obtiene el agregado de un cliente; domain.ErrNotFound si no existe.
func (uc *UseCase) Get(ctx context.Context, companyID int64, clientID string) (*dto.ClientResponse, error) {
	c, err := getClient(ctx, uc.repos, companyID, clientID, false)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("client", clientID)
	}
	return ToClientResponse(c), nil
}

// ListByCompany lista los clientes de la empresa en orden de creación.
func (uc *UseCase) ListByCompany(ctx context.Context, companyID int64) (*dto.ClientListResponse, error) {
	list, err := uc.repos.Clients.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	return toClientList(list), nil
}

// Filter evalúa q sobre los clientes de q.CompanyID (obligatoria).
func (uc *UseCase) Filter(ctx context.Context, q filter.ClientQuery) (*dto.ClientListResponse, error) {
	if q.CompanyID == 0 {
		return nil, domain.Invalid("client", "company_id")
	}
	list, err := uc.repos.Clients.ListByCompany(ctx, q.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	out, err := filter.Clients(list, q)
	if err != nil {
		return nil, err
	}
	return toClientList(out), nil
}

// Stats pliega todos los clientes de la empresa. El promedio se trunca hacia cero a
// domain.MoneyScale decimales y es cero sin clientes.
func (uc *UseCase) Stats(ctx context.Context, companyID int64) (*dto.ClientStatsResponse, error) {
	list, err := uc.repos.Clients.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	s := ComputeStats(list)
	return &dto.ClientStatsResponse{
		CompanyID:             companyID,
		TotalClients:          s.TotalClients,
		ActiveClients:         s.ActiveClients,
		InactiveClients:       s.InactiveClients,
		TotalSpent:            s.TotalSpent,
		TotalPurchases:        s.TotalPurchases,
		AverageSpentPerClient: s.AverageSpentPerClient,
	}, nil
}

// ComputeStats pliega una lista de clientes.
func ComputeStats(list []*entity.Client) entity.ClientStats {
	s := entity.ClientStats{TotalSpent: decimal.Zero}
	for _, c := range list {
		s.TotalClients++
		if c.IsActive {
			s.ActiveClients++
		} else {
			s.InactiveClients++
		}
		s.TotalSpent = s.TotalSpent.Add(c.TotalSpent)
		s.TotalPurchases += c.TotalPurchases
	}
	s.AverageSpentPerClient = domain.TruncDiv(s.TotalSpent, s.TotalClients)
	return s
}

// TopClients devuelve los n clientes de mayor gasto; los empates conservan el orden de creación.
func (uc *UseCase) TopClients(ctx context.Context, companyID int64, n int) (*dto.ClientListResponse, error) {
	if n <= 0 {
		return nil, domain.Invalid("client", "limit")
	}
	list, err := uc.repos.Clients.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].TotalSpent.GreaterThan(list[j].TotalSpent)
	})
	if len(list) > n {
		list = list[:n]
	}
	return toClientList(list), nil
}

// ToClientResponse convierte la entidad al DTO de salida.
func ToClientResponse(c *entity.Client) *dto.ClientResponse {
	if c == nil {
		return nil
	}
	return &dto.ClientResponse{
		CompanyID:      c.CompanyID,
		ClientID:       c.ClientID,
		TotalPurchases: c.TotalPurchases,
		TotalSpent:     c.TotalSpent,
		InvoiceCount:   c.InvoiceCount,
		IsActive:       c.IsActive,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toClientList(list []*entity.Client) *dto.ClientListResponse {
	items := make([]dto.ClientResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *ToClientResponse(c))
	}
	return &dto.ClientListResponse{Items: items, Page: dto.ListResponse{Total: len(items)}}
}
