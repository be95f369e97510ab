// Package company implementa el directorio de empresas: alta, lectura y ciclo de vida blando.
package company

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/internal/domain"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
)

// UseCase aplica reglas de negocio para empresas (casos de uso).
type UseCase struct {
	tx            repository.TxRunner
	repos         repository.Repos
	platformAdmin string
	log           zerolog.Logger
}

// NewUseCase construye el caso de uso. repos se usa para lecturas fuera de transacción.
func NewUseCase(tx repository.TxRunner, repos repository.Repos, platformAdmin string, log zerolog.Logger) *UseCase {
	return &UseCase{
		tx:            tx,
		repos:         repos,
		platformAdmin: platformAdmin,
		log:           log.With().Str("component", "company").Logger(),
	}
}

// Create registra una empresa activa cuyo dueño es el llamador.
func (uc *UseCase) Create(ctx context.Context, caller string, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if caller == "" {
		return nil, domain.NewError(domain.ErrUnauthorized, "company", nil, "caller")
	}
	if err := domain.CheckLength("company", "name", in.Name, entity.MaxNameLen); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &entity.Company{
		OwnerID:   caller,
		Name:      in.Name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		if err := r.Companies.Create(ctx, c); err != nil {
			return fmt.Errorf("crear empresa: %w", err)
		}
		return r.Audit.Append(ctx, entity.NewAuditEvent(entity.EventCompanyCreated, caller, map[string]any{
			"company_id": c.ID,
			"owner_id":   c.OwnerID,
			"name":       c.Name,
		}, now))
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("company_id", c.ID).Str("caller", caller).Str("event", entity.EventCompanyCreated).Msg("empresa creada")
	return ToCompanyResponse(c), nil
}

// Get obtiene una empresa por ID; domain.ErrNotFound si no existe.
func (uc *UseCase) Get(ctx context.Context, id int64) (*dto.CompanyResponse, error) {
	c, err := uc.GetInTx(ctx, uc.repos, id)
	if err != nil {
		return nil, err
	}
	return ToCompanyResponse(c), nil
}

// GetInTx lee la empresa con los repos recibidos (transaccionales o no).
func (uc *UseCase) GetInTx(ctx context.Context, r repository.Repos, id int64) (*entity.Company, error) {
	c, err := r.Companies.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener empresa: %w", err)
	}
	if c == nil {
		return nil, domain.NotFound("company", id)
	}
	return c, nil
}

// Exists informa si la empresa existe.
func (uc *UseCase) Exists(ctx context.Context, id int64) (bool, error) {
	c, err := uc.repos.Companies.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("obtener empresa: %w", err)
	}
	return c != nil, nil
}

// IsActive informa si la empresa está activa; domain.ErrNotFound si no existe.
func (uc *UseCase) IsActive(ctx context.Context, id int64) (bool, error) {
	c, err := uc.GetInTx(ctx, uc.repos, id)
	if err != nil {
		return false, err
	}
	return c.IsActive, nil
}

// List lista todas las empresas en orden de creación.
func (uc *UseCase) List(ctx context.Context) (*dto.CompanyListResponse, error) {
	list, err := uc.repos.Companies.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar empresas: %w", err)
	}
	return toCompanyList(list), nil
}

// ListByOwner lista las empresas cuyo dueño vigente es owner.
func (uc *UseCase) ListByOwner(ctx context.Context, owner string) (*dto.CompanyListResponse, error) {
	list, err := uc.repos.Companies.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("listar empresas por dueño: %w", err)
	}
	return toCompanyList(list), nil
}

// SetActive activa o desactiva la empresa. Solo el dueño; ErrAlreadyInState si no hay cambio.
func (uc *UseCase) SetActive(ctx context.Context, caller string, id int64, active bool) (*dto.CompanyResponse, error) {
	return uc.mutate(ctx, caller, id, entity.EventCompanyUpdated, func(c *entity.Company) error {
		if c.OwnerID != caller {
			return domain.NewError(domain.ErrUnauthorized, "company", id, "owner_id")
		}
		if c.IsActive == active {
			return domain.NewError(domain.ErrAlreadyInState, "company", id, "is_active")
		}
		c.IsActive = active
		return nil
	})
}

// Rename cambia el nombre. Solo el dueño.
func (uc *UseCase) Rename(ctx context.Context, caller string, id int64, in dto.RenameCompanyRequest) (*dto.CompanyResponse, error) {
	if err := domain.CheckLength("company", "name", in.Name, entity.MaxNameLen); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, caller, id, entity.EventCompanyUpdated, func(c *entity.Company) error {
		if c.OwnerID != caller {
			return domain.NewError(domain.ErrUnauthorized, "company", id, "owner_id")
		}
		c.Name = in.Name
		return nil
	})
}

// TransferOwnership cambia el dueño. Solo el administrador de plataforma.
func (uc *UseCase) TransferOwnership(ctx context.Context, caller string, id int64, in dto.TransferCompanyRequest) (*dto.CompanyResponse, error) {
	if uc.platformAdmin == "" || caller != uc.platformAdmin {
		return nil, domain.NewError(domain.ErrUnauthorized, "company", id, "caller")
	}
	if in.NewOwner == "" {
		return nil, domain.Invalid("company", "new_owner")
	}
	return uc.mutate(ctx, caller, id, entity.EventCompanyTransferred, func(c *entity.Company) error {
		if c.OwnerID == in.NewOwner {
			return domain.NewError(domain.ErrAlreadyInState, "company", id, "owner_id")
		}
		c.OwnerID = in.NewOwner
		return nil
	})
}

// mutate lee la empresa, aplica fn y persiste con su evento en una sola transacción.
func (uc *UseCase) mutate(ctx context.Context, caller string, id int64, event string, fn func(c *entity.Company) error) (*dto.CompanyResponse, error) {
	if caller == "" {
		return nil, domain.NewError(domain.ErrUnauthorized, "company", id, "caller")
	}
	var out *entity.Company
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		c, err := uc.GetInTx(ctx, r, id)
		if err != nil {
			return err
		}
		if err := fn(c); err != nil {
			return err
		}
		c.UpdatedAt = time.Now().UTC()
		if err := r.Companies.Update(ctx, c); err != nil {
			return fmt.Errorf("actualizar empresa: %w", err)
		}
		out = c
		return r.Audit.Append(ctx, entity.NewAuditEvent(event, caller, map[string]any{
			"company_id": c.ID,
			"owner_id":   c.OwnerID,
			"name":       c.Name,
			"is_active":  c.IsActive,
		}, c.UpdatedAt))
	})
	if err != nil {
		uc.log.Debug().Err(err).Int64("company_id", id).Str("caller", caller).Msg("cambio de empresa rechazado")
		return nil, err
	}
	uc.log.Info().Int64("company_id", id).Str("caller", caller).Str("event", event).Msg("empresa actualizada")
	return ToCompanyResponse(out), nil
}

// ToCompanyResponse convierte la entidad al DTO de salida.
func ToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		Name:      c.Name,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCompanyList(list []*entity.Company) *dto.CompanyListResponse {
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *ToCompanyResponse(c))
	}
	return &dto.CompanyListResponse{Items: items, Page: dto.ListResponse{Total: len(items)}}
}
