// Package catalog implementa el catálogo de productos: alta y edición por el dueño de la
// empresa, y el punto privilegiado DecrementStock que usa el orquestador de órdenes.
package catalog

import (
	"context"
	"fmt"
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

// UseCase casos de uso del catálogo de productos.
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
		log:   log.With().Str("component", "catalog").Logger(),
	}
}

func validateFields(name string, price decimal.Decimal, image string) error {
	if err := domain.CheckLength("product", "name", name, entity.MaxNameLen); err != nil {
		return err
	}
	if !price.IsPositive() {
		return domain.Invalid("product", "price")
	}
	return domain.CheckLength("product", "image", image, entity.MaxImageLen)
}

// ownedCompany exige empresa existente, activa y cuyo dueño sea caller.
func ownedCompany(ctx context.Context, r repository.Repos, companyID int64, caller string) (*entity.Company, error) {
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
	if caller == "" || c.OwnerID != caller {
		return nil, domain.NewError(domain.ErrUnauthorized, "company", companyID, "owner_id")
	}
	return c, nil
}

func getProduct(ctx context.Context, r repository.Repos, id int64, forUpdate bool) (*entity.Product, error) {
	var (
		p   *entity.Product
		err error
	)
	if forUpdate {
		p, err = r.Products.GetForUpdate(ctx, id)
	} else {
		p, err = r.Products.GetByID(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if p == nil {
		return nil, domain.NotFound("product", id)
	}
	return p, nil
}

// isOwner informa si caller es dueño de la empresa del producto (sin exigir que esté activa).
func isOwner(ctx context.Context, r repository.Repos, companyID int64, caller string) (bool, error) {
	c, err := r.Companies.GetByID(ctx, companyID)
	if err != nil {
		return false, fmt.Errorf("obtener empresa: %w", err)
	}
	return c != nil && caller != "" && c.OwnerID == caller, nil
}

// Create crea un producto en una empresa activa del llamador. Devuelve el ID asignado por la secuencia.
func (uc *UseCase) Create(ctx context.Context, caller string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validateFields(in.Name, in.Price, in.Image); err != nil {
		return nil, err
	}
	if in.Stock < 0 {
		return nil, domain.Invalid("product", "stock")
	}
	now := time.Now().UTC()
	p := &entity.Product{
		CompanyID: in.CompanyID,
		Name:      in.Name,
		Price:     in.Price,
		Image:     in.Image,
		Stock:     in.Stock,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		if _, err := ownedCompany(ctx, r, in.CompanyID, caller); err != nil {
			return err
		}
		if err := r.Products.Create(ctx, p); err != nil {
			return fmt.Errorf("crear producto: %w", err)
		}
		return r.Audit.Append(ctx, entity.NewAuditEvent(entity.EventProductCreated, caller, map[string]any{
			"product_id": p.ID,
			"company_id": p.CompanyID,
			"price":      p.Price.String(),
			"stock":      p.Stock,
		}, now))
	})
	if err != nil {
		uc.log.Debug().Err(err).Int64("company_id", in.CompanyID).Str("caller", caller).Msg("alta de producto rechazada")
		return nil, err
	}
	uc.log.Info().Int64("product_id", p.ID).Int64("company_id", p.CompanyID).Str("caller", caller).
		Str("event", entity.EventProductCreated).Msg("producto creado")
	return ToProductResponse(p), nil
}

// Update revalida y reemplaza nombre, precio e imagen. Solo el dueño.
func (uc *UseCase) Update(ctx context.Context, caller string, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := validateFields(in.Name, in.Price, in.Image); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, caller, id, func(p *entity.Product) error {
		p.Name = in.Name
		p.Price = in.Price
		p.Image = in.Image
		return nil
	})
}

// SetActive activa o desactiva el producto. Solo el dueño; ErrAlreadyInState si no hay cambio.
func (uc *UseCase) SetActive(ctx context.Context, caller string, id int64, active bool) (*dto.ProductResponse, error) {
	return uc.mutate(ctx, caller, id, func(p *entity.Product) error {
		if p.IsActive == active {
			return domain.NewError(domain.ErrAlreadyInState, "product", id, "is_active")
		}
		p.IsActive = active
		return nil
	})
}

func (uc *UseCase) mutate(ctx context.Context, caller string, id int64, fn func(p *entity.Product) error) (*dto.ProductResponse, error) {
	var out *entity.Product
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		p, err := getProduct(ctx, r, id, true)
		if err != nil {
			return err
		}
		if _, err := ownedCompany(ctx, r, p.CompanyID, caller); err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		p.UpdatedAt = time.Now().UTC()
		if err := r.Products.Update(ctx, p); err != nil {
			return fmt.Errorf("actualizar producto: %w", err)
		}
		out = p
		return r.Audit.Append(ctx, entity.NewAuditEvent(entity.EventProductUpdated, caller, map[string]any{
			"product_id": p.ID,
			"company_id": p.CompanyID,
			"price":      p.Price.String(),
			"is_active":  p.IsActive,
		}, p.UpdatedAt))
	})
	if err != nil {
		uc.log.Debug().Err(err).Int64("product_id", id).Str("caller", caller).Msg("cambio de producto rechazado")
		return nil, err
	}
	uc.log.Info().Int64("product_id", id).Str("caller", caller).Str("event", entity.EventProductUpdated).Msg("producto actualizado")
	return ToProductResponse(out), nil
}

// DecrementStock punto privilegiado: solo el dueño de la empresa, el administrador del
// catálogo o un llamador con grant. Falla con ErrInsufficientStock sin tocar el stock.
func (uc *UseCase) DecrementStock(ctx context.Context, caller string, id, qty int64) (*dto.ProductResponse, error) {
	var out *entity.Product
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		p, err := uc.DecrementStockInTx(ctx, r, caller, id, qty)
		out = p
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("product_id", id).Int64("quantity", qty).Str("caller", caller).
		Str("event", entity.EventStockDecremented).Msg("stock descontado")
	return ToProductResponse(out), nil
}

// DecrementStockInTx descuenta qty unidades con los repos de una transacción en curso.
func (uc *UseCase) DecrementStockInTx(ctx context.Context, r repository.Repos, caller string, id, qty int64) (*entity.Product, error) {
	if qty <= 0 {
		return nil, domain.Invalid("product", "quantity")
	}
	p, err := getProduct(ctx, r, id, true)
	if err != nil {
		return nil, err
	}
	owner, err := isOwner(ctx, r, p.CompanyID, caller)
	if err != nil {
		return nil, err
	}
	if !owner {
		if err := uc.gate.Check(ctx, r.Grants, entity.StoreCatalog, caller); err != nil {
			return nil, err
		}
	}
	if !p.HasStock(qty) {
		return nil, domain.NewError(domain.ErrInsufficientStock, "product", id, "stock")
	}
	return p, uc.applyStock(ctx, r, caller, p, p.Stock-qty, entity.EventStockDecremented, qty)
}

// IncrementStock repone stock. Solo el dueño.
func (uc *UseCase) IncrementStock(ctx context.Context, caller string, id, qty int64) (*dto.ProductResponse, error) {
	if qty <= 0 {
		return nil, domain.Invalid("product", "quantity")
	}
	var out *entity.Product
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		p, err := getProduct(ctx, r, id, true)
		if err != nil {
			return err
		}
		owner, err := isOwner(ctx, r, p.CompanyID, caller)
		if err != nil {
			return err
		}
		if !owner {
			return domain.NewError(domain.ErrUnauthorized, "product", id, "owner_id")
		}
		out = p
		return uc.applyStock(ctx, r, caller, p, p.Stock+qty, entity.EventStockIncremented, qty)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("product_id", id).Int64("quantity", qty).Str("caller", caller).
		Str("event", entity.EventStockIncremented).Msg("stock repuesto")
	return ToProductResponse(out), nil
}

// DirectPurchase venta del dueño por fuera de una factura: exige empresa y producto activos.
func (uc *UseCase) DirectPurchase(ctx context.Context, caller string, id, qty int64) (*dto.ProductResponse, error) {
	if qty <= 0 {
		return nil, domain.Invalid("product", "quantity")
	}
	var out *entity.Product
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		p, err := getProduct(ctx, r, id, true)
		if err != nil {
			return err
		}
		if _, err := ownedCompany(ctx, r, p.CompanyID, caller); err != nil {
			return err
		}
		if !p.IsActive {
			return domain.NewError(domain.ErrInactive, "product", id, "is_active")
		}
		if !p.HasStock(qty) {
			return domain.NewError(domain.ErrInsufficientStock, "product", id, "stock")
		}
		out = p
		return uc.applyStock(ctx, r, caller, p, p.Stock-qty, entity.EventStockDecremented, qty)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("product_id", id).Int64("quantity", qty).Str("caller", caller).Msg("venta directa")
	return ToProductResponse(out), nil
}

func (uc *UseCase) applyStock(ctx context.Context, r repository.Repos, caller string, p *entity.Product, stock int64, event string, qty int64) error {
	p.Stock = stock
	p.UpdatedAt = time.Now().UTC()
	if err := r.Products.UpdateStock(ctx, p.ID, p.Stock, p.UpdatedAt); err != nil {
		return fmt.Errorf("actualizar stock: %w", err)
	}
	return r.Audit.Append(ctx, entity.NewAuditEvent(event, caller, map[string]any{
		"product_id": p.ID,
		"company_id": p.CompanyID,
		"quantity":   qty,
		"stock":      p.Stock,
	}, p.UpdatedAt))
}

// ── Lecturas ────────────────────────────────────────────────────────────────

// Get obtiene un producto; domain.ErrNotFound si no existe.
func (uc *UseCase) Get(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := getProduct(ctx, uc.repos, id, false)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(p), nil
}

// Exists informa si el producto existe.
func (uc *UseCase) Exists(ctx context.Context, id int64) (bool, error) {
	p, err := uc.repos.Products.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("obtener producto: %w", err)
	}
	return p != nil, nil
}

// HasStock informa si hay al menos qty unidades; domain.ErrNotFound si el producto no existe.
func (uc *UseCase) HasStock(ctx context.Context, id, qty int64) (bool, error) {
	p, err := getProduct(ctx, uc.repos, id, false)
	if err != nil {
		return false, err
	}
	return p.HasStock(qty), nil
}

// ListAll lista todos los productos en orden de creación.
func (uc *UseCase) ListAll(ctx context.Context) (*dto.ProductListResponse, error) {
	list, err := uc.repos.Products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	return toProductList(list), nil
}

// ListByCompany lista los productos de una empresa en orden de creación.
func (uc *UseCase) ListByCompany(ctx context.Context, companyID int64) (*dto.ProductListResponse, error) {
	list, err := uc.repos.Products.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	return toProductList(list), nil
}

// ListActive lista los productos activos en orden de creación.
func (uc *UseCase) ListActive(ctx context.Context) (*dto.ProductListResponse, error) {
	active := true
	return uc.Filter(ctx, filter.ProductQuery{IsActive: &active})
}

// Filter evalúa q sobre el catálogo completo (o la empresa indicada) conservando el orden de creación.
func (uc *UseCase) Filter(ctx context.Context, q filter.ProductQuery) (*dto.ProductListResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	var (
		list []*entity.Product
		err  error
	)
	if q.CompanyID != 0 {
		list, err = uc.repos.Products.ListByCompany(ctx, q.CompanyID)
	} else {
		list, err = uc.repos.Products.ListAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	out, err := filter.Products(list, q)
	if err != nil {
		return nil, err
	}
	return toProductList(out), nil
}

// ToProductResponse convierte la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		CompanyID: p.CompanyID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Stock:     p.Stock,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProductList(list []*entity.Product) *dto.ProductListResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Page: dto.ListResponse{Total: len(items)}}
}
