// Package billing contiene el orquestador de órdenes y los casos de uso de facturas.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/internal/domain"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/fee"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
)

// Config del orquestador.
type Config struct {
	// TrackInventory conecta el catálogo: valida productos y descuenta stock.
	// Sin catálogo se usa el precio de cada línea tal cual y el stock no se toca.
	TrackInventory bool
	// Caller identidad con la que el orquestador invoca los puntos privilegiados.
	Caller string
	// Fee comisión de plataforma aplicada al liquidar desde saldo.
	Fee fee.Policy
}

// OrderUseCase crea órdenes como una sola unidad atómica y expone las facturas resultantes.
type OrderUseCase struct {
	tx        repository.TxRunner
	repos     repository.Repos
	companies CompanyReader
	products  ProductStore
	clients   ClientStore
	funds     FundsStore
	cfg       Config
	log       zerolog.Logger
}

// NewOrderUseCase construye el caso de uso. products puede ser nil si cfg.TrackInventory es false.
func NewOrderUseCase(
	tx repository.TxRunner,
	repos repository.Repos,
	companies CompanyReader,
	products ProductStore,
	clients ClientStore,
	funds FundsStore,
	cfg Config,
	log zerolog.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		tx:        tx,
		repos:     repos,
		companies: companies,
		products:  products,
		clients:   clients,
		funds:     funds,
		cfg:       cfg,
		log:       log.With().Str("component", "orders").Logger(),
	}
}

// validateRequest comprueba lo que no depende del estado almacenado.
func validateRequest(in dto.CreateOrderRequest) error {
	if err := domain.CheckLength("invoice", "number", in.Number, entity.MaxNumberLen); err != nil {
		return err
	}
	if err := domain.CheckLength("invoice", "client_id", in.ClientID, entity.MaxClientIDLen); err != nil {
		return err
	}
	if len(in.Items) == 0 {
		return domain.Invalid("invoice", "items")
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return domain.Invalid("invoice", "quantity")
		}
		if it.UnitPrice.IsNegative() {
			return domain.Invalid("invoice", "unit_price")
		}
	}
	return nil
}

// CreateOrder ejecuta Validating → StockChecked → Settled → Recorded → PurchaseApplied en una
// sola transacción. Cualquier fallo descarta la orden completa: stock, saldos, factura y
// agregados del cliente quedan como estaban.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, caller string, in dto.CreateOrderRequest) (*dto.InvoiceResponse, error) {
	if err := validateRequest(in); err != nil {
		uc.log.Debug().Err(err).Int64("company_id", in.CompanyID).Str("caller", caller).Msg("orden rechazada")
		return nil, err
	}

	var inv *entity.Invoice
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		// 1) Validating: empresa existente, activa y del llamador.
		company, err := uc.companies.GetInTx(ctx, r, in.CompanyID)
		if err != nil {
			return err
		}
		if !company.IsActive {
			return domain.NewError(domain.ErrInactive, "company", company.ID, "is_active")
		}
		if caller == "" || company.OwnerID != caller {
			return domain.NewError(domain.ErrUnauthorized, "company", company.ID, "owner_id")
		}

		// 2) StockChecked: precios y stock de cada línea, sin reservar nada.
		items, err := uc.priceItems(ctx, r, company.ID, in.Items)
		if err != nil {
			return err
		}

		// 3) Total.
		total := decimal.Zero
		for _, it := range items {
			total = total.Add(it.LineTotal)
		}
		if total.IsZero() {
			return domain.NewError(domain.ErrZeroAmount, "invoice", nil, "total_amount")
		}

		// 4) Settled (opcional).
		if in.SettleFromBalance {
			if err := uc.settle(ctx, r, in.ClientID, company.OwnerID, total); err != nil {
				return err
			}
		}

		// 5) Recorded.
		now := time.Now().UTC()
		inv = &entity.Invoice{
			CompanyID:   company.ID,
			Number:      in.Number,
			Date:        now,
			ClientID:    in.ClientID,
			TotalAmount: total,
			IsPaid:      in.SettleFromBalance,
			Items:       items,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := r.Invoices.Create(ctx, inv); err != nil {
			return fmt.Errorf("crear factura: %w", err)
		}

		// 6) Descuento de stock por línea con la identidad del orquestador.
		if uc.cfg.TrackInventory {
			for _, it := range items {
				if _, err := uc.products.DecrementStockInTx(ctx, r, uc.cfg.Caller, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
		}

		// 7) PurchaseApplied: registrar la compra y luego contar la factura.
		if _, err := uc.clients.RegisterPurchaseInTx(ctx, r, uc.cfg.Caller, company.ID, in.ClientID, total); err != nil {
			return err
		}
		if _, err := uc.clients.IncrementInvoiceCountInTx(ctx, r, uc.cfg.Caller, company.ID, in.ClientID); err != nil {
			return err
		}

		// 8) Evento de creación.
		return r.Audit.Append(ctx, entity.NewAuditEvent(entity.EventInvoiceCreated, caller, map[string]any{
			"invoice_id":   inv.ID,
			"company_id":   inv.CompanyID,
			"number":       inv.Number,
			"client_id":    inv.ClientID,
			"total_amount": inv.TotalAmount.String(),
		}, now))
	})
	if err != nil {
		uc.log.Debug().Err(err).Int64("company_id", in.CompanyID).Str("caller", caller).Msg("orden rechazada")
		return nil, err
	}

	uc.log.Info().
		Int64("invoice_id", inv.ID).
		Int64("company_id", inv.CompanyID).
		Str("number", inv.Number).
		Str("client_id", inv.ClientID).
		Str("total_amount", inv.TotalAmount.String()).
		Bool("is_paid", inv.IsPaid).
		Str("caller", caller).
		Str("event", entity.EventInvoiceCreated).
		Msg("orden creada")
	return ToInvoiceResponse(inv), nil
}

// priceItems resuelve el precio de cada línea y valida stock acumulado por producto.
// Falla en la primera violación.
func (uc *OrderUseCase) priceItems(ctx context.Context, r repository.Repos, companyID int64, reqItems []dto.OrderItemRequest) ([]entity.InvoiceItem, error) {
	items := make([]entity.InvoiceItem, 0, len(reqItems))
	requested := make(map[int64]int64, len(reqItems))
	for _, it := range reqItems {
		price := it.UnitPrice
		if uc.cfg.TrackInventory {
			p, err := r.Products.GetForUpdate(ctx, it.ProductID)
			if err != nil {
				return nil, fmt.Errorf("obtener producto: %w", err)
			}
			if p == nil {
				return nil, domain.NewError(domain.ErrProductNotFound, "product", it.ProductID, "product_id")
			}
			if p.CompanyID != companyID {
				return nil, domain.NewError(domain.ErrInvalidInput, "product", it.ProductID, "company_id")
			}
			if !p.IsActive {
				return nil, domain.NewError(domain.ErrInactive, "product", it.ProductID, "is_active")
			}
			requested[it.ProductID] += it.Quantity
			if !p.HasStock(requested[it.ProductID]) {
				return nil, domain.NewError(domain.ErrInsufficientStock, "product", it.ProductID, "stock")
			}
			if price.IsZero() {
				price = p.Price
			}
		} else if price.IsNegative() {
			// Sin catálogo una línea puede ser gratuita; el total en cero se rechaza en el paso 3.
			return nil, domain.Invalid("invoice", "unit_price")
		}
		items = append(items, entity.InvoiceItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: price,
			LineTotal: price.Mul(decimal.NewFromInt(it.Quantity)),
		})
	}
	return items, nil
}

// settle cobra total del saldo del cliente: la comisión va a la tesorería y el resto al dueño.
func (uc *OrderUseCase) settle(ctx context.Context, r repository.Repos, clientID, ownerID string, total decimal.Decimal) error {
	if err := uc.funds.LockInTx(ctx, r, clientID, ownerID, uc.cfg.Fee.Treasury); err != nil {
		return err
	}
	bal, err := uc.funds.BalanceOfInTx(ctx, r, clientID)
	if err != nil {
		return err
	}
	if bal.LessThan(total) {
		return domain.NewError(domain.ErrInsufficientBalance, "balance", clientID, "amount")
	}
	platformFee, net := uc.cfg.Fee.Split(total)
	if platformFee.IsPositive() {
		if err := uc.funds.TransferInTx(ctx, r, clientID, uc.cfg.Fee.Treasury, platformFee); err != nil {
			return err
		}
	}
	if net.IsPositive() {
		if err := uc.funds.TransferInTx(ctx, r, clientID, ownerID, net); err != nil {
			return err
		}
	}
	return nil
}
