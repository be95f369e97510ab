// Package app arma los casos de uso sobre el backend de persistencia configurado.
// Lo comparten cmd/api y cmd/ledgerctl.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ijair/codeEcommerce-sub001/internal/application/audit"
	authzuc "github.com/ijair/codeEcommerce-sub001/internal/application/authz"
	"github.com/ijair/codeEcommerce-sub001/internal/application/billing"
	"github.com/ijair/codeEcommerce-sub001/internal/application/catalog"
	"github.com/ijair/codeEcommerce-sub001/internal/application/company"
	"github.com/ijair/codeEcommerce-sub001/internal/application/funds"
	"github.com/ijair/codeEcommerce-sub001/internal/application/ledger"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/authz"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/fee"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
	"github.com/ijair/codeEcommerce-sub001/internal/infrastructure/memory"
	infrapdf "github.com/ijair/codeEcommerce-sub001/internal/infrastructure/pdf"
	"github.com/ijair/codeEcommerce-sub001/internal/infrastructure/postgres"
	"github.com/ijair/codeEcommerce-sub001/pkg/config"
)

// Services casos de uso listos para los adaptadores de entrada.
type Services struct {
	Companies *company.UseCase
	Catalog   *catalog.UseCase
	Ledger    *ledger.UseCase
	Authz     *authzuc.UseCase
	Funds     *funds.UseCase
	Orders    *billing.OrderUseCase
	PDF       *billing.PDFUseCase
	Audit     *audit.UseCase
}

// Storage backend abierto. Close libera el pool (no-op en memoria).
type Storage struct {
	Tx    repository.TxRunner
	Repos repository.Repos
	Pool  *pgxpool.Pool // nil con el driver de memoria
}

func (s *Storage) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// OpenStorage abre el backend según cfg.Store.Driver. Con postgres aplica el esquema
// si cfg.Store.Migrate está activo.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		s := memory.NewStore()
		return &Storage{Tx: s, Repos: s.Repos()}, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{})
		if err != nil {
			return nil, err
		}
		if cfg.Store.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return &Storage{Tx: postgres.NewTxRunner(pool), Repos: postgres.NewRepos(pool), Pool: pool}, nil
	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.Store.Driver)
	}
}

// Gate construye la política de administradores por almacén.
func Gate(cfg *config.Config) *authz.Gate {
	return authz.NewGate(map[string]string{
		entity.StoreCatalog: cfg.Platform.CatalogAdmin,
		entity.StoreLedger:  cfg.Platform.LedgerAdmin,
	})
}

// Build arma los casos de uso sobre st.
func Build(cfg *config.Config, st *Storage, log zerolog.Logger) (*Services, error) {
	policy, err := fee.NewPolicy(cfg.Platform.FeeBasisPoints, cfg.Platform.TreasuryID)
	if err != nil {
		return nil, fmt.Errorf("política de comisión: %w", err)
	}
	gate := Gate(cfg)
	s := &Services{
		Companies: company.NewUseCase(st.Tx, st.Repos, cfg.Platform.Admin, log),
		Catalog:   catalog.NewUseCase(st.Tx, st.Repos, gate, log),
		Ledger:    ledger.NewUseCase(st.Tx, st.Repos, gate, log),
		Authz:     authzuc.NewUseCase(st.Tx, st.Repos, gate, log),
		Funds:     funds.NewUseCase(st.Tx, st.Repos, cfg.Platform.Admin, log),
		PDF:       billing.NewPDFUseCase(st.Repos, infrapdf.NewMarotoPDFGenerator("es")),
		Audit:     audit.NewUseCase(st.Repos, gate, cfg.Platform.Admin, log),
	}
	s.Orders = billing.NewOrderUseCase(st.Tx, st.Repos, s.Companies, s.Catalog, s.Ledger, s.Funds, billing.Config{
		TrackInventory: cfg.Platform.TrackInventory,
		Caller:         cfg.Platform.OrchestratorID,
		Fee:            policy,
	}, log)
	return s, nil
}

// GrantOrchestrator deja al orquestador autorizado en ambos almacenes. Idempotente.
func (s *Services) GrantOrchestrator(ctx context.Context, orchestrator string) error {
	for _, store := range []string{entity.StoreCatalog, entity.StoreLedger} {
		if err := s.Authz.EnsureGranted(ctx, store, orchestrator); err != nil {
			return fmt.Errorf("autorizar orquestador en %s: %w", store, err)
		}
	}
	return nil
}
