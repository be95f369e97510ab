// Package authz administra las tablas de grants de cada almacén.
package authz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/internal/domain"
	domainauthz "github.com/ijair/codeEcommerce-sub001/internal/domain/authz"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
)

// UseCase otorga y revoca grants. Solo el administrador del almacén puede hacerlo.
type UseCase struct {
	tx    repository.TxRunner
	repos repository.Repos
	gate  *domainauthz.Gate
	log   zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx repository.TxRunner, repos repository.Repos, gate *domainauthz.Gate, log zerolog.Logger) *UseCase {
	return &UseCase{
		tx:    tx,
		repos: repos,
		gate:  gate,
		log:   log.With().Str("component", "authz").Logger(),
	}
}

func (uc *UseCase) requireAdmin(store, caller string) error {
	if !entity.ValidStore(store) {
		return domain.Invalid("grant", "store")
	}
	if !uc.gate.IsAdmin(store, caller) {
		return domain.NewError(domain.ErrUnauthorized, "grant", store, "admin")
	}
	return nil
}

// Grant autoriza a callee en store. ErrAlreadyAuthorized si ya lo estaba.
func (uc *UseCase) Grant(ctx context.Context, caller, store, callee string) (*dto.GrantResponse, error) {
	if err := uc.requireAdmin(store, caller); err != nil {
		return nil, err
	}
	if callee == "" {
		return nil, domain.Invalid("grant", "caller")
	}
	now := time.Now().UTC()
	g := &entity.Grant{Store: store, Caller: callee, GrantedBy: caller, CreatedAt: now}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		ok, err := r.Grants.Exists(ctx, store, callee)
		if err != nil {
			return fmt.Errorf("consultar grant: %w", err)
		}
		if ok {
			return domain.NewError(domain.ErrAlreadyAuthorized, "grant", callee, "caller")
		}
		if err := r.Grants.Create(ctx, g); err != nil {
			return fmt.Errorf("crear grant: %w", err)
		}
		return r.Audit.Append(ctx, entity.NewAuditEvent(entity.EventGranted, caller, map[string]any{
			"store":  store,
			"caller": callee,
		}, now).InStore(store))
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("store", store).Str("callee", callee).Str("caller", caller).Str("event", entity.EventGranted).Msg("grant otorgado")
	return toGrantResponse(g), nil
}

// Revoke retira el grant de callee en store. ErrNotAuthorized si no existía.
func (uc *UseCase) Revoke(ctx context.Context, caller, store, callee string) error {
	if err := uc.requireAdmin(store, caller); err != nil {
		return err
	}
	now := time.Now().UTC()
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		ok, err := r.Grants.Exists(ctx, store, callee)
		if err != nil {
			return fmt.Errorf("consultar grant: %w", err)
		}
		if !ok {
			return domain.NewError(domain.ErrNotAuthorized, "grant", callee, "caller")
		}
		if err := r.Grants.Delete(ctx, store, callee); err != nil {
			return fmt.Errorf("borrar grant: %w", err)
		}
		return r.Audit.Append(ctx, entity.NewAuditEvent(entity.EventRevoked, caller, map[string]any{
			"store":  store,
			"caller": callee,
		}, now).InStore(store))
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("store", store).Str("callee", callee).Str("caller", caller).Str("event", entity.EventRevoked).Msg("grant revocado")
	return nil
}

// List devuelve el administrador y los grants vigentes de store.
func (uc *UseCase) List(ctx context.Context, store string) (*dto.GrantListResponse, error) {
	if !entity.ValidStore(store) {
		return nil, domain.Invalid("grant", "store")
	}
	list, err := uc.repos.Grants.ListByStore(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("listar grants: %w", err)
	}
	out := &dto.GrantListResponse{Store: store, Admin: uc.gate.Admin(store), Items: make([]dto.GrantResponse, 0, len(list))}
	for _, g := range list {
		out.Items = append(out.Items, *toGrantResponse(g))
	}
	return out, nil
}

// IsAuthorized informa si caller pasa la compuerta de store.
func (uc *UseCase) IsAuthorized(ctx context.Context, store, caller string) (bool, error) {
	err := uc.gate.Check(ctx, uc.repos.Grants, store, caller)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrUnauthorized) {
		return false, nil
	}
	return false, err
}

// EnsureGranted otorga el grant si falta, sin pasar por el administrador.
// Solo lo usa el arranque del servicio para registrar al orquestador.
func (uc *UseCase) EnsureGranted(ctx context.Context, store, callee string) error {
	if !entity.ValidStore(store) {
		return domain.Invalid("grant", "store")
	}
	if callee == "" {
		return domain.Invalid("grant", "caller")
	}
	grantedBy := uc.gate.Admin(store)
	if grantedBy == "" {
		grantedBy = "system"
	}
	now := time.Now().UTC()
	return uc.tx.Run(ctx, func(r repository.Repos) error {
		ok, err := r.Grants.Exists(ctx, store, callee)
		if err != nil || ok {
			return err
		}
		if err := r.Grants.Create(ctx, &entity.Grant{Store: store, Caller: callee, GrantedBy: grantedBy, CreatedAt: now}); err != nil {
			return fmt.Errorf("crear grant: %w", err)
		}
		return r.Audit.Append(ctx, entity.NewAuditEvent(entity.EventGranted, grantedBy, map[string]any{
			"store":  store,
			"caller": callee,
		}, now).InStore(store))
	})
}

func toGrantResponse(g *entity.Grant) *dto.GrantResponse {
	return &dto.GrantResponse{
		Store:     g.Store,
		Caller:    g.Caller,
		GrantedBy: g.GrantedBy,
		CreatedAt: g.CreatedAt,
	}
}
