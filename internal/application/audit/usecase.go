// Package audit expone la lectura del log de eventos a los administradores.
package audit

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/ijair/codeEcommerce-sub001/internal/application/dto"
	"github.com/ijair/codeEcommerce-sub001/internal/domain"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/authz"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// UseCase lectura de eventos recientes.
type UseCase struct {
	repos         repository.Repos
	gate          *authz.Gate
	platformAdmin string
	log           zerolog.Logger
}

func NewUseCase(repos repository.Repos, gate *authz.Gate, platformAdmin string, log zerolog.Logger) *UseCase {
	return &UseCase{
		repos:         repos,
		gate:          gate,
		platformAdmin: platformAdmin,
		log:           log.With().Str("component", "audit").Logger(),
	}
}

// Recent devuelve hasta limit eventos recientes. El administrador de plataforma ve todos;
// el administrador de un almacén solo los eventos de ese almacén. Cualquier otro: ErrUnauthorized.
func (uc *UseCase) Recent(ctx context.Context, caller string, limit int) (*dto.AuditListResponse, error) {
	platform := caller != "" && caller == uc.platformAdmin
	var stores []string
	if !platform {
		for _, s := range []string{entity.StoreCatalog, entity.StoreLedger} {
			if uc.gate.IsAdmin(s, caller) {
				stores = append(stores, s)
			}
		}
		if len(stores) == 0 {
			return nil, domain.NewError(domain.ErrUnauthorized, "audit", nil, "caller")
		}
	}

	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	events, err := uc.repos.Audit.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listar eventos: %w", err)
	}

	items := make([]dto.AuditEventResponse, 0, len(events))
	for _, e := range events {
		if !platform && !slices.Contains(stores, e.Store) {
			continue
		}
		items = append(items, toResponse(e))
	}
	uc.log.Debug().Str("caller", caller).Int("limit", limit).Int("count", len(items)).Msg("eventos consultados")
	return &dto.AuditListResponse{Items: items, Page: dto.ListResponse{Total: len(items)}}, nil
}

func toResponse(e *entity.AuditEvent) dto.AuditEventResponse {
	payload := e.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	return dto.AuditEventResponse{
		ID:        e.ID.String(),
		Type:      e.Type,
		Store:     e.Store,
		Actor:     e.Actor,
		Payload:   payload,
		CreatedAt: e.CreatedAt,
	}
}
