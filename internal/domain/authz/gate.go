// Package authz implementa la compuerta de capacidades: cada punto de entrada privilegiado
// de un almacén pasa por Gate.Check y solo admite al administrador del almacén o a un
// llamador con grant vigente.
package authz

import (
	"context"
	"fmt"

	"github.com/ijair/codeEcommerce-sub001/internal/domain"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/entity"
	"github.com/ijair/codeEcommerce-sub001/internal/domain/repository"
)

// Gate conoce el administrador de cada almacén; los grants viven en GrantRepository.
type Gate struct {
	admins map[string]string
}

// NewGate construye la compuerta. admins: store -> identidad administradora.
func NewGate(admins map[string]string) *Gate {
	cp := make(map[string]string, len(admins))
	for k, v := range admins {
		cp[k] = v
	}
	return &Gate{admins: cp}
}

// Admin devuelve la identidad administradora del almacén ("" si no hay).
func (g *Gate) Admin(store string) string {
	return g.admins[store]
}

// IsAdmin informa si caller administra store. Una identidad vacía nunca es admin.
func (g *Gate) IsAdmin(store, caller string) bool {
	admin := g.admins[store]
	return caller != "" && admin != "" && caller == admin
}

// Check devuelve nil si caller es admin de store o tiene grant; ErrUnauthorized en otro caso.
// No hay excepciones: ser dueño de una entidad no abre un punto privilegiado.
func (g *Gate) Check(ctx context.Context, grants repository.GrantRepository, store, caller string) error {
	if !entity.ValidStore(store) {
		return domain.Invalid("grant", "store")
	}
	if g.IsAdmin(store, caller) {
		return nil
	}
	if caller == "" {
		return domain.NewError(domain.ErrUnauthorized, "grant", store, "caller")
	}
	ok, err := grants.Exists(ctx, store, caller)
	if err != nil {
		return fmt.Errorf("authz: consultar grant: %w", err)
	}
	if !ok {
		return domain.NewError(domain.ErrUnauthorized, "grant", store, "caller")
	}
	return nil
}
