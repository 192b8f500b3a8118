package permission

import (
	"context"
	"sort"

	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// Resolver expande las asignaciones de rol de una cuenta (directas más
// concesiones tenant-wide) en el conjunto plano de códigos de permiso.
type Resolver struct {
	roles repository.RoleRepository
}

// NewResolver construye el resolver sobre el puerto de roles.
func NewResolver(roles repository.RoleRepository) *Resolver {
	return &Resolver{roles: roles}
}

// Resolve devuelve el conjunto efectivo de permisos, sin duplicados y
// ordenado (mismo input, mismo output). Una cuenta sin asignaciones obtiene
// el conjunto vacío, no un error. Solo cuentan asignaciones activas.
func (r *Resolver) Resolve(ctx context.Context, accountID, tenantID string) ([]string, error) {
	codes, err := r.roles.ResolvePermissionCodes(ctx, accountID, tenantID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// Has indica si el conjunto resuelto contiene el código dado.
func (r *Resolver) Has(ctx context.Context, accountID, tenantID, code string) (bool, error) {
	codes, err := r.Resolve(ctx, accountID, tenantID)
	if err != nil {
		return false, err
	}
	for _, c := range codes {
		if c == code {
			return true, nil
		}
	}
	return false, nil
}
