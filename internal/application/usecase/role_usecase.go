package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// RoleUseCase administración de roles, permisos y asignaciones.
// Las filas de sistema son inmutables; borrar un rol con asignaciones
// activas está bloqueado.
type RoleUseCase struct {
	repo repository.RoleRepository
}

// NewRoleUseCase construye el caso de uso con el puerto de roles.
func NewRoleUseCase(repo repository.RoleRepository) *RoleUseCase {
	return &RoleUseCase{repo: repo}
}

// CreateRole crea un rol personalizado (nunca de sistema por esta vía).
func (uc *RoleUseCase) CreateRole(ctx context.Context, in dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	now := time.Now()
	role := &entity.Role{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Level:     in.Level,
		IsSystem:  false,
		TenantID:  in.TenantID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	return entityToRoleResponse(role), nil
}

// DeleteRole borra un rol. Falla con ErrSystemRoleImmutable para roles de
// sistema y con ErrRoleInUse si tiene asignaciones activas.
func (uc *RoleUseCase) DeleteRole(ctx context.Context, id string) error {
	role, err := uc.repo.GetRole(ctx, id)
	if err != nil {
		return err
	}
	if role == nil {
		return domain.ErrNotFound
	}
	if role.IsSystem {
		return domain.ErrSystemRoleImmutable
	}
	return uc.repo.DeleteRole(ctx, id)
}

// ListRoles lista roles de plataforma y del tenant indicado.
func (uc *RoleUseCase) ListRoles(ctx context.Context, tenantID string, page dto.PageRequest) ([]dto.RoleResponse, error) {
	page.DefaultPage()
	roles, err := uc.repo.ListRoles(ctx, tenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, *entityToRoleResponse(r))
	}
	return out, nil
}

// ListPermissions lista el catálogo de permisos.
func (uc *RoleUseCase) ListPermissions(ctx context.Context, page dto.PageRequest) ([]dto.PermissionResponse, error) {
	page.DefaultPage()
	perms, err := uc.repo.ListPermissions(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PermissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, dto.PermissionResponse{
			ID:          p.ID,
			Code:        p.Code,
			Description: p.Description,
			Risk:        p.Risk,
			IsSystem:    p.IsSystem,
		})
	}
	return out, nil
}

// GrantPermission concede un permiso a un rol (no de sistema).
func (uc *RoleUseCase) GrantPermission(ctx context.Context, roleID string, in dto.GrantPermissionRequest) error {
	role, err := uc.repo.GetRole(ctx, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return domain.ErrNotFound
	}
	if role.IsSystem {
		return domain.ErrSystemRoleImmutable
	}
	return uc.repo.GrantPermission(ctx, roleID, in.PermissionID)
}

// AssignRole asigna un rol a una cuenta o como concesión tenant-wide.
func (uc *RoleUseCase) AssignRole(ctx context.Context, in dto.AssignRoleRequest) error {
	if in.AccountID == "" && !in.TenantWide {
		return domain.ErrInvalidInput
	}
	assignment := &entity.AccountRole{
		ID:         uuid.New().String(),
		AccountID:  in.AccountID,
		TenantID:   in.TenantID,
		RoleID:     in.RoleID,
		TenantWide: in.TenantWide,
		Active:     true,
		CreatedAt:  time.Now(),
	}
	return uc.repo.AssignRole(ctx, assignment)
}

func entityToRoleResponse(r *entity.Role) *dto.RoleResponse {
	if r == nil {
		return nil
	}
	return &dto.RoleResponse{
		ID:        r.ID,
		Name:      r.Name,
		Level:     r.Level,
		IsSystem:  r.IsSystem,
		TenantID:  r.TenantID,
		CreatedAt: r.CreatedAt,
	}
}
