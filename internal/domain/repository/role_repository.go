package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// RoleRepository define el puerto para roles, permisos y sus asignaciones.
//
// Las mutaciones respetan dos reglas de dominio: las filas de sistema
// (is_system) son inmutables, y un rol con asignaciones activas no se borra.
type RoleRepository interface {
	CreateRole(ctx context.Context, role *entity.Role) error
	GetRole(ctx context.Context, id string) (*entity.Role, error)
	UpdateRole(ctx context.Context, role *entity.Role) error
	// DeleteRole falla con domain.ErrRoleInUse si existen asignaciones activas
	// y con domain.ErrSystemRoleImmutable si el rol es de sistema.
	DeleteRole(ctx context.Context, id string) error
	ListRoles(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Role, error)

	CreatePermission(ctx context.Context, perm *entity.Permission) error
	ListPermissions(ctx context.Context, limit, offset int) ([]*entity.Permission, error)

	GrantPermission(ctx context.Context, roleID, permissionID string) error
	RevokePermission(ctx context.Context, roleID, permissionID string) error

	AssignRole(ctx context.Context, assignment *entity.AccountRole) error
	UnassignRole(ctx context.Context, assignmentID string) error

	// ResolvePermissionCodes devuelve los códigos de permiso efectivos de una
	// cuenta: asignaciones directas más concesiones tenant-wide, pasando por
	// role_permissions. Solo filas activas; sin duplicados; nunca nil.
	ResolvePermissionCodes(ctx context.Context, accountID, tenantID string) ([]string, error)
}
