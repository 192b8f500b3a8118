package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo implementación de RoleRepository sobre PostgreSQL.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador de roles y permisos.
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

// CreateRole persiste un rol nuevo. Nombre duplicado en el mismo scope → domain.ErrDuplicate.
func (r *RoleRepo) CreateRole(ctx context.Context, role *entity.Role) error {
	query := `
		INSERT INTO roles (id, name, level, is_system, tenant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)`
	_, err := r.q.Exec(ctx, query,
		role.ID, role.Name, role.Level, role.IsSystem, role.TenantID, role.CreatedAt, role.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

// GetRole obtiene un rol por ID. Devuelve (nil, nil) si no existe.
func (r *RoleRepo) GetRole(ctx context.Context, id string) (*entity.Role, error) {
	query := `
		SELECT id, name, level, is_system, coalesce(tenant_id::text, ''), created_at, updated_at
		FROM roles WHERE id = $1`
	var role entity.Role
	err := r.q.QueryRow(ctx, query, id).Scan(
		&role.ID, &role.Name, &role.Level, &role.IsSystem, &role.TenantID, &role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &role, nil
}

// UpdateRole actualiza un rol no-sistema. Los roles de sistema son inmutables.
func (r *RoleRepo) UpdateRole(ctx context.Context, role *entity.Role) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE roles SET name = $2, level = $3, updated_at = $4 WHERE id = $1 AND NOT is_system`,
		role.ID, role.Name, role.Level, role.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSystemRoleImmutable
	}
	return nil
}

// DeleteRole borra un rol no-sistema sin asignaciones activas.
func (r *RoleRepo) DeleteRole(ctx context.Context, id string) error {
	var inUse bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM account_roles WHERE role_id = $1 AND active)`, id,
	).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("check role usage: %w", err)
	}
	if inUse {
		return domain.ErrRoleInUse
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM roles WHERE id = $1 AND NOT is_system`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrRoleInUse
		}
		return fmt.Errorf("delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSystemRoleImmutable
	}
	return nil
}

// ListRoles lista roles globales y del tenant indicado.
func (r *RoleRepo) ListRoles(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Role, error) {
	query := `
		SELECT id, name, level, is_system, coalesce(tenant_id::text, ''), created_at, updated_at
		FROM roles
		WHERE tenant_id IS NULL OR tenant_id = NULLIF($1, '')::uuid
		ORDER BY level DESC, name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Role
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Level, &role.IsSystem, &role.TenantID, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		list = append(list, &role)
	}
	return list, rows.Err()
}

// CreatePermission persiste un permiso nuevo. Código duplicado → domain.ErrDuplicate.
func (r *RoleRepo) CreatePermission(ctx context.Context, p *entity.Permission) error {
	query := `
		INSERT INTO permissions (id, code, description, risk, is_system, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, p.ID, p.Code, p.Description, p.Risk, p.IsSystem, p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert permission: %w", err)
	}
	return nil
}

// ListPermissions lista el catálogo de permisos.
func (r *RoleRepo) ListPermissions(ctx context.Context, limit, offset int) ([]*entity.Permission, error) {
	query := `
		SELECT id, code, description, risk, is_system, created_at
		FROM permissions ORDER BY code LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Permission
	for rows.Next() {
		var p entity.Permission
		if err := rows.Scan(&p.ID, &p.Code, &p.Description, &p.Risk, &p.IsSystem, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// GrantPermission activa la relación rol↔permiso (upsert sobre la PK compuesta).
func (r *RoleRepo) GrantPermission(ctx context.Context, roleID, permissionID string) error {
	query := `
		INSERT INTO role_permissions (role_id, permission_id, active)
		VALUES ($1, $2, true)
		ON CONFLICT (role_id, permission_id) DO UPDATE SET active = true`
	_, err := r.q.Exec(ctx, query, roleID, permissionID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("grant permission: %w", err)
	}
	return nil
}

// RevokePermission desactiva la relación rol↔permiso (no borra la fila).
func (r *RoleRepo) RevokePermission(ctx context.Context, roleID, permissionID string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE role_permissions SET active = false WHERE role_id = $1 AND permission_id = $2`,
		roleID, permissionID,
	)
	if err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}
	return nil
}

// AssignRole persiste una asignación de rol (directa o tenant-wide).
func (r *RoleRepo) AssignRole(ctx context.Context, a *entity.AccountRole) error {
	query := `
		INSERT INTO account_roles (id, account_id, tenant_id, role_id, tenant_wide, active, created_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.AccountID, a.TenantID, a.RoleID, a.TenantWide, a.Active, a.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

// UnassignRole desactiva una asignación (no la borra).
func (r *RoleRepo) UnassignRole(ctx context.Context, assignmentID string) error {
	_, err := r.q.Exec(ctx, `UPDATE account_roles SET active = false WHERE id = $1`, assignmentID)
	if err != nil {
		return fmt.Errorf("unassign role: %w", err)
	}
	return nil
}

// ResolvePermissionCodes aplana asignaciones directas y tenant-wide a códigos
// de permiso, solo filas activas, sin duplicados.
func (r *RoleRepo) ResolvePermissionCodes(ctx context.Context, accountID, tenantID string) ([]string, error) {
	query := `
		SELECT DISTINCT p.code
		FROM account_roles ar
		JOIN role_permissions rp ON rp.role_id = ar.role_id AND rp.active
		JOIN permissions p ON p.id = rp.permission_id
		WHERE ar.active
		  AND (ar.account_id = $1
		       OR (ar.tenant_wide AND ar.tenant_id = NULLIF($2, '')::uuid))
		ORDER BY p.code`
	rows, err := r.q.Query(ctx, query, accountID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("resolve permissions: %w", err)
	}
	defer rows.Close()
	codes := make([]string, 0)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan permission code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
