package dto

import "time"

// CreateRoleRequest entrada para crear un rol personalizado de farmacia.
type CreateRoleRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Level    int    `json:"level" validate:"min=0,max=100"`
	TenantID string `json:"tenant_id" validate:"omitempty,uuid"`
}

// RoleResponse salida de un rol.
type RoleResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Level     int       `json:"level"`
	IsSystem  bool      `json:"is_system"`
	TenantID  string    `json:"tenant_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PermissionResponse salida de un permiso.
type PermissionResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Risk        string `json:"risk"`
	IsSystem    bool   `json:"is_system"`
}

// GrantPermissionRequest entrada para conceder un permiso a un rol.
type GrantPermissionRequest struct {
	PermissionID string `json:"permission_id" validate:"required,uuid"`
}

// AssignRoleRequest entrada para asignar un rol a una cuenta o tenant-wide.
type AssignRoleRequest struct {
	RoleID     string `json:"role_id" validate:"required,uuid"`
	AccountID  string `json:"account_id" validate:"omitempty,uuid"`
	TenantID   string `json:"tenant_id" validate:"omitempty,uuid"`
	TenantWide bool   `json:"tenant_wide"`
}
