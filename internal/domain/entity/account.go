package entity

import "time"

// Roles válidos para Account.
const (
	RoleSuperadmin  = "superadmin"
	RoleTenantAdmin = "tenant_admin"
	RolePharmacist  = "pharmacist"
	RoleCashier     = "cashier"
)

// Estados válidos para Account.
const (
	AccountActive   = "active"
	AccountInactive = "inactive"
)

// Account representa un principal autenticable. TenantID vacío indica un
// administrador de plataforma (sin farmacia asociada).
type Account struct {
	ID           string
	TenantID     string
	Email        string // siempre en minúsculas (único case-insensitive)
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // superadmin, tenant_admin, pharmacist, cashier
	Status       string // active, inactive — nunca se borra físicamente
	MaxDevices   int    // 0 = usar el tope por defecto del despliegue
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive indica si la cuenta puede iniciar sesión.
func (a *Account) IsActive() bool {
	return a.Status == AccountActive
}

// DeviceLimit devuelve el tope efectivo de sesiones concurrentes.
func (a *Account) DeviceLimit(deploymentDefault int) int {
	if a.MaxDevices > 0 {
		return a.MaxDevices
	}
	return deploymentDefault
}
