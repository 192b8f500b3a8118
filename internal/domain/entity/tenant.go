package entity

import "time"

// Estados válidos para Tenant.
const (
	TenantActive    = "active"
	TenantSuspended = "suspended"
	TenantClosed    = "closed"
)

// Tenant representa una farmacia/negocio: el límite organizacional al que
// pertenecen cuentas y sesiones.
type Tenant struct {
	ID            string
	Name          string
	Status        string // active, suspended, closed
	LicenseNumber string // registro sanitario / licencia de funcionamiento
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive indica si la farmacia está operativa (requisito para suplantación).
func (t *Tenant) IsActive() bool {
	return t.Status == TenantActive
}
