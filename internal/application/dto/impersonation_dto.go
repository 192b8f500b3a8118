package dto

import "time"

// StartImpersonationRequest entrada para comenzar a operar como una farmacia.
type StartImpersonationRequest struct {
	TenantID string `json:"tenant_id" validate:"required,uuid"`
	Reason   string `json:"reason" validate:"omitempty,max=500"`
}

// StartImpersonationResponse salida del inicio de suplantación.
type StartImpersonationResponse struct {
	Token        string    `json:"token"`
	DashboardURL string    `json:"dashboard_url"`
	StartedAt    time.Time `json:"started_at"`
}

// ImpersonationSessionResponse una sesión de suplantación (activa o histórica).
type ImpersonationSessionResponse struct {
	ID        string     `json:"id"`
	AdminID   string     `json:"admin_id"`
	TenantID  string     `json:"tenant_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Status    string     `json:"status"`
	Reason    string     `json:"reason,omitempty"`
}

// AuditEntryResponse un registro de la bitácora de sesiones/suplantaciones.
type AuditEntryResponse struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	TenantID  string    `json:"tenant_id,omitempty"`
	AccountID string    `json:"account_id,omitempty"`
	Action    string    `json:"action"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	IP        string    `json:"ip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
