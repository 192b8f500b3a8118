package entity

import "time"

// Acciones registradas en la bitácora de auditoría.
const (
	AuditSessionStarted       = "session_started"
	AuditSessionRevoked       = "session_revoked"
	AuditSessionExpired       = "session_expired"
	AuditImpersonationStarted = "impersonation_started"
	AuditImpersonationStopped = "impersonation_stopped"
)

// Resultados de una acción auditada.
const (
	AuditOutcomeOK       = "ok"
	AuditOutcomeDegraded = "degraded"
)

// AuditLogEntry es un registro inmutable (append-only) del ciclo de vida de
// sesiones y suplantaciones: quién hizo qué, sobre qué tenant/cuenta y desde dónde.
type AuditLogEntry struct {
	ID        string
	ActorID   string
	TenantID  string
	AccountID string
	Action    string
	Outcome   string
	Detail    string // contexto libre: razón, duración, conteos
	IP        string
	UserAgent string
	CreatedAt time.Time
}
