package entity

import "time"

// Estados válidos para ImpersonationSession.
const (
	ImpersonationActive = "active"
	ImpersonationEnded  = "ended"
)

// ImpersonationSession registra a un superadmin operando como una farmacia.
// Invariante: por admin, a lo sumo una sesión con Status=active y EndedAt=nil;
// iniciar una nueva termina primero la anterior. Nunca se borra (auditoría).
type ImpersonationSession struct {
	ID        string
	AdminID   string
	TenantID  string
	StartedAt time.Time
	EndedAt   *time.Time // nil mientras está activa
	Status    string     // active, ended
	Reason    string
	IP        string
	UserAgent string
}

// IsActive indica si la sesión de suplantación sigue vigente.
func (s *ImpersonationSession) IsActive() bool {
	return s.Status == ImpersonationActive && s.EndedAt == nil
}

// Duration devuelve la duración de la sesión; para sesiones activas usa now.
func (s *ImpersonationSession) Duration(now time.Time) time.Duration {
	if s.EndedAt != nil {
		return s.EndedAt.Sub(s.StartedAt)
	}
	return now.Sub(s.StartedAt)
}
