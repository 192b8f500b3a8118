package entity

import "time"

// Session representa una instancia de dispositivo/navegador autenticado
// para una Account. El refresh token nunca se guarda en claro: solo su
// hash SHA-256. Estados terminales: revocada (Active=false) o expirada.
type Session struct {
	ID               string
	AccountID        string
	RefreshTokenHash string // SHA-256 hex del token opaco, nunca el valor crudo
	UserAgent        string
	IP               string
	CreatedAt        time.Time
	ExpiresAt        time.Time
	Active           bool
}

// IsUsable indica si la sesión puede refrescar tokens en el instante now.
func (s *Session) IsUsable(now time.Time) bool {
	return s.Active && s.ExpiresAt.After(now)
}
