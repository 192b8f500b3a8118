package dto

import "time"

// RegisterRequest entrada para registro: email, password y farmacia.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	TenantID string `json:"tenant_id" validate:"required,uuid"`
	Name     string `json:"name" validate:"omitempty,max=200"`
	Role     string `json:"role" validate:"omitempty,oneof=tenant_admin pharmacist cashier"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida de login/refresh: par de tokens + cuenta.
type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int             `json:"expires_in"` // segundos de vida del access token
	Account      AccountResponse `json:"account"`
}

// RefreshRequest entrada para rotación de refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// LogoutAllResponse salida del logout global (privilegiado).
type LogoutAllResponse struct {
	RevokedSessions int `json:"revoked_sessions"`
}

// PrincipalResponse identidad resuelta del bearer token: cuenta + farmacia + permisos.
type PrincipalResponse struct {
	Account     AccountResponse `json:"account"`
	Tenant      *TenantResponse `json:"tenant,omitempty"`
	Permissions []string        `json:"permissions"`
}

// SessionResponse una sesión activa (dispositivo) de la cuenta.
type SessionResponse struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"user_agent"`
	IP        string    `json:"ip"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
