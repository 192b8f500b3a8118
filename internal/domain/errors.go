package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrAccountNotFound       = errors.New("cuenta no encontrada")
	ErrInvalidCredentials    = errors.New("credenciales inválidas")
	ErrAccountInactive       = errors.New("cuenta inactiva")
	ErrEmailAlreadyExists    = errors.New("el email ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrInvalidOrExpiredToken = errors.New("token inválido o expirado")
	ErrTenantNotEligible     = errors.New("la farmacia no está activa")
	ErrNoActiveImpersonation = errors.New("no hay una sesión de suplantación activa")
	ErrSystemRoleImmutable   = errors.New("los roles y permisos de sistema no se pueden modificar")
	ErrRoleInUse             = errors.New("el rol tiene asignaciones activas")
)

// DeviceLimitError indica que la cuenta alcanzó su tope de sesiones concurrentes.
// Lleva el conteo actual y el máximo para que el caller pueda revocar otra
// sesión antes de reintentar.
type DeviceLimitError struct {
	Current int
	Max     int
}

func (e *DeviceLimitError) Error() string {
	return fmt.Sprintf("límite de dispositivos alcanzado (%d/%d)", e.Current, e.Max)
}

// AsDeviceLimit extrae un *DeviceLimitError de la cadena de errores, si existe.
func AsDeviceLimit(err error) (*DeviceLimitError, bool) {
	var dle *DeviceLimitError
	if errors.As(err, &dle) {
		return dle, true
	}
	return nil, false
}
