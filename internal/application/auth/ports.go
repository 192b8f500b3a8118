package auth

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// TxRunner ejecuta las secuencias críticas del registro de sesiones dentro de
// una transacción, con repos atados a la tx.
//
// RunLogin bloquea la fila de la cuenta antes de invocar fn: el conteo de
// sesiones activas y la inserción de la nueva son una unidad atómica, así dos
// logins concurrentes no pueden superar el tope de dispositivos.
//
// RunRefresh garantiza que leer la sesión por hash, validarla y rotar el token
// ocurra como una sola transacción (la fila de la sesión queda bloqueada):
// un token viejo reproducido durante la carrera no puede producir dos sesiones
// válidas.
type TxRunner interface {
	RunLogin(ctx context.Context, accountID string, fn func(sessions repository.SessionRepository) error) error
	RunRefresh(ctx context.Context, fn func(sessions repository.SessionRepository) error) error
}
