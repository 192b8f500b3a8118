package impersonation

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// TxRunner ejecuta el inicio de suplantación dentro de una transacción.
//
// RunStart bloquea la sesión activa del admin (si existe) antes de invocar fn:
// terminar la sesión anterior y crear la nueva son una unidad atómica, así dos
// start concurrentes del mismo admin no pueden dejar dos sesiones activas.
type TxRunner interface {
	RunStart(ctx context.Context, adminID string, fn func(imps repository.ImpersonationRepository) error) error
}
