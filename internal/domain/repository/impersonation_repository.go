package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// ImpersonationRepository define el puerto para sesiones de suplantación.
// Las filas nunca se borran: quedan como rastro de auditoría.
type ImpersonationRepository interface {
	Create(ctx context.Context, session *entity.ImpersonationSession) error
	// GetActiveByAdmin devuelve la sesión activa del admin o (nil, nil).
	// Dentro de una transacción la fila queda bloqueada (FOR UPDATE) para que
	// dos start concurrentes del mismo admin no creen dos sesiones activas.
	GetActiveByAdmin(ctx context.Context, adminID string) (*entity.ImpersonationSession, error)
	// End marca la sesión como terminada (status=ended, ended_at=now).
	End(ctx context.Context, sessionID string, now time.Time) error
	ListByAdmin(ctx context.Context, adminID string, limit, offset int) ([]*entity.ImpersonationSession, error)
	List(ctx context.Context, limit, offset int) ([]*entity.ImpersonationSession, error)
}
