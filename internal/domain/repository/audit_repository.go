package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// AuditRepository define el puerto para la bitácora append-only.
// No hay update ni delete: los registros son inmutables.
type AuditRepository interface {
	Append(ctx context.Context, entry *entity.AuditLogEntry) error
	List(ctx context.Context, actorID, tenantID string, limit, offset int) ([]*entity.AuditLogEntry, error)
}
