package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

// Recorder escribe la bitácora de sesiones y suplantaciones.
//
// Un fallo al escribir auditoría NO revierte la acción de seguridad que la
// originó: se registra como warning y la operación se considera un éxito
// degradado. Perder un registro de auditoría es menos dañino que dejar a un
// usuario sin poder cerrar sesión.
type Recorder struct {
	repo repository.AuditRepository
	log  *logger.Logger
}

// NewRecorder construye el recorder de auditoría.
func NewRecorder(repo repository.AuditRepository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

// Record agrega una entrada, completando ID, timestamp y outcome si faltan.
func (r *Recorder) Record(ctx context.Context, e *entity.AuditLogEntry) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if e.Outcome == "" {
		e.Outcome = entity.AuditOutcomeOK
	}
	if err := r.repo.Append(ctx, e); err != nil {
		r.log.Warn().
			Err(err).
			Str("action", e.Action).
			Str("actor_id", e.ActorID).
			Msg("no se pudo escribir la entrada de auditoría (éxito degradado)")
	}
}
