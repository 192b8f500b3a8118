package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.ImpersonationRepository = (*ImpersonationRepo)(nil)

// ImpersonationRepo implementación de ImpersonationRepository sobre PostgreSQL
// (usable con pool o tx). Las filas nunca se borran.
type ImpersonationRepo struct {
	q Querier
}

// NewImpersonationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewImpersonationRepository(q Querier) *ImpersonationRepo {
	return &ImpersonationRepo{q: q}
}

const impersonationColumns = `id, admin_id, tenant_id, started_at, ended_at, status, reason, ip, user_agent`

// Create persiste una sesión de suplantación nueva.
func (r *ImpersonationRepo) Create(ctx context.Context, s *entity.ImpersonationSession) error {
	query := `
		INSERT INTO impersonation_sessions (id, admin_id, tenant_id, started_at, ended_at, status, reason, ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.AdminID, s.TenantID, s.StartedAt, s.EndedAt, s.Status, s.Reason, s.IP, s.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("insert impersonation session: %w", err)
	}
	return nil
}

// GetActiveByAdmin devuelve la sesión activa del admin o (nil, nil). FOR UPDATE:
// dentro de una transacción la fila queda bloqueada, así dos start concurrentes
// del mismo admin se serializan y nunca quedan dos sesiones activas.
func (r *ImpersonationRepo) GetActiveByAdmin(ctx context.Context, adminID string) (*entity.ImpersonationSession, error) {
	query := `SELECT ` + impersonationColumns + `
		FROM impersonation_sessions
		WHERE admin_id = $1 AND status = 'active' AND ended_at IS NULL
		FOR UPDATE`
	var s entity.ImpersonationSession
	err := r.q.QueryRow(ctx, query, adminID).Scan(
		&s.ID, &s.AdminID, &s.TenantID, &s.StartedAt, &s.EndedAt, &s.Status, &s.Reason, &s.IP, &s.UserAgent,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active impersonation: %w", err)
	}
	return &s, nil
}

// End marca la sesión como terminada (status=ended, ended_at=now). Idempotente.
func (r *ImpersonationRepo) End(ctx context.Context, sessionID string, now time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE impersonation_sessions SET status = 'ended', ended_at = $2 WHERE id = $1 AND status = 'active'`,
		sessionID, now,
	)
	if err != nil {
		return fmt.Errorf("end impersonation session: %w", err)
	}
	return nil
}

// ListByAdmin lista sesiones de un admin, más reciente primero.
func (r *ImpersonationRepo) ListByAdmin(ctx context.Context, adminID string, limit, offset int) ([]*entity.ImpersonationSession, error) {
	query := `SELECT ` + impersonationColumns + `
		FROM impersonation_sessions WHERE admin_id = $1
		ORDER BY started_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, adminID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list impersonations by admin: %w", err)
	}
	defer rows.Close()
	return scanImpersonations(rows)
}

// List lista todas las sesiones de suplantación, más reciente primero.
func (r *ImpersonationRepo) List(ctx context.Context, limit, offset int) ([]*entity.ImpersonationSession, error) {
	query := `SELECT ` + impersonationColumns + `
		FROM impersonation_sessions
		ORDER BY started_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list impersonations: %w", err)
	}
	defer rows.Close()
	return scanImpersonations(rows)
}

func scanImpersonations(rows pgx.Rows) ([]*entity.ImpersonationSession, error) {
	var list []*entity.ImpersonationSession
	for rows.Next() {
		var s entity.ImpersonationSession
		if err := rows.Scan(&s.ID, &s.AdminID, &s.TenantID, &s.StartedAt, &s.EndedAt, &s.Status, &s.Reason, &s.IP, &s.UserAgent); err != nil {
			return nil, fmt.Errorf("scan impersonation session: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
