package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación de AuditRepository sobre PostgreSQL.
// Solo INSERT y SELECT: la tabla es append-only.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador de la bitácora.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Append agrega una entrada inmutable a la bitácora.
func (r *AuditRepo) Append(ctx context.Context, e *entity.AuditLogEntry) error {
	query := `
		INSERT INTO audit_log (id, actor_id, tenant_id, account_id, action, outcome, detail, ip, user_agent, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ActorID, e.TenantID, e.AccountID, e.Action, e.Outcome, e.Detail, e.IP, e.UserAgent, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// List consulta la bitácora con filtros opcionales por actor y tenant.
func (r *AuditRepo) List(ctx context.Context, actorID, tenantID string, limit, offset int) ([]*entity.AuditLogEntry, error) {
	query := `
		SELECT id, actor_id, coalesce(tenant_id::text, ''), coalesce(account_id::text, ''), action, outcome, detail, ip, user_agent, created_at
		FROM audit_log
		WHERE ($1 = '' OR actor_id = $1::uuid)
		  AND ($2 = '' OR tenant_id = $2::uuid)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, actorID, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditLogEntry
	for rows.Next() {
		var e entity.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.TenantID, &e.AccountID, &e.Action, &e.Outcome, &e.Detail, &e.IP, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
