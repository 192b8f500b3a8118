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

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implementación de SessionRepository sobre PostgreSQL (usable con pool o tx).
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el adaptador de sesiones. Pasar pool o tx (Querier).
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

const sessionColumns = `id, account_id, refresh_token_hash, user_agent, ip, created_at, expires_at, active`

// Create persiste una sesión nueva.
func (r *SessionRepo) Create(ctx context.Context, s *entity.Session) error {
	query := `
		INSERT INTO sessions (id, account_id, refresh_token_hash, user_agent, ip, created_at, expires_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.AccountID, s.RefreshTokenHash, s.UserAgent, s.IP, s.CreatedAt, s.ExpiresAt, s.Active,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetByID obtiene una sesión por ID. Devuelve (nil, nil) si no existe.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByTokenHash busca la sesión por hash del refresh token. FOR UPDATE: dentro
// de una transacción la fila queda bloqueada para que la rotación sea atómica.
func (r *SessionRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE refresh_token_hash = $1 FOR UPDATE`
	return r.scanOne(ctx, query, tokenHash)
}

func (r *SessionRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.Session, error) {
	var s entity.Session
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.AccountID, &s.RefreshTokenHash, &s.UserAgent, &s.IP, &s.CreatedAt, &s.ExpiresAt, &s.Active,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

// CountActive cuenta sesiones activas y no vencidas de una cuenta.
func (r *SessionRepo) CountActive(ctx context.Context, accountID string, now time.Time) (int, error) {
	var count int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM sessions WHERE account_id = $1 AND active AND expires_at > $2`,
		accountID, now,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active sessions: %w", err)
	}
	return count, nil
}

// Rotate reemplaza el hash del refresh token y extiende la expiración.
func (r *SessionRepo) Rotate(ctx context.Context, sessionID, newTokenHash string, newExpiry time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE sessions SET refresh_token_hash = $2, expires_at = $3 WHERE id = $1`,
		sessionID, newTokenHash, newExpiry,
	)
	if err != nil {
		return fmt.Errorf("rotate session token: %w", err)
	}
	return nil
}

// Revoke marca la sesión inactiva y fija la expiración a now. Revocar una
// sesión ya inactiva no cambia nada (idempotente).
func (r *SessionRepo) Revoke(ctx context.Context, sessionID string, now time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE sessions SET active = false, expires_at = $2 WHERE id = $1 AND active`,
		sessionID, now,
	)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// RevokeAllByAccount revoca todas las sesiones activas de una cuenta.
func (r *SessionRepo) RevokeAllByAccount(ctx context.Context, accountID string, now time.Time) (int, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE sessions SET active = false, expires_at = $2 WHERE account_id = $1 AND active`,
		accountID, now,
	)
	if err != nil {
		return 0, fmt.Errorf("revoke account sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// RevokeAllPlatform revoca toda sesión activa de la plataforma (logout global).
func (r *SessionRepo) RevokeAllPlatform(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE sessions SET active = false, expires_at = $1 WHERE active`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("revoke platform sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// MarkExpired desactiva sesiones vencidas que siguen activas y las devuelve
// para auditar su expiración.
func (r *SessionRepo) MarkExpired(ctx context.Context, now time.Time) ([]*entity.Session, error) {
	query := `
		UPDATE sessions SET active = false
		WHERE active AND expires_at <= $1
		RETURNING ` + sessionColumns
	rows, err := r.q.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("mark expired sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// ListActiveByAccount lista las sesiones vigentes de una cuenta, más reciente primero.
func (r *SessionRepo) ListActiveByAccount(ctx context.Context, accountID string, now time.Time) ([]*entity.Session, error) {
	query := `SELECT ` + sessionColumns + `
		FROM sessions WHERE account_id = $1 AND active AND expires_at > $2
		ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, accountID, now)
	if err != nil {
		return nil, fmt.Errorf("list active sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

func scanSessions(rows pgx.Rows) ([]*entity.Session, error) {
	var list []*entity.Session
	for rows.Next() {
		var s entity.Session
		if err := rows.Scan(&s.ID, &s.AccountID, &s.RefreshTokenHash, &s.UserAgent, &s.IP, &s.CreatedAt, &s.ExpiresAt, &s.Active); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
