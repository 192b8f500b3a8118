package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// SessionRepository define el puerto de persistencia para Session.
//
// CountActive y Create participan en el invariante del tope de dispositivos:
// dentro de una transacción de AuthTxRunner (con la fila de la cuenta
// bloqueada) el conteo y la inserción son una unidad atómica.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	// GetByTokenHash busca la sesión por hash del refresh token. Dentro de una
	// transacción la fila queda bloqueada (FOR UPDATE) para rotación atómica.
	GetByTokenHash(ctx context.Context, tokenHash string) (*entity.Session, error)
	// CountActive cuenta sesiones con active=true y expiración futura.
	CountActive(ctx context.Context, accountID string, now time.Time) (int, error)
	// Rotate reemplaza el hash del refresh token y extiende la expiración.
	Rotate(ctx context.Context, sessionID, newTokenHash string, newExpiry time.Time) error
	// Revoke marca la sesión inactiva y fija la expiración a now. Idempotente.
	Revoke(ctx context.Context, sessionID string, now time.Time) error
	RevokeAllByAccount(ctx context.Context, accountID string, now time.Time) (int, error)
	// RevokeAllPlatform revoca toda sesión activa de la plataforma (logout global).
	RevokeAllPlatform(ctx context.Context, now time.Time) (int, error)
	// MarkExpired desactiva sesiones vencidas que siguen marcadas activas y
	// las devuelve para auditar su expiración.
	MarkExpired(ctx context.Context, now time.Time) ([]*entity.Session, error)
	ListActiveByAccount(ctx context.Context, accountID string, now time.Time) ([]*entity.Session, error)
}
