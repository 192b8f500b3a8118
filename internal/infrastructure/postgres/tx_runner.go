package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/impersonation"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// Ensure TxRunner implementa los puertos transaccionales de auth e impersonation.
var _ auth.TxRunner = (*TxRunner)(nil)
var _ impersonation.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, con repos
// atados a la tx. Es la frontera de atomicidad de los invariantes del plano
// de sesiones: tope de dispositivos, rotación de refresh y supersede de
// suplantación.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunLogin bloquea la fila de la cuenta y ejecuta fn con un SessionRepository
// atado a la tx. Con el lock tomado, contar sesiones activas e insertar la
// nueva es atómico frente a otros logins de la misma cuenta.
func (r *TxRunner) RunLogin(ctx context.Context, accountID string, fn func(sessions repository.SessionRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT id FROM accounts WHERE id = $1 FOR UPDATE`, accountID); err != nil {
		return fmt.Errorf("lock account row: %w", err)
	}
	if err := fn(NewSessionRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunRefresh ejecuta fn con un SessionRepository atado a la tx. La lectura por
// hash usa FOR UPDATE, así leer, validar y rotar el token es una sola unidad:
// un token viejo reproducido en paralelo no puede generar dos sesiones válidas.
func (r *TxRunner) RunRefresh(ctx context.Context, fn func(sessions repository.SessionRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewSessionRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunStart bloquea la fila de la cuenta del admin y ejecuta fn con un
// ImpersonationRepository atado a la tx: terminar la suplantación anterior y
// crear la nueva se serializan frente a otros start del mismo admin.
func (r *TxRunner) RunStart(ctx context.Context, adminID string, fn func(imps repository.ImpersonationRepository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// El lock en la cuenta cubre también el caso sin sesión activa previa
	// (no habría fila que bloquear con el FOR UPDATE del SELECT).
	if _, err := tx.Exec(ctx, `SELECT id FROM accounts WHERE id = $1 FOR UPDATE`, adminID); err != nil {
		return fmt.Errorf("lock admin row: %w", err)
	}
	if err := fn(NewImpersonationRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
