package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación del puerto AccountRepository sobre PostgreSQL.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador de persistencia para cuentas.
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

const accountColumns = `id, tenant_id, email, password_hash, name, role, status, max_devices, created_at, updated_at`

// Create persiste una cuenta nueva. Email duplicado → domain.ErrEmailAlreadyExists.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	query := `
		INSERT INTO accounts (id, tenant_id, email, password_hash, name, role, status, max_devices, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.TenantID, a.Email, a.PasswordHash, a.Name, a.Role, a.Status, a.MaxDevices,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID. Devuelve (nil, nil) si no existe.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByEmail obtiene una cuenta por email (case-insensitive: el email se guarda en minúsculas).
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = lower($1) LIMIT 1`
	return r.scanOne(ctx, query, email)
}

func (r *AccountRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.Account, error) {
	var a entity.Account
	var tenantID *string
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&a.ID, &tenantID, &a.Email, &a.PasswordHash, &a.Name, &a.Role, &a.Status, &a.MaxDevices,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	if tenantID != nil {
		a.TenantID = *tenantID
	}
	return &a, nil
}

// Update actualiza una cuenta.
func (r *AccountRepo) Update(ctx context.Context, a *entity.Account) error {
	query := `
		UPDATE accounts SET email = $2, password_hash = $3, name = $4, role = $5, status = $6, max_devices = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Email, a.PasswordHash, a.Name, a.Role, a.Status, a.MaxDevices, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

// UpdateStatus cambia solo el estado (soft delete = flip a inactive).
func (r *AccountRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.q.Exec(ctx, `UPDATE accounts SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update account status: %w", err)
	}
	return nil
}

// ListByTenant lista cuentas de una farmacia con paginación.
func (r *AccountRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Account
	for rows.Next() {
		var a entity.Account
		var tid *string
		if err := rows.Scan(&a.ID, &tid, &a.Email, &a.PasswordHash, &a.Name, &a.Role, &a.Status, &a.MaxDevices, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		if tid != nil {
			a.TenantID = *tid
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
