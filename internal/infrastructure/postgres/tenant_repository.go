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

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo implementación de TenantRepository sobre PostgreSQL.
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador de persistencia para farmacias.
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

const tenantColumns = `id, name, status, license_number, created_at, updated_at`

// Create persiste una farmacia nueva. Nombre duplicado → domain.ErrDuplicate.
func (r *TenantRepo) Create(ctx context.Context, t *entity.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, status, license_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, t.ID, t.Name, t.Status, t.LicenseNumber, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// GetByID obtiene una farmacia por ID. Devuelve (nil, nil) si no existe.
func (r *TenantRepo) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	var t entity.Tenant
	err := r.q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Status, &t.LicenseNumber, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant by id: %w", err)
	}
	return &t, nil
}

// Update actualiza una farmacia.
func (r *TenantRepo) Update(ctx context.Context, t *entity.Tenant) error {
	query := `
		UPDATE tenants SET name = $2, status = $3, license_number = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, t.ID, t.Name, t.Status, t.LicenseNumber, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}
	return nil
}

// UpdateStatus cambia solo el estado de la farmacia.
func (r *TenantRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.q.Exec(ctx, `UPDATE tenants SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update tenant status: %w", err)
	}
	return nil
}

// List lista farmacias con paginación.
func (r *TenantRepo) List(ctx context.Context, limit, offset int) ([]*entity.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tenant
	for rows.Next() {
		var t entity.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Status, &t.LicenseNumber, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
