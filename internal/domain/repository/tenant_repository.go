package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// TenantRepository define el puerto de persistencia para Tenant (farmacia).
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	Update(ctx context.Context, tenant *entity.Tenant) error
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Tenant, error)
}
