package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Farmacia-api/internal/application/dto"
	"github.com/jhoicas/Farmacia-api/internal/domain"
	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
	"github.com/jhoicas/Farmacia-api/internal/domain/repository"
)

// TenantUseCase aplica reglas de negocio para farmacias (casos de uso).
type TenantUseCase struct {
	repo repository.TenantRepository
}

// NewTenantUseCase construye el caso de uso con el puerto de persistencia.
func NewTenantUseCase(repo repository.TenantRepository) *TenantUseCase {
	return &TenantUseCase{repo: repo}
}

// Create crea una farmacia nueva en estado active.
func (uc *TenantUseCase) Create(ctx context.Context, in dto.CreateTenantRequest) (*dto.TenantResponse, error) {
	now := time.Now()
	tenant := &entity.Tenant{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Status:        entity.TenantActive,
		LicenseNumber: in.LicenseNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, tenant); err != nil {
		return nil, err
	}
	return entityToTenantResponse(tenant), nil
}

// GetByID obtiene una farmacia por ID. Devuelve (nil, nil) si no existe.
func (uc *TenantUseCase) GetByID(ctx context.Context, id string) (*dto.TenantResponse, error) {
	tenant, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return entityToTenantResponse(tenant), nil
}

// UpdateStatus cambia el estado de la farmacia (active, suspended, closed).
// Suspender bloquea nuevas suplantaciones sobre ese tenant.
func (uc *TenantUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateTenantStatusRequest) (*dto.TenantResponse, error) {
	tenant, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.repo.UpdateStatus(ctx, id, in.Status); err != nil {
		return nil, err
	}
	tenant.Status = in.Status
	return entityToTenantResponse(tenant), nil
}

// List lista farmacias con paginación.
func (uc *TenantUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.TenantResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TenantResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *entityToTenantResponse(t))
	}
	return items, nil
}

func entityToTenantResponse(t *entity.Tenant) *dto.TenantResponse {
	if t == nil {
		return nil
	}
	return &dto.TenantResponse{
		ID:            t.ID,
		Name:          t.Name,
		Status:        t.Status,
		LicenseNumber: t.LicenseNumber,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
