package repository

import (
	"context"

	"github.com/jhoicas/Farmacia-api/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia para Account (DIP).
// Las búsquedas por email son case-insensitive (el email se guarda en minúsculas).
// Devuelve (nil, nil) cuando no hay fila, nunca ErrNoRows hacia arriba.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	Update(ctx context.Context, account *entity.Account) error
	UpdateStatus(ctx context.Context, id, status string) error
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Account, error)
}
