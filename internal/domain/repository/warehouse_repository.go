package repository

import (
	"context"

	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Warehouse, error)
}
