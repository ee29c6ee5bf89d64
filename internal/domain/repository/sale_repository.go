package repository

import (
	"context"

	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
)

// SaleRepository persiste ventas con sus partidas y pagos.
type SaleRepository interface {
	// NextFolio incrementa el consecutivo de la empresa y devuelve el folio (V-000001).
	NextFolio(ctx context.Context, companyID string) (string, error)
	// Create inserta cabecera, partidas y pagos.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con partidas y pagos, o nil.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
}
