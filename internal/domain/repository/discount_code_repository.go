package repository

import (
	"context"

	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
)

// DiscountCodeRepository define el puerto de persistencia para códigos de descuento.
type DiscountCodeRepository interface {
	// Create devuelve domain.ErrDuplicate si el código ya existe en la empresa.
	Create(ctx context.Context, code *entity.DiscountCode) error
	GetByCode(ctx context.Context, companyID, code string) (*entity.DiscountCode, error)
	// GetByCodeForUpdate bloquea la fila hasta el fin de la transacción.
	GetByCodeForUpdate(ctx context.Context, companyID, code string) (*entity.DiscountCode, error)
	// Decrement resta un uso sólo si quedan; devuelve domain.ErrCodeNotUsable si no.
	Decrement(ctx context.Context, id string) (remaining int, err error)
}
