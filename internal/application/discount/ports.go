package discount

import (
	"context"

	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción propia con el repositorio de códigos atado a la tx.
type TxRunner interface {
	RunDiscount(ctx context.Context, fn func(codeRepo repository.DiscountCodeRepository) error) error
}
