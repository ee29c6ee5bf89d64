package sales

import (
	"context"

	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
)

// TxRunner ejecuta el checkout en una sola transacción con todos los repositorios atados a la tx.
type TxRunner interface {
	RunCheckout(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		movRepo repository.InventoryMovementRepository,
		codeRepo repository.DiscountCodeRepository,
		productRepo repository.ProductRepository,
		warehouseRepo repository.WarehouseRepository,
		planRepo repository.PlanRepository,
		customerRepo repository.CustomerRepository,
	) error) error
}

// DiscountLocker bloquea y canjea un código con la transacción del llamador.
// Lo implementa discount.RegistryUseCase.
type DiscountLocker interface {
	LockInTx(ctx context.Context, codeRepo repository.DiscountCodeRepository, companyID, code string) (*entity.DiscountCode, error)
	RedeemInTx(ctx context.Context, codeRepo repository.DiscountCodeRepository, dc *entity.DiscountCode) (int, error)
}

// IdempotencyGuard evita liquidar dos veces la misma venta reenviada con igual Idempotency-Key.
type IdempotencyGuard interface {
	// Acquire toma la clave. Si ya hay una venta registrada con ella devuelve su id.
	// Con la clave tomada por otra petición en curso devuelve domain.ErrConflict.
	Acquire(ctx context.Context, companyID, key string) (saleID string, release func(), err error)
	// Remember asocia la clave con la venta confirmada.
	Remember(ctx context.Context, companyID, key, saleID string) error
}

// ReceiptLine partida de venta con la descripción a imprimir.
type ReceiptLine struct {
	entity.SaleLine
	Description string
}

// ReceiptGenerator genera el ticket PDF de una venta.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, sale *entity.Sale, customer *entity.Customer, lines []ReceiptLine) ([]byte, error)
}
