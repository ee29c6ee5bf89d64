package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InventoryMovementRepository es el ledger append-only de inventario.
// El stock nunca se guarda: se obtiene agregando los movimientos.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	ListByReference(ctx context.Context, referenceID string) ([]*entity.InventoryMovement, error)
	// StockAt suma los movimientos del par (producto, almacén) con fecha <= asOf.
	StockAt(ctx context.Context, companyID, productID, warehouseID string, asOf time.Time) (decimal.Decimal, error)
	// StockByWarehouse agrupa por almacén; sólo incluye almacenes con movimientos.
	StockByWarehouse(ctx context.Context, companyID, productID string, asOf time.Time) ([]entity.WarehouseStock, error)
	// LockStock serializa las salidas de un par (producto, almacén) hasta el fin de la transacción.
	LockStock(ctx context.Context, productID, warehouseID string) error
}
