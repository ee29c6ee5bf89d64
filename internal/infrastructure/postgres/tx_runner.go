package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/gym-backoffice-api/internal/application/discount"
	"github.com/jhoicas/gym-backoffice-api/internal/application/inventory"
	"github.com/jhoicas/gym-backoffice-api/internal/application/plans"
	"github.com/jhoicas/gym-backoffice-api/internal/application/sales"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
)

// Ensure TxRunner implementa los puertos transaccionales de cada caso de uso.
var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ discount.TxRunner  = (*TxRunner)(nil)
	_ plans.TxRunner     = (*TxRunner)(nil)
	_ sales.TxRunner     = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// inTx abre la transacción, ejecuta fn y hace Commit; cualquier error hace Rollback.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run transacción de inventario (registro de movimientos).
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewInventoryMovementRepository(tx), NewProductRepository(tx), NewWarehouseRepository(tx))
	})
}

// RunDiscount transacción propia para canjear un código.
func (r *TxRunner) RunDiscount(ctx context.Context, fn func(codeRepo repository.DiscountCodeRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewDiscountCodeRepository(tx))
	})
}

// RunPlans transacción de edición, publicación y altas de planes.
func (r *TxRunner) RunPlans(ctx context.Context, fn func(
	planRepo repository.PlanRepository,
	revRepo repository.PlanRevisionRepository,
	enrollRepo repository.EnrollmentRepository,
	customerRepo repository.CustomerRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(
			NewPlanRepository(tx),
			NewPlanRevisionRepository(tx),
			NewEnrollmentRepository(tx),
			NewCustomerRepository(tx),
		)
	})
}

// RunCheckout transacción única del checkout: venta, ledger y descuento.
func (r *TxRunner) RunCheckout(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	movRepo repository.InventoryMovementRepository,
	codeRepo repository.DiscountCodeRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	planRepo repository.PlanRepository,
	customerRepo repository.CustomerRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(
			NewSaleRepository(tx),
			NewInventoryMovementRepository(tx),
			NewDiscountCodeRepository(tx),
			NewProductRepository(tx),
			NewWarehouseRepository(tx),
			NewPlanRepository(tx),
			NewCustomerRepository(tx),
		)
	})
}
