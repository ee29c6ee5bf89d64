package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// signedQuantity replica inventory.Signed en SQL.
const signedQuantity = `
	CASE type
		WHEN 'IN' THEN quantity
		WHEN 'OUT' THEN -quantity
		WHEN 'ADJUSTMENT' THEN quantity
		ELSE 0
	END`

// InventoryMovementRepo ledger de inventario sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create agrega un movimiento al ledger.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (id, company_id, product_id, warehouse_id, type, quantity, reference_id, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, m.ProductID, m.WarehouseID, m.Type, m.Quantity,
		nullIfEmpty(m.ReferenceID), m.Date, m.CreatedAt, nullIfEmpty(m.CreatedBy),
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.Invalid("movimiento inválido: %s %s", m.Type, m.Quantity.String())
		}
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// ListByReference lista los movimientos generados por una venta.
func (r *InventoryMovementRepo) ListByReference(ctx context.Context, referenceID string) ([]*entity.InventoryMovement, error) {
	if !validUUID(referenceID) {
		return nil, nil
	}
	query := `
		SELECT id, company_id, product_id, warehouse_id, type, quantity, reference_id, date, created_at, created_by
		FROM inventory_movements WHERE reference_id = $1 ORDER BY date, id`
	rows, err := r.q.Query(ctx, query, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		var ref, createdBy *string
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.ProductID, &m.WarehouseID, &m.Type,
			&m.Quantity, &ref, &m.Date, &m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.ReferenceID = derefString(ref)
		m.CreatedBy = derefString(createdBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// StockAt suma con signo los movimientos del par con date <= asOf.
func (r *InventoryMovementRepo) StockAt(ctx context.Context, companyID, productID, warehouseID string, asOf time.Time) (decimal.Decimal, error) {
	if !validUUID(productID) || !validUUID(warehouseID) {
		return decimal.Zero, nil
	}
	query := `
		SELECT COALESCE(SUM(` + signedQuantity + `), 0)
		FROM inventory_movements
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3 AND date <= $4`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, companyID, productID, warehouseID, asOf).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("stock at: %w", err)
	}
	return total, nil
}

// StockByWarehouse agrupa por almacén el stock de un producto con date <= asOf.
func (r *InventoryMovementRepo) StockByWarehouse(ctx context.Context, companyID, productID string, asOf time.Time) ([]entity.WarehouseStock, error) {
	if !validUUID(productID) {
		return nil, nil
	}
	query := `
		SELECT m.warehouse_id, w.name, COALESCE(SUM(` + signedQuantity + `), 0)
		FROM inventory_movements m
		JOIN warehouses w ON w.id = m.warehouse_id
		WHERE m.company_id = $1 AND m.product_id = $2 AND m.date <= $3
		GROUP BY m.warehouse_id, w.name
		ORDER BY w.name`
	rows, err := r.q.Query(ctx, query, companyID, productID, asOf)
	if err != nil {
		return nil, fmt.Errorf("stock by warehouse: %w", err)
	}
	defer rows.Close()
	var list []entity.WarehouseStock
	for rows.Next() {
		var ws entity.WarehouseStock
		if err := rows.Scan(&ws.WarehouseID, &ws.WarehouseName, &ws.Quantity); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, ws)
	}
	return list, rows.Err()
}

// LockStock toma un advisory lock de transacción por par (producto, almacén).
// Se libera solo al hacer commit o rollback; fuera de una tx no tiene efecto útil.
func (r *InventoryMovementRepo) LockStock(ctx context.Context, productID, warehouseID string) error {
	key := "stock:" + productID + ":" + warehouseID
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
		return fmt.Errorf("lock stock: %w", err)
	}
	return nil
}
