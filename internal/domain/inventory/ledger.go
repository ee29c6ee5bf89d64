package inventory

import (
	"time"

	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Signed devuelve la contribución de un movimiento al stock.
// IN suma, OUT resta y ADJUSTMENT aporta su cantidad tal como se guardó (con signo).
func Signed(m *entity.InventoryMovement) decimal.Decimal {
	switch m.Type {
	case entity.MovementTypeIN:
		return m.Quantity
	case entity.MovementTypeOUT:
		return m.Quantity.Neg()
	case entity.MovementTypeADJUSTMENT:
		return m.Quantity
	}
	return decimal.Zero
}

// Fold calcula stock(producto, almacén, asOf) sumando los movimientos con Date <= asOf.
// La suma es conmutativa: el orden de los eventos no altera el resultado.
func Fold(events []*entity.InventoryMovement, productID, warehouseID string, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, m := range events {
		if m.ProductID != productID || m.WarehouseID != warehouseID || m.Date.After(asOf) {
			continue
		}
		total = total.Add(Signed(m))
	}
	return total
}

// FoldByWarehouse agrupa el stock de un producto por almacén.
func FoldByWarehouse(events []*entity.InventoryMovement, productID string, asOf time.Time) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, m := range events {
		if m.ProductID != productID || m.Date.After(asOf) {
			continue
		}
		out[m.WarehouseID] = out[m.WarehouseID].Add(Signed(m))
	}
	return out
}

// ValidateMovement verifica tipo y cantidad de un movimiento antes de agregarlo al ledger.
func ValidateMovement(m *entity.InventoryMovement) error {
	if m.ProductID == "" || m.WarehouseID == "" {
		return domain.Invalid("producto y almacén son requeridos")
	}
	if !entity.IsValidMovementType(m.Type) {
		return domain.Invalid("tipo de movimiento inválido: %s", m.Type)
	}
	switch m.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT:
		if !m.Quantity.IsPositive() {
			return domain.Invalid("la cantidad debe ser mayor a 0")
		}
	case entity.MovementTypeADJUSTMENT:
		if m.Quantity.IsZero() {
			return domain.Invalid("el ajuste no puede ser 0")
		}
	}
	return nil
}
