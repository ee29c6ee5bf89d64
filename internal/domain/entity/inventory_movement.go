package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste (con signo propio)
)

// InventoryMovement es un hecho append-only del ledger de inventario.
// IN y OUT guardan una magnitud positiva; el signo lo aporta Type. ADJUSTMENT guarda su propio signo.
type InventoryMovement struct {
	ID          string
	CompanyID   string
	ProductID   string
	WarehouseID string
	Type        string
	Quantity    decimal.Decimal
	ReferenceID string // venta que originó la salida, si aplica
	Date        time.Time
	CreatedAt   time.Time
	CreatedBy   string
}

// IsValidMovementType indica si t es un tipo de movimiento conocido.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUSTMENT:
		return true
	}
	return false
}

// WarehouseStock stock derivado de un producto en un almacén.
type WarehouseStock struct {
	WarehouseID   string
	WarehouseName string
	Quantity      decimal.Decimal
}

// StockSummary stock total de un producto y su desglose por almacén.
type StockSummary struct {
	ProductID   string
	Total       decimal.Decimal
	ByWarehouse []WarehouseStock
}
