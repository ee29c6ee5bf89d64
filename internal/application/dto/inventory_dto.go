package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Las salidas (OUT) sólo las genera el checkout.
type RegisterMovementRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	WarehouseID string          `json:"warehouse_id" validate:"required"`
	Type        string          `json:"type" validate:"required,oneof=IN ADJUSTMENT"`
	Quantity    decimal.Decimal `json:"quantity"`
	Date        *time.Time      `json:"date,omitempty"`
	ReferenceID string          `json:"reference_id,omitempty"`
}

// MovementResponse movimiento registrado.
type MovementResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	ReferenceID string          `json:"reference_id,omitempty"`
	Date        time.Time       `json:"date"`
}

// WarehouseStockDTO stock de un almacén.
type WarehouseStockDTO struct {
	WarehouseID   string          `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// StockResponse respuesta de GET /api/inventory/stock.
// Con warehouse_id sólo se informa Total; sin él, además el desglose por almacén.
type StockResponse struct {
	ProductID   string              `json:"product_id"`
	WarehouseID string              `json:"warehouse_id,omitempty"`
	AsOf        time.Time           `json:"as_of"`
	Total       decimal.Decimal     `json:"total"`
	ByWarehouse []WarehouseStockDTO `json:"by_warehouse,omitempty"`
}
