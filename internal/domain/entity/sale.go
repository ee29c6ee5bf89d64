package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de partida de venta.
const (
	SaleItemPlan    = "PLAN"
	SaleItemProduct = "PRODUCT"
)

// Sale cabecera de una venta liquidada con sus partidas y pagos.
type Sale struct {
	ID               string
	CompanyID        string
	CustomerID       string
	BranchID         string
	UserID           string // cajero
	Folio            string
	Date             time.Time
	Subtotal         decimal.Decimal
	DiscountAmount   decimal.Decimal
	TaxAmount        decimal.Decimal // impuesto incluido en los precios (informativo)
	Total            decimal.Decimal
	DiscountCodeID   string
	PaymentReference string
	Notes            string
	Processed        bool
	SaleType         string
	// Datos fiscales: se guardan tal cual, sin validar.
	CFDIUse     string
	CFDIUUID    string
	Series      string
	FiscalFolio string
	Lines       []SaleLine
	Payments    []Payment
	CreatedAt   time.Time
}

// SaleLine partida de venta (plan o producto).
type SaleLine struct {
	ID             string
	SaleID         string
	ItemType       string
	PlanID         string
	ProductID      string
	WarehouseID    string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxRate        decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
	StartDate      *time.Time
	EndDate        *time.Time
	Periodicity    string
}

// Payment pago registrado para una venta (solo método e importe).
type Payment struct {
	ID     string
	SaleID string
	Method string
	Amount decimal.Decimal
}

// PaidAmount suma de los pagos de la venta.
func (s *Sale) PaidAmount() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range s.Payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}
