package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutItem partida solicitada: exactamente uno de PlanID o ProductID.
// UnitPrice nil en un producto usa su precio de lista. WarehouseID vacío toma el almacén de la venta.
type CheckoutItem struct {
	PlanID      string           `json:"plan_id,omitempty" validate:"required_without=ProductID,excluded_with=ProductID"`
	ProductID   string           `json:"product_id,omitempty" validate:"required_without=PlanID"`
	WarehouseID string           `json:"warehouse_id,omitempty" validate:"excluded_with=PlanID"`
	Quantity    decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	StartDate   string           `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string           `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Periodicity string           `json:"periodicity,omitempty"`
}

// PaymentInput pago recibido en caja.
type PaymentInput struct {
	Method string          `json:"method" validate:"required,max=30"`
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
}

// CheckoutRequest body para POST /api/sales/checkout.
type CheckoutRequest struct {
	CustomerID       string         `json:"customer_id" validate:"required"`
	BranchID         string         `json:"branch_id,omitempty"`
	WarehouseID      string         `json:"warehouse_id,omitempty"`
	DiscountCode     string         `json:"discount_code,omitempty"`
	Items            []CheckoutItem `json:"items" validate:"required,min=1,dive"`
	Payments         []PaymentInput `json:"payments" validate:"dive"`
	PaymentReference string         `json:"payment_reference,omitempty"`
	Notes            string         `json:"notes,omitempty"`
	SaleType         string         `json:"sale_type,omitempty"`
	CFDIUse          string         `json:"cfdi_use,omitempty"`
	CFDIUUID         string         `json:"cfdi_uuid,omitempty"`
	Series           string         `json:"series,omitempty"`
	FiscalFolio      string         `json:"fiscal_folio,omitempty"`
	Date             *time.Time     `json:"date,omitempty"`
	// IdempotencyKey llega en el header Idempotency-Key.
	IdempotencyKey string `json:"-"`
}

// SaleLineResponse partida persistida.
type SaleLineResponse struct {
	ID             string          `json:"id"`
	ItemType       string          `json:"item_type"`
	PlanID         string          `json:"plan_id,omitempty"`
	ProductID      string          `json:"product_id,omitempty"`
	WarehouseID    string          `json:"warehouse_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
	StartDate      string          `json:"start_date,omitempty"`
	EndDate        string          `json:"end_date,omitempty"`
	Periodicity    string          `json:"periodicity,omitempty"`
}

// PaymentResponse pago persistido.
type PaymentResponse struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
}

// SaleResponse venta liquidada.
type SaleResponse struct {
	ID               string             `json:"id"`
	Folio            string             `json:"folio"`
	CustomerID       string             `json:"customer_id"`
	BranchID         string             `json:"branch_id,omitempty"`
	Date             time.Time          `json:"date"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	DiscountAmount   decimal.Decimal    `json:"discount_amount"`
	TaxAmount        decimal.Decimal    `json:"tax_amount"`
	Total            decimal.Decimal    `json:"total"`
	Paid             decimal.Decimal    `json:"paid"`
	DiscountCodeID   string             `json:"discount_code_id,omitempty"`
	PaymentReference string             `json:"payment_reference,omitempty"`
	Notes            string             `json:"notes,omitempty"`
	SaleType         string             `json:"sale_type,omitempty"`
	Lines            []SaleLineResponse `json:"lines"`
	Payments         []PaymentResponse  `json:"payments"`
}
