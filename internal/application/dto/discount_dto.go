package dto

import "github.com/shopspring/decimal"

// CreateDiscountCodeRequest body para POST /api/discount-codes.
type CreateDiscountCodeRequest struct {
	Code      string          `json:"code" validate:"required,max=50"`
	Kind      string          `json:"kind" validate:"required,oneof=PERCENT FIXED_AMOUNT"`
	Value     decimal.Decimal `json:"value" validate:"gte=0"`
	Capacity  int             `json:"capacity" validate:"gte=0"`
	Remaining *int            `json:"remaining,omitempty" validate:"omitempty,gte=0"`
	IsActive  *bool           `json:"is_active,omitempty"`
}

// DiscountCodeResponse código de descuento.
type DiscountCodeResponse struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Kind      string          `json:"kind"`
	Value     decimal.Decimal `json:"value"`
	Capacity  int             `json:"capacity"`
	Remaining int             `json:"remaining"`
	IsActive  bool            `json:"is_active"`
}

// ValidateDiscountResponse resultado de validar un código (no consume usos).
type ValidateDiscountResponse struct {
	Valid          bool             `json:"valid"`
	Reason         string           `json:"reason,omitempty"`
	Code           string           `json:"code"`
	Kind           string           `json:"kind,omitempty"`
	Value          decimal.Decimal  `json:"value"`
	Remaining      int              `json:"remaining"`
	OriginalTotal  *decimal.Decimal `json:"original_total,omitempty"`
	DiscountAmount *decimal.Decimal `json:"discount_amount,omitempty"`
	FinalTotal     *decimal.Decimal `json:"final_total,omitempty"`
}

// RedeemDiscountRequest body para POST /api/discount-codes/redeem.
type RedeemDiscountRequest struct {
	Code string `json:"code" validate:"required"`
}

// RedeemDiscountResponse usos restantes tras canjear.
type RedeemDiscountResponse struct {
	Code      string `json:"code"`
	Remaining int    `json:"remaining"`
}
