package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tipos de descuento.
const (
	DiscountKindPercent     = "PERCENT"
	DiscountKindFixedAmount = "FIXED_AMOUNT"
)

var hundred = decimal.NewFromInt(100)

// DiscountCode código de descuento por empresa con contador de usos restantes.
// Invariante: 0 <= Remaining <= Capacity.
type DiscountCode struct {
	ID        string
	CompanyID string
	Code      string
	Kind      string
	Value     decimal.Decimal
	Capacity  int
	Remaining int
	IsActive  bool
	UserID    string // responsable opcional
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeCode recorta espacios y convierte a mayúsculas (ej. " promo10 " → "PROMO10").
// cases.Caser guarda estado, por eso se crea uno por llamada.
func NormalizeCode(code string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(code))
}

// Usable indica si el código puede canjearse: activo y con usos restantes.
func (d *DiscountCode) Usable() bool {
	return d != nil && d.IsActive && d.Remaining > 0
}

// Rebate calcula la rebaja sobre subtotal, acotada para nunca superar el subtotal.
func (d *DiscountCode) Rebate(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	var rebate decimal.Decimal
	switch d.Kind {
	case DiscountKindPercent:
		rebate = subtotal.Mul(d.Value).Div(hundred)
	default:
		rebate = d.Value
	}
	rebate = rebate.Round(2)
	if rebate.GreaterThan(subtotal) {
		return subtotal
	}
	if rebate.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return rebate
}
