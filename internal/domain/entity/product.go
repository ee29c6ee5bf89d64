package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tasas por defecto (México).
var (
	DefaultIVARate  = decimal.NewFromInt(16)
	DefaultIEPSRate = decimal.NewFromInt(8)
)

// Product representa un producto vendible del inventario (multi-almacén).
// Price es el precio de lista vigente, no un hecho histórico; el stock se deriva de los movimientos.
type Product struct {
	ID          string
	CompanyID   string
	Name        string
	Description string
	Barcode     string
	Price       decimal.Decimal // precio de venta con impuestos incluidos
	ApplyIVA    bool
	IVARate     decimal.Decimal // porcentaje; 0 = DefaultIVARate
	ApplyIEPS   bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaxRate devuelve el porcentaje de impuestos combinado (IVA + IEPS) del producto.
func (p *Product) TaxRate() decimal.Decimal {
	rate := decimal.Zero
	if p.ApplyIVA {
		if p.IVARate.GreaterThan(decimal.Zero) {
			rate = rate.Add(p.IVARate)
		} else {
			rate = rate.Add(DefaultIVARate)
		}
	}
	if p.ApplyIEPS {
		rate = rate.Add(DefaultIEPSRate)
	}
	return rate
}
