package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para dar de alta un producto vendible.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Description string           `json:"description"`
	Barcode     string           `json:"barcode" validate:"max=100"`
	Price       decimal.Decimal  `json:"price" validate:"gte=0"`
	ApplyIVA    bool             `json:"apply_iva"`
	IVARate     *decimal.Decimal `json:"iva_rate,omitempty"`
	ApplyIEPS   bool             `json:"apply_ieps"`
}

// ProductResponse salida de un producto. Stock no se informa: se consulta en /api/inventory/stock.
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Barcode     string          `json:"barcode,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ApplyIVA    bool            `json:"apply_iva"`
	ApplyIEPS   bool            `json:"apply_ieps"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// PageResponse paginación aplicada.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
