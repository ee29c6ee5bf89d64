package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrDiscountNotUsable = errors.New("código de descuento no usable")
	ErrCodeNotUsable     = errors.New("código no usable")
	ErrPaymentMismatch   = errors.New("la suma de pagos no coincide con el total")
)

// InsufficientStockError detalla la falta de stock de un producto en un almacén.
// errors.Is(err, ErrInsufficientStock) es verdadero.
type InsufficientStockError struct {
	ProductID   string
	WarehouseID string
	Available   decimal.Decimal
	Required    decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s en almacén %s. Disponible: %s, requerido: %s",
		e.ProductID, e.WarehouseID, e.Available.String(), e.Required.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// PaymentMismatchError detalla la diferencia entre pagos y total de la venta.
type PaymentMismatchError struct {
	Paid  decimal.Decimal
	Total decimal.Decimal
}

func (e *PaymentMismatchError) Error() string {
	return fmt.Sprintf("la suma de pagos (%s) debe ser igual al total (%s)",
		e.Paid.StringFixed(2), e.Total.StringFixed(2))
}

func (e *PaymentMismatchError) Unwrap() error { return ErrPaymentMismatch }

// Invalid envuelve ErrInvalidInput con el motivo concreto.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// CodeNotUsableError indica por qué un código de descuento no puede canjearse.
type CodeNotUsableError struct {
	Code   string
	Reason string
}

func (e *CodeNotUsableError) Error() string {
	return fmt.Sprintf("código %s no usable: %s", e.Code, e.Reason)
}

func (e *CodeNotUsableError) Unwrap() error { return ErrCodeNotUsable }
