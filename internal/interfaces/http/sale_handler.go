package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gym-backoffice-api/internal/application/dto"
	"github.com/jhoicas/gym-backoffice-api/internal/application/sales"
)

// SaleHandler maneja el checkout y la consulta de ventas (protegido).
type SaleHandler struct {
	checkout *sales.CheckoutUseCase
	receipt  *sales.ReceiptUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(checkout *sales.CheckoutUseCase, receipt *sales.ReceiptUseCase) *SaleHandler {
	return &SaleHandler{checkout: checkout, receipt: receipt}
}

// Checkout godoc
// @Summary      Liquidar venta
// @Description  Valida partidas, aplica el código de descuento, verifica pagos y stock, y registra la venta de forma atómica.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string               false  "Clave para reintentos seguros"
// @Param        body             body    dto.CheckoutRequest  true   "Venta"
// @Success      201  {object}  dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/sales/checkout [post]
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CheckoutRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	in.IdempotencyKey = c.Get("Idempotency-Key")
	sale, err := h.checkout.Checkout(c.UserContext(), companyID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sales.ToSaleResponse(sale))
}

// GetByID devuelve una venta con partidas y pagos.
// GET /api/sales/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	sale, err := h.checkout.GetSale(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sales.ToSaleResponse(sale))
}

// Receipt devuelve el ticket PDF de la venta.
// GET /api/sales/:id/receipt
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	pdf, folio, err := h.receipt.Receipt(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", "ticket-"+folio+".pdf"))
	return c.Send(pdf)
}
