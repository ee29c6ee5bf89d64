package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gym-backoffice-api/internal/application/dto"
	"github.com/jhoicas/gym-backoffice-api/internal/application/inventory"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
)

// InventoryHandler maneja movimientos y consultas de stock (protegido).
type InventoryHandler struct {
	movements *inventory.RegisterMovementUseCase
	stock     *inventory.StockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(movements *inventory.RegisterMovementUseCase, stock *inventory.StockUseCase) *InventoryHandler {
	return &InventoryHandler{movements: movements, stock: stock}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, warehouse_id, type (IN | ADJUSTMENT), quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.RegisterMovementRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.movements.RegisterMovementFromRequest(c.UserContext(), companyID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Stock godoc
// @Summary      Stock derivado del ledger
// @Description  Sin warehouse_id devuelve el total y el desglose por almacén.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true   "Producto"
// @Param        warehouse_id  query  string  false  "Almacén"
// @Param        as_of         query  string  false  "YYYY-MM-DD (fin del día) o RFC3339"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) Stock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	productID := c.Query("product_id")
	if productID == "" {
		return writeError(c, domain.Invalid("product_id requerido"))
	}
	asOf, err := parseAsOf(c.Query("as_of"))
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.stock.Stock(c.UserContext(), companyID, productID, c.Query("warehouse_id"), asOf)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// parseAsOf acepta RFC3339 o una fecha; una fecha incluye todo ese día.
func parseAsOf(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	day, err := dto.ParseDate(s)
	if err != nil {
		return nil, domain.Invalid("as_of: %v", err)
	}
	end := day.Add(24*time.Hour - time.Nanosecond)
	return &end, nil
}
