package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gym-backoffice-api/internal/application/discount"
	"github.com/jhoicas/gym-backoffice-api/internal/application/dto"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// DiscountHandler maneja el registro de códigos de descuento (protegido).
type DiscountHandler struct {
	uc *discount.RegistryUseCase
}

// NewDiscountHandler construye el handler.
func NewDiscountHandler(uc *discount.RegistryUseCase) *DiscountHandler {
	return &DiscountHandler{uc: uc}
}

// Create da de alta un código.
// POST /api/discount-codes
func (h *DiscountHandler) Create(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateDiscountCodeRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	code, err := h.uc.Create(c.UserContext(), companyID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(discount.ToResponse(code))
}

// Validate godoc
// @Summary      Validar código sin consumirlo
// @Tags         discounts
// @Security     Bearer
// @Produce      json
// @Param        code      query  string  true   "Código"
// @Param        subtotal  query  string  false  "Subtotal para calcular la rebaja"
// @Success      200  {object}  dto.ValidateDiscountResponse
// @Router       /api/discount-codes/validate [get]
func (h *DiscountHandler) Validate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	code := c.Query("code")
	if code == "" {
		return writeError(c, domain.Invalid("code requerido"))
	}
	var subtotal *decimal.Decimal
	if raw := c.Query("subtotal"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return writeError(c, domain.Invalid("subtotal inválido"))
		}
		subtotal = &d
	}
	out, err := h.uc.Validate(c.UserContext(), companyID, code, subtotal)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Redeem consume un uso del código.
// POST /api/discount-codes/redeem
func (h *DiscountHandler) Redeem(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.RedeemDiscountRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	remaining, err := h.uc.Redeem(c.UserContext(), companyID, in.Code)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.RedeemDiscountResponse{Code: entity.NormalizeCode(in.Code), Remaining: remaining})
}
