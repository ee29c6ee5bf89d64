package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gym-backoffice-api/internal/application/dto"
	"github.com/jhoicas/gym-backoffice-api/internal/application/plans"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
)

// PlanHandler maneja planes, revisiones y altas (protegido).
type PlanHandler struct {
	uc *plans.PublisherUseCase
}

// NewPlanHandler construye el handler.
func NewPlanHandler(uc *plans.PublisherUseCase) *PlanHandler {
	return &PlanHandler{uc: uc}
}

// Create POST /api/plans
func (h *PlanHandler) Create(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.PlanRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	p, err := h.uc.CreatePlan(c.UserContext(), companyID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plans.ToPlanResponse(p))
}

// Update godoc
// @Summary      Editar plan
// @Description  Si el plan tiene altas activas se publica una revisión vigente desde hoy.
// @Tags         plans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "Plan"
// @Param        body  body  dto.PlanRequest  true  "Plan completo"
// @Success      200  {object}  dto.PlanResponse
// @Router       /api/plans/{id} [put]
func (h *PlanHandler) Update(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.PlanRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	p, rev, err := h.uc.UpdatePlan(c.UserContext(), companyID, userID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	out := plans.ToPlanResponse(p)
	if rev != nil {
		out.RevisionID = rev.ID
	}
	return c.JSON(out)
}

// Publish POST /api/plans/:id/revisions
func (h *PlanHandler) Publish(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.PublishRevisionRequest
	if len(c.Body()) > 0 {
		if err := bindAndValidate(c, &in); err != nil {
			return writeError(c, err)
		}
	}
	from, err := dto.ParseDate(in.ValidFrom)
	if err != nil {
		return writeError(c, domain.Invalid("%v", err))
	}
	to, err := dto.ParseDate(in.ValidTo)
	if err != nil {
		return writeError(c, domain.Invalid("%v", err))
	}
	rev, err := h.uc.Publish(c.UserContext(), companyID, userID, c.Params("id"), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plans.ToRevisionResponse(rev))
}

// Revisions GET /api/plans/:id/revisions
func (h *PlanHandler) Revisions(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	revs, err := h.uc.ListRevisions(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]*dto.PlanRevisionResponse, 0, len(revs))
	for _, r := range revs {
		out = append(out, plans.ToRevisionResponse(r))
	}
	return c.JSON(out)
}

// Effective GET /api/plans/:id/revisions/effective?date=YYYY-MM-DD (hoy por defecto)
func (h *PlanHandler) Effective(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	day := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		d, err := dto.ParseDate(raw)
		if err != nil {
			return writeError(c, domain.Invalid("%v", err))
		}
		day = *d
	}
	rev, err := h.uc.RevisionEffectiveOn(c.UserContext(), companyID, c.Params("id"), day)
	if err != nil {
		return writeError(c, err)
	}
	if rev == nil {
		return writeError(c, domain.ErrNotFound)
	}
	return c.JSON(plans.ToRevisionResponse(rev))
}

// Enroll POST /api/enrollments
func (h *PlanHandler) Enroll(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.EnrollRequest
	if err := bindAndValidate(c, &in); err != nil {
		return writeError(c, err)
	}
	e, err := h.uc.Enroll(c.UserContext(), companyID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plans.ToEnrollmentResponse(e))
}
