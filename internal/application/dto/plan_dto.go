package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanPriceDTO precio por esquema y tipo de cobro.
type PlanPriceDTO struct {
	Scheme      string          `json:"scheme" validate:"required,oneof=individual grupal empresa"`
	BillingType string          `json:"billing_type" validate:"required,oneof=mensual semanal sesiones"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Visits      int             `json:"visits" validate:"gte=0"`
}

// PlanRestrictionDTO horario permitido; sin horas cubre el día completo.
type PlanRestrictionDTO struct {
	Day   string `json:"day" validate:"required"`
	Start string `json:"start,omitempty" validate:"omitempty,datetime=15:04"`
	End   string `json:"end,omitempty" validate:"omitempty,datetime=15:04"`
}

// PlanServiceDTO servicio incluido.
type PlanServiceDTO struct {
	ServiceID string          `json:"service_id" validate:"required"`
	Price     decimal.Decimal `json:"price" validate:"gte=0"`
	Icon      string          `json:"icon,omitempty"`
}

// PlanBenefitDTO beneficio incluido.
type PlanBenefitDTO struct {
	BenefitID string `json:"benefit_id" validate:"required"`
	ValidFrom string `json:"valid_from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ValidTo   string `json:"valid_to,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// PlanDisciplineDTO disciplina incluida.
type PlanDisciplineDTO struct {
	DisciplineID string `json:"discipline_id" validate:"required"`
	AccessType   string `json:"access_type,omitempty"`
	Accesses     int    `json:"accesses" validate:"gte=0"`
}

// PlanRequest body para crear o editar un plan (reemplaza las colecciones).
type PlanRequest struct {
	Name              string               `json:"name" validate:"required,max=200"`
	Description       string               `json:"description,omitempty"`
	MultiBranchAccess bool                 `json:"multi_branch_access"`
	PlanType          string               `json:"plan_type,omitempty"`
	Presale           bool                 `json:"presale"`
	ActiveFrom        string               `json:"active_from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ActiveTo          string               `json:"active_to,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FreeVisits        int                  `json:"free_visits" validate:"gte=0"`
	IsActive          *bool                `json:"is_active,omitempty"`
	Prices            []PlanPriceDTO       `json:"prices" validate:"dive"`
	Restrictions      []PlanRestrictionDTO `json:"restrictions" validate:"dive"`
	Services          []PlanServiceDTO     `json:"services" validate:"dive"`
	Benefits          []PlanBenefitDTO     `json:"benefits" validate:"dive"`
	Disciplines       []PlanDisciplineDTO  `json:"disciplines" validate:"dive"`
}

// PlanResponse plan con sus colecciones.
type PlanResponse struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	Description       string               `json:"description,omitempty"`
	MultiBranchAccess bool                 `json:"multi_branch_access"`
	PlanType          string               `json:"plan_type,omitempty"`
	Presale           bool                 `json:"presale"`
	ActiveFrom        string               `json:"active_from,omitempty"`
	ActiveTo          string               `json:"active_to,omitempty"`
	FreeVisits        int                  `json:"free_visits"`
	IsActive          bool                 `json:"is_active"`
	Prices            []PlanPriceDTO       `json:"prices"`
	Restrictions      []PlanRestrictionDTO `json:"restrictions"`
	Services          []PlanServiceDTO     `json:"services"`
	Benefits          []PlanBenefitDTO     `json:"benefits"`
	Disciplines       []PlanDisciplineDTO  `json:"disciplines"`
	// RevisionID se informa cuando la edición publicó una revisión nueva.
	RevisionID string `json:"revision_id,omitempty"`
}

// PublishRevisionRequest body para POST /api/plans/:id/revisions.
type PublishRevisionRequest struct {
	ValidFrom string `json:"valid_from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ValidTo   string `json:"valid_to,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// PlanRevisionResponse revisión publicada.
type PlanRevisionResponse struct {
	ID                string               `json:"id"`
	PlanID            string               `json:"plan_id"`
	Version           int                  `json:"version"`
	Name              string               `json:"name"`
	Description       string               `json:"description,omitempty"`
	MultiBranchAccess bool                 `json:"multi_branch_access"`
	PlanType          string               `json:"plan_type,omitempty"`
	Presale           bool                 `json:"presale"`
	FreeVisits        int                  `json:"free_visits"`
	ValidFrom         string               `json:"valid_from,omitempty"`
	ValidTo           string               `json:"valid_to,omitempty"`
	Prices            []PlanPriceDTO       `json:"prices"`
	Restrictions      []PlanRestrictionDTO `json:"restrictions"`
	Services          []PlanServiceDTO     `json:"services"`
	Benefits          []PlanBenefitDTO     `json:"benefits"`
	Disciplines       []PlanDisciplineDTO  `json:"disciplines"`
	CreatedAt         time.Time            `json:"created_at"`
}

// EnrollRequest body para POST /api/enrollments.
type EnrollRequest struct {
	CustomerID     string `json:"customer_id" validate:"required"`
	PlanID         string `json:"plan_id" validate:"required"`
	BranchID       string `json:"branch_id,omitempty"`
	PlanRevisionID string `json:"plan_revision_id,omitempty"`
	StartDate      string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Renewal        bool   `json:"renewal"`
}

// EnrollmentResponse alta creada.
type EnrollmentResponse struct {
	ID             string `json:"id"`
	CustomerID     string `json:"customer_id"`
	PlanID         string `json:"plan_id"`
	PlanRevisionID string `json:"plan_revision_id"`
	BranchID       string `json:"branch_id,omitempty"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date,omitempty"`
	Renewal        bool   `json:"renewal"`
	IsActive       bool   `json:"is_active"`
}
