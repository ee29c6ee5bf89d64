package entity

import "time"

// PlanRevision instantánea inmutable y versionada de un Plan, vigente en [ValidFrom, ValidTo].
// Las colecciones son copias propias; nunca se modifican después de crearse.
type PlanRevision struct {
	ID                string
	PlanID            string
	CompanyID         string
	Version           int
	Name              string
	Description       string
	MultiBranchAccess bool
	PlanType          string
	Presale           bool
	ActiveFrom        *time.Time
	ActiveTo          *time.Time
	FreeVisits        int
	ValidFrom         *time.Time
	ValidTo           *time.Time
	Prices            []PlanPrice
	Restrictions      []PlanRestriction
	Services          []PlanService
	Benefits          []PlanBenefit
	Disciplines       []PlanDiscipline
	CreatedAt         time.Time
	CreatedBy         string
}

// Covers indica si la ventana de la revisión contiene day.
func (r *PlanRevision) Covers(day time.Time) bool {
	return WithinDates(r.ValidFrom, r.ValidTo, day)
}
