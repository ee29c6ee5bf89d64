package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Esquemas y tipos de cobro de un precio de plan.
const (
	SchemeIndividual = "individual"
	SchemeGroup      = "grupal"
	SchemeCompany    = "empresa"

	BillingMonthly  = "mensual"
	BillingWeekly   = "semanal"
	BillingSessions = "sesiones"
)

// ClockTime hora del día en minutos desde medianoche (0..1439).
type ClockTime int

// ParseClockTime interpreta "HH:MM".
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("hora inválida %q: %w", s, err)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// PlanPrice precio de un plan por esquema y tipo de cobro.
type PlanPrice struct {
	ID          string
	Scheme      string
	BillingType string
	Price       decimal.Decimal
	Visits      int // 0 = no se contabilizan visitas
}

// PlanRestriction ventana de acceso por día. Sin horas = todo el día.
type PlanRestriction struct {
	ID    string
	Day   string
	Start *ClockTime
	End   *ClockTime
}

// PlanService servicio incluido en el plan.
type PlanService struct {
	ID        string
	ServiceID string
	Price     decimal.Decimal
	Icon      string
}

// PlanBenefit beneficio incluido con su vigencia.
type PlanBenefit struct {
	ID        string
	BenefitID string
	ValidFrom *time.Time
	ValidTo   *time.Time
}

// PlanDiscipline disciplina incluida en el plan.
type PlanDiscipline struct {
	ID           string
	DisciplineID string
	AccessType   string
	Accesses     int
}

// Plan agregado editable: la fuente de verdad de los términos vigentes de una membresía.
type Plan struct {
	ID                string
	CompanyID         string
	Name              string
	Description       string
	MultiBranchAccess bool
	PlanType          string // libre: mensual, semanal, sesiones, etc.
	Presale           bool
	ActiveFrom        *time.Time
	ActiveTo          *time.Time
	FreeVisits        int
	IsActive          bool
	UserID            string
	Prices            []PlanPrice
	Restrictions      []PlanRestriction
	Services          []PlanService
	Benefits          []PlanBenefit
	Disciplines       []PlanDiscipline
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DateOnly trunca t al día calendario (UTC).
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WithinDates indica si day cae en [from, to]; un extremo nil no acota.
func WithinDates(from, to *time.Time, day time.Time) bool {
	day = DateOnly(day)
	if from != nil && DateOnly(*from).After(day) {
		return false
	}
	if to != nil && DateOnly(*to).Before(day) {
		return false
	}
	return true
}
