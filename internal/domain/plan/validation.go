package plan

import (
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
)

const minutesPerDay = 24 * 60

var validSchemes = map[string]bool{
	entity.SchemeIndividual: true,
	entity.SchemeGroup:      true,
	entity.SchemeCompany:    true,
}

var validBilling = map[string]bool{
	entity.BillingMonthly:  true,
	entity.BillingWeekly:   true,
	entity.BillingSessions: true,
}

// Validate revisa las invariantes del agregado antes de guardarlo.
func Validate(p *entity.Plan) error {
	if p.Name == "" {
		return domain.Invalid("el nombre del plan es requerido")
	}
	if p.ActiveFrom != nil && p.ActiveTo != nil && p.ActiveFrom.After(*p.ActiveTo) {
		return domain.Invalid("la fecha de inicio no puede ser posterior a la fecha de fin")
	}
	if p.Presale && (p.ActiveFrom == nil || p.ActiveTo == nil) {
		return domain.Invalid("un plan en preventa requiere fecha de inicio y fin")
	}
	if p.FreeVisits < 0 {
		return domain.Invalid("visitas gratis no puede ser negativo")
	}
	if err := validatePrices(p.Prices); err != nil {
		return err
	}
	if err := ValidateRestrictions(p.Restrictions); err != nil {
		return err
	}
	for _, s := range p.Services {
		if s.ServiceID == "" {
			return domain.Invalid("servicio sin identificador")
		}
		if s.Price.IsNegative() {
			return domain.Invalid("el precio del servicio no puede ser negativo")
		}
	}
	for _, b := range p.Benefits {
		if b.BenefitID == "" {
			return domain.Invalid("beneficio sin identificador")
		}
		if b.ValidFrom != nil && b.ValidTo != nil && b.ValidFrom.After(*b.ValidTo) {
			return domain.Invalid("vigencia de beneficio inválida")
		}
	}
	for _, d := range p.Disciplines {
		if d.DisciplineID == "" {
			return domain.Invalid("disciplina sin identificador")
		}
		if d.Accesses < 0 {
			return domain.Invalid("número de accesos no puede ser negativo")
		}
	}
	return nil
}

func validatePrices(prices []entity.PlanPrice) error {
	seen := make(map[string]bool, len(prices))
	for _, pr := range prices {
		if !validSchemes[pr.Scheme] {
			return domain.Invalid("esquema inválido: %s", pr.Scheme)
		}
		if !validBilling[pr.BillingType] {
			return domain.Invalid("tipo de cobro inválido: %s", pr.BillingType)
		}
		if pr.Price.IsNegative() {
			return domain.Invalid("el precio no puede ser negativo")
		}
		if pr.Visits < 0 {
			return domain.Invalid("número de visitas no puede ser negativo")
		}
		key := pr.Scheme + "|" + pr.BillingType
		if seen[key] {
			return domain.Invalid("precio duplicado para %s/%s", pr.Scheme, pr.BillingType)
		}
		seen[key] = true
	}
	return nil
}

// ValidateRestrictions exige inicio < fin y que no se traslapen restricciones del mismo día.
// Una restricción sin horas cubre el día completo.
func ValidateRestrictions(rs []entity.PlanRestriction) error {
	type window struct{ start, end int }
	byDay := make(map[string][]window)
	for _, r := range rs {
		if r.Day == "" {
			return domain.Invalid("restricción sin día")
		}
		if (r.Start == nil) != (r.End == nil) {
			return domain.Invalid("restricción de %s: indique hora de inicio y fin o ninguna", r.Day)
		}
		w := window{0, minutesPerDay}
		if r.Start != nil {
			if *r.Start < 0 || *r.End > minutesPerDay {
				return domain.Invalid("restricción de %s fuera de rango", r.Day)
			}
			if *r.Start >= *r.End {
				return domain.Invalid("la hora de inicio debe ser menor que la hora de fin")
			}
			w = window{int(*r.Start), int(*r.End)}
		}
		for _, o := range byDay[r.Day] {
			if w.start < o.end && o.start < w.end {
				return domain.Invalid("restricciones traslapadas el día %s", r.Day)
			}
		}
		byDay[r.Day] = append(byDay[r.Day], w)
	}
	return nil
}
