package plan

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
)

// Snapshot congela el agregado p en una revisión nueva con la versión y ventana dadas.
// Todas las colecciones y fechas se copian; editar p después no afecta la revisión.
func Snapshot(p *entity.Plan, version int, validFrom, validTo *time.Time, createdBy string, now time.Time) *entity.PlanRevision {
	rev := &entity.PlanRevision{
		ID:                uuid.New().String(),
		PlanID:            p.ID,
		CompanyID:         p.CompanyID,
		Version:           version,
		Name:              p.Name,
		Description:       p.Description,
		MultiBranchAccess: p.MultiBranchAccess,
		PlanType:          p.PlanType,
		Presale:           p.Presale,
		ActiveFrom:        cloneTime(p.ActiveFrom),
		ActiveTo:          cloneTime(p.ActiveTo),
		FreeVisits:        p.FreeVisits,
		ValidFrom:         cloneTime(validFrom),
		ValidTo:           cloneTime(validTo),
		CreatedAt:         now,
		CreatedBy:         createdBy,
	}
	// Los hijos de la revisión reciben ids propios.
	for _, pr := range p.Prices {
		pr.ID = uuid.New().String()
		rev.Prices = append(rev.Prices, pr)
	}
	for _, r := range p.Restrictions {
		r.ID = uuid.New().String()
		r.Start = cloneClock(r.Start)
		r.End = cloneClock(r.End)
		rev.Restrictions = append(rev.Restrictions, r)
	}
	for _, s := range p.Services {
		s.ID = uuid.New().String()
		rev.Services = append(rev.Services, s)
	}
	for _, b := range p.Benefits {
		b.ID = uuid.New().String()
		b.ValidFrom = cloneTime(b.ValidFrom)
		b.ValidTo = cloneTime(b.ValidTo)
		rev.Benefits = append(rev.Benefits, b)
	}
	for _, d := range p.Disciplines {
		d.ID = uuid.New().String()
		rev.Disciplines = append(rev.Disciplines, d)
	}
	return rev
}

// CloneRevision copia profunda de una revisión (usada por el store en memoria).
func CloneRevision(r *entity.PlanRevision) *entity.PlanRevision {
	c := *r
	c.ActiveFrom = cloneTime(r.ActiveFrom)
	c.ActiveTo = cloneTime(r.ActiveTo)
	c.ValidFrom = cloneTime(r.ValidFrom)
	c.ValidTo = cloneTime(r.ValidTo)
	c.Prices = append([]entity.PlanPrice(nil), r.Prices...)
	c.Services = append([]entity.PlanService(nil), r.Services...)
	c.Disciplines = append([]entity.PlanDiscipline(nil), r.Disciplines...)
	c.Restrictions = nil
	for _, x := range r.Restrictions {
		x.Start = cloneClock(x.Start)
		x.End = cloneClock(x.End)
		c.Restrictions = append(c.Restrictions, x)
	}
	c.Benefits = nil
	for _, b := range r.Benefits {
		b.ValidFrom = cloneTime(b.ValidFrom)
		b.ValidTo = cloneTime(b.ValidTo)
		c.Benefits = append(c.Benefits, b)
	}
	return &c
}

// ClonePlan copia profunda del agregado.
func ClonePlan(p *entity.Plan) *entity.Plan {
	c := *p
	c.ActiveFrom = cloneTime(p.ActiveFrom)
	c.ActiveTo = cloneTime(p.ActiveTo)
	c.Prices = append([]entity.PlanPrice(nil), p.Prices...)
	c.Services = append([]entity.PlanService(nil), p.Services...)
	c.Disciplines = append([]entity.PlanDiscipline(nil), p.Disciplines...)
	c.Restrictions = nil
	for _, x := range p.Restrictions {
		x.Start = cloneClock(x.Start)
		x.End = cloneClock(x.End)
		c.Restrictions = append(c.Restrictions, x)
	}
	c.Benefits = nil
	for _, b := range p.Benefits {
		b.ValidFrom = cloneTime(b.ValidFrom)
		b.ValidTo = cloneTime(b.ValidTo)
		c.Benefits = append(c.Benefits, b)
	}
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneClock(c *entity.ClockTime) *entity.ClockTime {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}
