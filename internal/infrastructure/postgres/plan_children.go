package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
)

// ownerColumn columna dueña de las colecciones: el plan editable o una revisión.
type ownerColumn string

const (
	ownerPlan     ownerColumn = "plan_id"
	ownerRevision ownerColumn = "revision_id"
)

// planChildren colecciones compartidas por Plan y PlanRevision.
type planChildren struct {
	Prices       []entity.PlanPrice
	Restrictions []entity.PlanRestriction
	Services     []entity.PlanService
	Benefits     []entity.PlanBenefit
	Disciplines  []entity.PlanDiscipline
}

func insertChildren(ctx context.Context, q Querier, owner ownerColumn, ownerID string, c planChildren) error {
	for i, p := range c.Prices {
		_, err := q.Exec(ctx, `INSERT INTO plan_prices (id, `+string(owner)+`, scheme, billing_type, price, visits, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, ownerID, p.Scheme, p.BillingType, p.Price, p.Visits, i)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("insert plan price: precio duplicado %s/%s", p.Scheme, p.BillingType)
			}
			return fmt.Errorf("insert plan price: %w", err)
		}
	}
	for i, r := range c.Restrictions {
		_, err := q.Exec(ctx, `INSERT INTO plan_restrictions (id, `+string(owner)+`, day, start_minute, end_minute, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			r.ID, ownerID, r.Day, clockToInt(r.Start), clockToInt(r.End), i)
		if err != nil {
			return fmt.Errorf("insert plan restriction: %w", err)
		}
	}
	for i, s := range c.Services {
		_, err := q.Exec(ctx, `INSERT INTO plan_services (id, `+string(owner)+`, service_id, price, icon, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			s.ID, ownerID, s.ServiceID, s.Price, s.Icon, i)
		if err != nil {
			return fmt.Errorf("insert plan service: %w", err)
		}
	}
	for i, b := range c.Benefits {
		_, err := q.Exec(ctx, `INSERT INTO plan_benefits (id, `+string(owner)+`, benefit_id, valid_from, valid_to, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			b.ID, ownerID, b.BenefitID, b.ValidFrom, b.ValidTo, i)
		if err != nil {
			return fmt.Errorf("insert plan benefit: %w", err)
		}
	}
	for i, d := range c.Disciplines {
		_, err := q.Exec(ctx, `INSERT INTO plan_disciplines (id, `+string(owner)+`, discipline_id, access_type, accesses, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			d.ID, ownerID, d.DisciplineID, d.AccessType, d.Accesses, i)
		if err != nil {
			return fmt.Errorf("insert plan discipline: %w", err)
		}
	}
	return nil
}

// deletePlanChildren borra sólo colecciones del plan editable; las de revisiones no se tocan.
func deletePlanChildren(ctx context.Context, q Querier, planID string) error {
	for _, table := range []string{"plan_prices", "plan_restrictions", "plan_services", "plan_benefits", "plan_disciplines"} {
		if _, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE plan_id = $1`, planID); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}

func loadChildren(ctx context.Context, q Querier, owner ownerColumn, ownerID string) (planChildren, error) {
	var c planChildren
	where := ` WHERE ` + string(owner) + ` = $1 ORDER BY position`

	rows, err := q.Query(ctx, `SELECT id, scheme, billing_type, price, visits FROM plan_prices`+where, ownerID)
	if err != nil {
		return c, fmt.Errorf("load plan prices: %w", err)
	}
	for rows.Next() {
		var p entity.PlanPrice
		if err := rows.Scan(&p.ID, &p.Scheme, &p.BillingType, &p.Price, &p.Visits); err != nil {
			rows.Close()
			return c, fmt.Errorf("scan plan price: %w", err)
		}
		c.Prices = append(c.Prices, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return c, err
	}

	rows, err = q.Query(ctx, `SELECT id, day, start_minute, end_minute FROM plan_restrictions`+where, ownerID)
	if err != nil {
		return c, fmt.Errorf("load plan restrictions: %w", err)
	}
	for rows.Next() {
		var r entity.PlanRestriction
		var start, end *int
		if err := rows.Scan(&r.ID, &r.Day, &start, &end); err != nil {
			rows.Close()
			return c, fmt.Errorf("scan plan restriction: %w", err)
		}
		r.Start, r.End = intToClock(start), intToClock(end)
		c.Restrictions = append(c.Restrictions, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return c, err
	}

	rows, err = q.Query(ctx, `SELECT id, service_id, price, icon FROM plan_services`+where, ownerID)
	if err != nil {
		return c, fmt.Errorf("load plan services: %w", err)
	}
	for rows.Next() {
		var s entity.PlanService
		if err := rows.Scan(&s.ID, &s.ServiceID, &s.Price, &s.Icon); err != nil {
			rows.Close()
			return c, fmt.Errorf("scan plan service: %w", err)
		}
		c.Services = append(c.Services, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return c, err
	}

	rows, err = q.Query(ctx, `SELECT id, benefit_id, valid_from, valid_to FROM plan_benefits`+where, ownerID)
	if err != nil {
		return c, fmt.Errorf("load plan benefits: %w", err)
	}
	for rows.Next() {
		var b entity.PlanBenefit
		var from, to *time.Time
		if err := rows.Scan(&b.ID, &b.BenefitID, &from, &to); err != nil {
			rows.Close()
			return c, fmt.Errorf("scan plan benefit: %w", err)
		}
		b.ValidFrom, b.ValidTo = from, to
		c.Benefits = append(c.Benefits, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return c, err
	}

	rows, err = q.Query(ctx, `SELECT id, discipline_id, access_type, accesses FROM plan_disciplines`+where, ownerID)
	if err != nil {
		return c, fmt.Errorf("load plan disciplines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.PlanDiscipline
		if err := rows.Scan(&d.ID, &d.DisciplineID, &d.AccessType, &d.Accesses); err != nil {
			return c, fmt.Errorf("scan plan discipline: %w", err)
		}
		c.Disciplines = append(c.Disciplines, d)
	}
	return c, rows.Err()
}

func clockToInt(c *entity.ClockTime) *int {
	if c == nil {
		return nil
	}
	v := int(*c)
	return &v
}

func intToClock(v *int) *entity.ClockTime {
	if v == nil {
		return nil
	}
	c := entity.ClockTime(*v)
	return &c
}

// dateParam formatea un día para compararlo con columnas DATE sin depender de la zona de la sesión.
func dateParam(t time.Time) string {
	return entity.DateOnly(t).Format("2006-01-02")
}
