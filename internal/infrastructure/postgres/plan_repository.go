package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
)

var _ repository.PlanRepository = (*PlanRepo)(nil)

// PlanRepo persiste el agregado Plan (usable con pool o tx).
type PlanRepo struct {
	q Querier
}

// NewPlanRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPlanRepository(q Querier) *PlanRepo {
	return &PlanRepo{q: q}
}

const planColumns = `id, company_id, name, description, multi_branch_access, plan_type, presale,
	active_from, active_to, free_visits, is_active, user_id, created_at, updated_at`

// Create inserta el plan y sus colecciones.
func (r *PlanRepo) Create(ctx context.Context, p *entity.Plan) error {
	query := `INSERT INTO plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, p.Name, p.Description, p.MultiBranchAccess, p.PlanType, p.Presale,
		p.ActiveFrom, p.ActiveTo, p.FreeVisits, p.IsActive, nullIfEmpty(p.UserID), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	return insertChildren(ctx, r.q, ownerPlan, p.ID, childrenOfPlan(p))
}

// Update reemplaza escalares y colecciones del plan. Las revisiones no cambian.
func (r *PlanRepo) Update(ctx context.Context, p *entity.Plan) error {
	query := `
		UPDATE plans SET name = $2, description = $3, multi_branch_access = $4, plan_type = $5, presale = $6,
			active_from = $7, active_to = $8, free_visits = $9, is_active = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.MultiBranchAccess, p.PlanType, p.Presale,
		p.ActiveFrom, p.ActiveTo, p.FreeVisits, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	if err := deletePlanChildren(ctx, r.q, p.ID); err != nil {
		return err
	}
	return insertChildren(ctx, r.q, ownerPlan, p.ID, childrenOfPlan(p))
}

// GetByID obtiene el plan con sus colecciones.
func (r *PlanRepo) GetByID(ctx context.Context, id string) (*entity.Plan, error) {
	return r.get(ctx, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id)
}

// GetForUpdate obtiene el plan bloqueando su fila (SELECT ... FOR UPDATE).
func (r *PlanRepo) GetForUpdate(ctx context.Context, id string) (*entity.Plan, error) {
	return r.get(ctx, `SELECT `+planColumns+` FROM plans WHERE id = $1 FOR UPDATE`, id)
}

func (r *PlanRepo) get(ctx context.Context, query, id string) (*entity.Plan, error) {
	if !validUUID(id) {
		return nil, nil
	}
	var p entity.Plan
	var userID *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.Description, &p.MultiBranchAccess, &p.PlanType, &p.Presale,
		&p.ActiveFrom, &p.ActiveTo, &p.FreeVisits, &p.IsActive, &userID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	p.UserID = derefString(userID)
	c, err := loadChildren(ctx, r.q, ownerPlan, p.ID)
	if err != nil {
		return nil, err
	}
	p.Prices, p.Restrictions, p.Services, p.Benefits, p.Disciplines = c.Prices, c.Restrictions, c.Services, c.Benefits, c.Disciplines
	return &p, nil
}

func childrenOfPlan(p *entity.Plan) planChildren {
	return planChildren{
		Prices:       p.Prices,
		Restrictions: p.Restrictions,
		Services:     p.Services,
		Benefits:     p.Benefits,
		Disciplines:  p.Disciplines,
	}
}
