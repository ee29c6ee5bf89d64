package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
)

var _ repository.PlanRevisionRepository = (*PlanRevisionRepo)(nil)

// PlanRevisionRepo persiste revisiones inmutables (sólo INSERT y SELECT).
type PlanRevisionRepo struct {
	q Querier
}

// NewPlanRevisionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPlanRevisionRepository(q Querier) *PlanRevisionRepo {
	return &PlanRevisionRepo{q: q}
}

const revisionColumns = `id, plan_id, company_id, version, name, description, multi_branch_access, plan_type, presale,
	active_from, active_to, free_visits, valid_from, valid_to, created_at, created_by`

// Create inserta la revisión y copias de sus colecciones. (plan_id, version) es único.
func (r *PlanRevisionRepo) Create(ctx context.Context, rev *entity.PlanRevision) error {
	query := `INSERT INTO plan_revisions (` + revisionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		rev.ID, rev.PlanID, rev.CompanyID, rev.Version, rev.Name, rev.Description, rev.MultiBranchAccess,
		rev.PlanType, rev.Presale, rev.ActiveFrom, rev.ActiveTo, rev.FreeVisits, rev.ValidFrom, rev.ValidTo,
		rev.CreatedAt, nullIfEmpty(rev.CreatedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: versión %d del plan %s", domain.ErrConflict, rev.Version, rev.PlanID)
		}
		return fmt.Errorf("insert plan revision: %w", err)
	}
	return insertChildren(ctx, r.q, ownerRevision, rev.ID, planChildren{
		Prices:       rev.Prices,
		Restrictions: rev.Restrictions,
		Services:     rev.Services,
		Benefits:     rev.Benefits,
		Disciplines:  rev.Disciplines,
	})
}

// GetByID obtiene la revisión con sus colecciones.
func (r *PlanRevisionRepo) GetByID(ctx context.Context, id string) (*entity.PlanRevision, error) {
	if !validUUID(id) {
		return nil, nil
	}
	var rev entity.PlanRevision
	var createdBy *string
	err := r.q.QueryRow(ctx, `SELECT `+revisionColumns+` FROM plan_revisions WHERE id = $1`, id).Scan(
		&rev.ID, &rev.PlanID, &rev.CompanyID, &rev.Version, &rev.Name, &rev.Description, &rev.MultiBranchAccess,
		&rev.PlanType, &rev.Presale, &rev.ActiveFrom, &rev.ActiveTo, &rev.FreeVisits, &rev.ValidFrom, &rev.ValidTo,
		&rev.CreatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan revision: %w", err)
	}
	rev.CreatedBy = derefString(createdBy)
	c, err := loadChildren(ctx, r.q, ownerRevision, rev.ID)
	if err != nil {
		return nil, err
	}
	rev.Prices, rev.Restrictions, rev.Services, rev.Benefits, rev.Disciplines = c.Prices, c.Restrictions, c.Services, c.Benefits, c.Disciplines
	return &rev, nil
}

// LastVersion devuelve la versión más alta del plan o 0.
func (r *PlanRevisionRepo) LastVersion(ctx context.Context, planID string) (int, error) {
	var v int
	err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM plan_revisions WHERE plan_id = $1`, planID).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("last plan version: %w", err)
	}
	return v, nil
}

// EffectiveOn devuelve la revisión de mayor versión cuya ventana contiene day. NULL no acota.
func (r *PlanRevisionRepo) EffectiveOn(ctx context.Context, planID string, day time.Time) (*entity.PlanRevision, error) {
	if !validUUID(planID) {
		return nil, nil
	}
	query := `
		SELECT id FROM plan_revisions
		WHERE plan_id = $1
		  AND (valid_from IS NULL OR valid_from <= $2::date)
		  AND (valid_to IS NULL OR valid_to >= $2::date)
		ORDER BY version DESC
		LIMIT 1`
	var id string
	if err := r.q.QueryRow(ctx, query, planID, dateParam(day)).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("effective plan revision: %w", err)
	}
	return r.GetByID(ctx, id)
}

// ListByPlan lista las revisiones del plan por versión ascendente.
func (r *PlanRevisionRepo) ListByPlan(ctx context.Context, planID string) ([]*entity.PlanRevision, error) {
	if !validUUID(planID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT id FROM plan_revisions WHERE plan_id = $1 ORDER BY version`, planID)
	if err != nil {
		return nil, fmt.Errorf("list plan revisions: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan plan revision id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	list := make([]*entity.PlanRevision, 0, len(ids))
	for _, id := range ids {
		rev, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		list = append(list, rev)
	}
	return list, nil
}
