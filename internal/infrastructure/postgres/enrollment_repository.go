package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
)

var _ repository.EnrollmentRepository = (*EnrollmentRepo)(nil)

// EnrollmentRepo persiste altas (usable con pool o tx).
type EnrollmentRepo struct {
	q Querier
}

// NewEnrollmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEnrollmentRepository(q Querier) *EnrollmentRepo {
	return &EnrollmentRepo{q: q}
}

// Create inserta un alta.
func (r *EnrollmentRepo) Create(ctx context.Context, e *entity.Enrollment) error {
	query := `
		INSERT INTO enrollments (id, company_id, branch_id, customer_id, plan_id, plan_revision_id,
			start_date, end_date, renewal, is_active, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.CompanyID, nullIfEmpty(e.BranchID), e.CustomerID, e.PlanID, e.PlanRevisionID,
		e.StartDate, e.EndDate, e.Renewal, e.IsActive, e.CreatedAt, nullIfEmpty(e.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

// GetByID obtiene un alta por ID.
func (r *EnrollmentRepo) GetByID(ctx context.Context, id string) (*entity.Enrollment, error) {
	if !validUUID(id) {
		return nil, nil
	}
	query := `
		SELECT id, company_id, branch_id, customer_id, plan_id, plan_revision_id,
			start_date, end_date, renewal, is_active, created_at, created_by
		FROM enrollments WHERE id = $1`
	var e entity.Enrollment
	var branchID, createdBy *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.CompanyID, &branchID, &e.CustomerID, &e.PlanID, &e.PlanRevisionID,
		&e.StartDate, &e.EndDate, &e.Renewal, &e.IsActive, &e.CreatedAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	e.BranchID = derefString(branchID)
	e.CreatedBy = derefString(createdBy)
	return &e, nil
}

// CountActiveByPlan cuenta las altas activas del plan.
func (r *EnrollmentRepo) CountActiveByPlan(ctx context.Context, planID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM enrollments WHERE plan_id = $1 AND is_active`, planID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return n, nil
}
