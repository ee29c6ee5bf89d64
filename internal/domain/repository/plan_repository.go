package repository

import (
	"context"
	"time"

	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
)

// PlanRepository persiste el agregado Plan con sus colecciones.
type PlanRepository interface {
	Create(ctx context.Context, plan *entity.Plan) error
	// Update reemplaza escalares y colecciones del plan.
	Update(ctx context.Context, plan *entity.Plan) error
	GetByID(ctx context.Context, id string) (*entity.Plan, error)
	// GetForUpdate bloquea la fila del plan; serializa la numeración de revisiones.
	GetForUpdate(ctx context.Context, id string) (*entity.Plan, error)
}

// PlanRevisionRepository persiste revisiones inmutables (sólo inserción).
type PlanRevisionRepository interface {
	Create(ctx context.Context, rev *entity.PlanRevision) error
	GetByID(ctx context.Context, id string) (*entity.PlanRevision, error)
	// LastVersion devuelve 0 si el plan no tiene revisiones.
	LastVersion(ctx context.Context, planID string) (int, error)
	// EffectiveOn devuelve la revisión de mayor versión cuya ventana contiene day, o nil.
	EffectiveOn(ctx context.Context, planID string, day time.Time) (*entity.PlanRevision, error)
	ListByPlan(ctx context.Context, planID string) ([]*entity.PlanRevision, error)
}

// EnrollmentRepository persiste altas.
type EnrollmentRepository interface {
	Create(ctx context.Context, e *entity.Enrollment) error
	GetByID(ctx context.Context, id string) (*entity.Enrollment, error)
	CountActiveByPlan(ctx context.Context, planID string) (int, error)
}
