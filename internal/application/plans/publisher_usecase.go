package plans

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gym-backoffice-api/internal/application/dto"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/plan"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
	"github.com/jhoicas/gym-backoffice-api/pkg/logger"
)

// PublisherUseCase edita planes y publica sus revisiones inmutables.
// La numeración de versiones se serializa con el bloqueo de la fila del plan.
type PublisherUseCase struct {
	planRepo repository.PlanRepository
	revRepo  repository.PlanRevisionRepository
	txRunner TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewPublisherUseCase construye el caso de uso.
func NewPublisherUseCase(
	planRepo repository.PlanRepository,
	revRepo repository.PlanRevisionRepository,
	txRunner TxRunner,
	log *logger.Logger,
) *PublisherUseCase {
	return &PublisherUseCase{planRepo: planRepo, revRepo: revRepo, txRunner: txRunner, log: log, now: time.Now}
}

// CreatePlan valida y persiste un plan nuevo con sus colecciones.
func (uc *PublisherUseCase) CreatePlan(ctx context.Context, companyID, userID string, req dto.PlanRequest) (*entity.Plan, error) {
	now := uc.now()
	p := &entity.Plan{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		IsActive:  true,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := applyRequest(p, req); err != nil {
		return nil, err
	}
	if err := plan.Validate(p); err != nil {
		return nil, err
	}
	if err := uc.planRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePlan reemplaza escalares y colecciones del plan. Tras confirmar la edición llama a
// OnPlanEdited; la revisión devuelta es nil si el plan no tiene altas activas.
// Las revisiones existentes no cambian.
func (uc *PublisherUseCase) UpdatePlan(ctx context.Context, companyID, userID, planID string, req dto.PlanRequest) (*entity.Plan, *entity.PlanRevision, error) {
	var updated *entity.Plan
	err := uc.txRunner.RunPlans(ctx, func(
		planRepo repository.PlanRepository,
		_ repository.PlanRevisionRepository,
		_ repository.EnrollmentRepository,
		_ repository.CustomerRepository,
	) error {
		p, err := lockPlan(ctx, planRepo, companyID, planID)
		if err != nil {
			return err
		}
		if err := applyRequest(p, req); err != nil {
			return err
		}
		if err := plan.Validate(p); err != nil {
			return err
		}
		p.UpdatedAt = uc.now()
		if err := planRepo.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	rev, err := uc.OnPlanEdited(ctx, companyID, userID, planID, updated.UpdatedAt)
	if err != nil {
		return updated, nil, err
	}
	return updated, rev, nil
}

// OnPlanEdited publica una revisión vigente desde la fecha de edición si el plan tiene
// al menos un alta activa. Sin altas no publica y devuelve nil.
func (uc *PublisherUseCase) OnPlanEdited(ctx context.Context, companyID, userID, planID string, editedAt time.Time) (*entity.PlanRevision, error) {
	var rev *entity.PlanRevision
	err := uc.txRunner.RunPlans(ctx, func(
		planRepo repository.PlanRepository,
		revRepo repository.PlanRevisionRepository,
		enrollRepo repository.EnrollmentRepository,
		_ repository.CustomerRepository,
	) error {
		p, err := lockPlan(ctx, planRepo, companyID, planID)
		if err != nil {
			return err
		}
		n, err := enrollRepo.CountActiveByPlan(ctx, planID)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		from := entity.DateOnly(editedAt)
		rev, err = uc.publishInTx(ctx, revRepo, p, &from, nil, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// Publish congela el estado actual del plan en la revisión siguiente (última + 1).
// Extremos nil dejan la ventana abierta; validFrom > validTo es inválido.
func (uc *PublisherUseCase) Publish(ctx context.Context, companyID, userID, planID string, validFrom, validTo *time.Time) (*entity.PlanRevision, error) {
	from, to := dateOnlyPtr(validFrom), dateOnlyPtr(validTo)
	if from != nil && to != nil && from.After(*to) {
		return nil, domain.Invalid("vigente_desde no puede ser posterior a vigente_hasta")
	}
	var rev *entity.PlanRevision
	err := uc.txRunner.RunPlans(ctx, func(
		planRepo repository.PlanRepository,
		revRepo repository.PlanRevisionRepository,
		_ repository.EnrollmentRepository,
		_ repository.CustomerRepository,
	) error {
		p, err := lockPlan(ctx, planRepo, companyID, planID)
		if err != nil {
			return err
		}
		rev, err = uc.publishInTx(ctx, revRepo, p, from, to, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// RevisionEffectiveOn devuelve la revisión de mayor versión vigente en day, o nil.
func (uc *PublisherUseCase) RevisionEffectiveOn(ctx context.Context, companyID, planID string, day time.Time) (*entity.PlanRevision, error) {
	p, err := uc.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return uc.revRepo.EffectiveOn(ctx, planID, entity.DateOnly(day))
}

// ListRevisions historial de revisiones del plan por versión ascendente.
func (uc *PublisherUseCase) ListRevisions(ctx context.Context, companyID, planID string) ([]*entity.PlanRevision, error) {
	p, err := uc.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return uc.revRepo.ListByPlan(ctx, planID)
}

// EnsureRevisionFor devuelve la revisión vigente en day y, si no hay, publica una
// con vigencia desde day. La búsqueda ocurre bajo el bloqueo del plan.
func (uc *PublisherUseCase) EnsureRevisionFor(ctx context.Context, companyID, userID, planID string, day time.Time) (*entity.PlanRevision, error) {
	var rev *entity.PlanRevision
	err := uc.txRunner.RunPlans(ctx, func(
		planRepo repository.PlanRepository,
		revRepo repository.PlanRevisionRepository,
		_ repository.EnrollmentRepository,
		_ repository.CustomerRepository,
	) error {
		p, err := lockPlan(ctx, planRepo, companyID, planID)
		if err != nil {
			return err
		}
		rev, err = uc.ensureInTx(ctx, revRepo, p, day, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// Enroll crea un alta. Sin revisión explícita fija la vigente en StartDate (publicándola si
// falta) dentro de la misma transacción; una revisión explícita debe pertenecer al plan.
func (uc *PublisherUseCase) Enroll(ctx context.Context, companyID, userID string, req dto.EnrollRequest) (*entity.Enrollment, error) {
	start, err := dto.ParseDate(req.StartDate)
	if err != nil {
		return nil, domain.Invalid("%v", err)
	}
	if start == nil {
		return nil, domain.Invalid("la fecha de inicio es requerida")
	}
	end, err := dto.ParseDate(req.EndDate)
	if err != nil {
		return nil, domain.Invalid("%v", err)
	}
	if end != nil && end.Before(*start) {
		return nil, domain.Invalid("la fecha de fin no puede ser anterior a la de inicio")
	}
	if req.CustomerID == "" || req.PlanID == "" {
		return nil, domain.Invalid("cliente y plan son requeridos")
	}

	e := &entity.Enrollment{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		BranchID:   req.BranchID,
		CustomerID: req.CustomerID,
		PlanID:     req.PlanID,
		StartDate:  *start,
		EndDate:    end,
		Renewal:    req.Renewal,
		IsActive:   true,
		CreatedAt:  uc.now(),
		CreatedBy:  userID,
	}
	err = uc.txRunner.RunPlans(ctx, func(
		planRepo repository.PlanRepository,
		revRepo repository.PlanRevisionRepository,
		enrollRepo repository.EnrollmentRepository,
		customerRepo repository.CustomerRepository,
	) error {
		customer, err := customerRepo.GetByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil || customer.CompanyID != companyID {
			return domain.Invalid("cliente %s no existe", req.CustomerID)
		}
		p, err := planRepo.GetForUpdate(ctx, req.PlanID)
		if err != nil {
			return err
		}
		if p == nil || p.CompanyID != companyID {
			return domain.Invalid("plan %s no existe", req.PlanID)
		}

		if req.PlanRevisionID != "" {
			rev, err := revRepo.GetByID(ctx, req.PlanRevisionID)
			if err != nil {
				return err
			}
			if rev == nil || rev.PlanID != p.ID {
				return domain.Invalid("la revisión no pertenece al plan")
			}
			e.PlanRevisionID = rev.ID
		} else {
			rev, err := uc.ensureInTx(ctx, revRepo, p, *start, userID)
			if err != nil {
				return err
			}
			e.PlanRevisionID = rev.ID
		}
		return enrollRepo.Create(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (uc *PublisherUseCase) ensureInTx(ctx context.Context, revRepo repository.PlanRevisionRepository, p *entity.Plan, day time.Time, userID string) (*entity.PlanRevision, error) {
	day = entity.DateOnly(day)
	rev, err := revRepo.EffectiveOn(ctx, p.ID, day)
	if err != nil {
		return nil, err
	}
	if rev != nil {
		return rev, nil
	}
	return uc.publishInTx(ctx, revRepo, p, &day, nil, userID)
}

// publishInTx requiere la fila del plan bloqueada por el llamador.
func (uc *PublisherUseCase) publishInTx(ctx context.Context, revRepo repository.PlanRevisionRepository, p *entity.Plan, from, to *time.Time, userID string) (*entity.PlanRevision, error) {
	last, err := revRepo.LastVersion(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	rev := plan.Snapshot(p, last+1, from, to, userID, uc.now())
	if err := revRepo.Create(ctx, rev); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("plan_id", p.ID).
		Str("revision_id", rev.ID).
		Int("version", rev.Version).
		Msg("revisión de plan publicada")
	return rev, nil
}

func lockPlan(ctx context.Context, planRepo repository.PlanRepository, companyID, planID string) (*entity.Plan, error) {
	p, err := planRepo.GetForUpdate(ctx, planID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := entity.DateOnly(*t)
	return &d
}
