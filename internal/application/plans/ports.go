package plans

import (
	"context"

	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
)

// TxRunner ejecuta fn en una transacción con los repositorios de planes atados a la tx.
type TxRunner interface {
	RunPlans(ctx context.Context, fn func(
		planRepo repository.PlanRepository,
		revRepo repository.PlanRevisionRepository,
		enrollRepo repository.EnrollmentRepository,
		customerRepo repository.CustomerRepository,
	) error) error
}
