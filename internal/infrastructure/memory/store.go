// Package memory implementa los repositorios en memoria para los tests.
// Las transacciones se serializan con un único mutex; una transacción fallida
// restaura el estado previo.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/gym-backoffice-api/internal/application/discount"
	"github.com/jhoicas/gym-backoffice-api/internal/application/inventory"
	"github.com/jhoicas/gym-backoffice-api/internal/application/plans"
	"github.com/jhoicas/gym-backoffice-api/internal/application/sales"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/plan"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*Store)(nil)
	_ discount.TxRunner  = (*Store)(nil)
	_ plans.TxRunner     = (*Store)(nil)
	_ sales.TxRunner     = (*Store)(nil)
)

type state struct {
	customers   map[string]entity.Customer
	products    map[string]entity.Product
	warehouses  map[string]entity.Warehouse
	movements   []entity.InventoryMovement
	codes       map[string]entity.DiscountCode
	plans       map[string]*entity.Plan
	revisions   map[string]*entity.PlanRevision
	enrollments map[string]entity.Enrollment
	sales       map[string]*entity.Sale
	folios      map[string]int
}

func newState() *state {
	return &state{
		customers:   make(map[string]entity.Customer),
		products:    make(map[string]entity.Product),
		warehouses:  make(map[string]entity.Warehouse),
		codes:       make(map[string]entity.DiscountCode),
		plans:       make(map[string]*entity.Plan),
		revisions:   make(map[string]*entity.PlanRevision),
		enrollments: make(map[string]entity.Enrollment),
		sales:       make(map[string]*entity.Sale),
		folios:      make(map[string]int),
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.customers {
		c.customers[k] = v
	}
	for k, v := range st.products {
		c.products[k] = v
	}
	for k, v := range st.warehouses {
		c.warehouses[k] = v
	}
	c.movements = append(c.movements, st.movements...)
	for k, v := range st.codes {
		c.codes[k] = v
	}
	for k, v := range st.plans {
		c.plans[k] = plan.ClonePlan(v)
	}
	for k, v := range st.revisions {
		c.revisions[k] = plan.CloneRevision(v)
	}
	for k, v := range st.enrollments {
		c.enrollments[k] = v
	}
	for k, v := range st.sales {
		c.sales[k] = cloneSale(v)
	}
	for k, v := range st.folios {
		c.folios[k] = v
	}
	return c
}

func cloneSale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Lines = append([]entity.SaleLine(nil), s.Lines...)
	c.Payments = append([]entity.Payment(nil), s.Payments...)
	return &c
}

// Store guarda todo el estado y actúa como TxRunner de todos los casos de uso.
type Store struct {
	mu sync.Mutex
	st *state
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: newState()}
}

// access ejecuta fn con el estado; fuera de una transacción toma el mutex.
func (s *Store) access(inTx bool, fn func(st *state)) {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn(s.st)
}

// tx serializa fn; si devuelve error restaura la copia previa.
func (s *Store) tx(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := s.st.clone()
	if err := fn(); err != nil {
		s.st = saved
		return err
	}
	return nil
}

// Repositorios fuera de transacción.

func (s *Store) Customers() repository.CustomerRepository          { return &customerRepo{s: s} }
func (s *Store) Products() repository.ProductRepository            { return &productRepo{s: s} }
func (s *Store) Warehouses() repository.WarehouseRepository        { return &warehouseRepo{s: s} }
func (s *Store) Movements() repository.InventoryMovementRepository { return &movementRepo{s: s} }
func (s *Store) DiscountCodes() repository.DiscountCodeRepository  { return &codeRepo{s: s} }
func (s *Store) Plans() repository.PlanRepository                  { return &planRepo{s: s} }
func (s *Store) Revisions() repository.PlanRevisionRepository      { return &revisionRepo{s: s} }
func (s *Store) Enrollments() repository.EnrollmentRepository      { return &enrollmentRepo{s: s} }
func (s *Store) Sales() repository.SaleRepository                  { return &saleRepo{s: s} }

// Run transacción de inventario.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) error) error {
	return s.tx(ctx, func() error {
		return fn(&movementRepo{s: s, inTx: true}, &productRepo{s: s, inTx: true}, &warehouseRepo{s: s, inTx: true})
	})
}

// RunDiscount transacción de canje.
func (s *Store) RunDiscount(ctx context.Context, fn func(codeRepo repository.DiscountCodeRepository) error) error {
	return s.tx(ctx, func() error {
		return fn(&codeRepo{s: s, inTx: true})
	})
}

// RunPlans transacción de planes.
func (s *Store) RunPlans(ctx context.Context, fn func(
	planRepo repository.PlanRepository,
	revRepo repository.PlanRevisionRepository,
	enrollRepo repository.EnrollmentRepository,
	customerRepo repository.CustomerRepository,
) error) error {
	return s.tx(ctx, func() error {
		return fn(
			&planRepo{s: s, inTx: true},
			&revisionRepo{s: s, inTx: true},
			&enrollmentRepo{s: s, inTx: true},
			&customerRepo{s: s, inTx: true},
		)
	})
}

// RunCheckout transacción del checkout.
func (s *Store) RunCheckout(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	movRepo repository.InventoryMovementRepository,
	codeRepo repository.DiscountCodeRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	planRepo repository.PlanRepository,
	customerRepo repository.CustomerRepository,
) error) error {
	return s.tx(ctx, func() error {
		return fn(
			&saleRepo{s: s, inTx: true},
			&movementRepo{s: s, inTx: true},
			&codeRepo{s: s, inTx: true},
			&productRepo{s: s, inTx: true},
			&warehouseRepo{s: s, inTx: true},
			&planRepo{s: s, inTx: true},
			&customerRepo{s: s, inTx: true},
		)
	})
}
