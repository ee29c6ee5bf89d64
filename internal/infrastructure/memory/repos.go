package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	domaininv "github.com/jhoicas/gym-backoffice-api/internal/domain/inventory"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/plan"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.CustomerRepository          = (*customerRepo)(nil)
	_ repository.ProductRepository           = (*productRepo)(nil)
	_ repository.WarehouseRepository         = (*warehouseRepo)(nil)
	_ repository.InventoryMovementRepository = (*movementRepo)(nil)
	_ repository.DiscountCodeRepository      = (*codeRepo)(nil)
	_ repository.PlanRepository              = (*planRepo)(nil)
	_ repository.PlanRevisionRepository      = (*revisionRepo)(nil)
	_ repository.EnrollmentRepository        = (*enrollmentRepo)(nil)
	_ repository.SaleRepository              = (*saleRepo)(nil)
)

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}

// customers

type customerRepo struct {
	s    *Store
	inTx bool
}

func (r *customerRepo) Create(_ context.Context, c *entity.Customer) error {
	var err error
	r.s.access(r.inTx, func(st *state) {
		ensureID(&c.ID)
		if _, ok := st.customers[c.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		st.customers[c.ID] = *c
	})
	return err
}

func (r *customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	r.s.access(r.inTx, func(st *state) {
		if c, ok := st.customers[id]; ok {
			out = &c
		}
	})
	return out, nil
}

// products

type productRepo struct {
	s    *Store
	inTx bool
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	var err error
	r.s.access(r.inTx, func(st *state) {
		ensureID(&p.ID)
		if _, ok := st.products[p.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		st.products[p.ID] = *p
	})
	return err
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.s.access(r.inTx, func(st *state) {
		if p, ok := st.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r *productRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	r.s.access(r.inTx, func(st *state) {
		for _, p := range st.products {
			if p.CompanyID == companyID {
				p := p
				list = append(list, &p)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

// warehouses

type warehouseRepo struct {
	s    *Store
	inTx bool
}

func (r *warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	var err error
	r.s.access(r.inTx, func(st *state) {
		ensureID(&w.ID)
		if _, ok := st.warehouses[w.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		st.warehouses[w.ID] = *w
	})
	return err
}

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	r.s.access(r.inTx, func(st *state) {
		if w, ok := st.warehouses[id]; ok {
			out = &w
		}
	})
	return out, nil
}

func (r *warehouseRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Warehouse, error) {
	var list []*entity.Warehouse
	r.s.access(r.inTx, func(st *state) {
		for _, w := range st.warehouses {
			if w.CompanyID == companyID {
				w := w
				list = append(list, &w)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// movimientos (append-only)

type movementRepo struct {
	s    *Store
	inTx bool
}

func (r *movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	if err := domaininv.ValidateMovement(m); err != nil {
		return err
	}
	r.s.access(r.inTx, func(st *state) {
		ensureID(&m.ID)
		st.movements = append(st.movements, *m)
	})
	return nil
}

func (r *movementRepo) ListByReference(_ context.Context, referenceID string) ([]*entity.InventoryMovement, error) {
	var list []*entity.InventoryMovement
	r.s.access(r.inTx, func(st *state) {
		for _, m := range st.movements {
			if m.ReferenceID == referenceID {
				m := m
				list = append(list, &m)
			}
		}
	})
	return list, nil
}

// companyEvents copia los movimientos de la empresa para agregarlos fuera del lock.
func (r *movementRepo) companyEvents(companyID string) []*entity.InventoryMovement {
	var events []*entity.InventoryMovement
	r.s.access(r.inTx, func(st *state) {
		for _, m := range st.movements {
			if m.CompanyID == companyID {
				m := m
				events = append(events, &m)
			}
		}
	})
	return events
}

func (r *movementRepo) StockAt(_ context.Context, companyID, productID, warehouseID string, asOf time.Time) (decimal.Decimal, error) {
	return domaininv.Fold(r.companyEvents(companyID), productID, warehouseID, asOf), nil
}

func (r *movementRepo) StockByWarehouse(_ context.Context, companyID, productID string, asOf time.Time) ([]entity.WarehouseStock, error) {
	byWh := domaininv.FoldByWarehouse(r.companyEvents(companyID), productID, asOf)
	out := make([]entity.WarehouseStock, 0, len(byWh))
	r.s.access(r.inTx, func(st *state) {
		for id, qty := range byWh {
			out = append(out, entity.WarehouseStock{
				WarehouseID:   id,
				WarehouseName: st.warehouses[id].Name,
				Quantity:      qty,
			})
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].WarehouseName != out[j].WarehouseName {
			return out[i].WarehouseName < out[j].WarehouseName
		}
		return out[i].WarehouseID < out[j].WarehouseID
	})
	return out, nil
}

// LockStock no hace nada: las transacciones en memoria ya son exclusivas.
func (r *movementRepo) LockStock(context.Context, string, string) error { return nil }

// códigos de descuento

type codeRepo struct {
	s    *Store
	inTx bool
}

func (r *codeRepo) Create(_ context.Context, c *entity.DiscountCode) error {
	var err error
	r.s.access(r.inTx, func(st *state) {
		ensureID(&c.ID)
		for _, other := range st.codes {
			if other.CompanyID == c.CompanyID && other.Code == c.Code {
				err = domain.ErrDuplicate
				return
			}
		}
		st.codes[c.ID] = *c
	})
	return err
}

func (r *codeRepo) GetByCode(_ context.Context, companyID, code string) (*entity.DiscountCode, error) {
	var out *entity.DiscountCode
	r.s.access(r.inTx, func(st *state) {
		for _, c := range st.codes {
			if c.CompanyID == companyID && c.Code == code {
				c := c
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *codeRepo) GetByCodeForUpdate(ctx context.Context, companyID, code string) (*entity.DiscountCode, error) {
	return r.GetByCode(ctx, companyID, code)
}

func (r *codeRepo) Decrement(_ context.Context, id string) (int, error) {
	var (
		remaining int
		err       error
	)
	r.s.access(r.inTx, func(st *state) {
		c, ok := st.codes[id]
		if !ok || !c.IsActive || c.Remaining <= 0 {
			err = domain.ErrCodeNotUsable
			return
		}
		c.Remaining--
		c.UpdatedAt = time.Now().UTC()
		st.codes[id] = c
		remaining = c.Remaining
	})
	return remaining, err
}

// planes

type planRepo struct {
	s    *Store
	inTx bool
}

func (r *planRepo) Create(_ context.Context, p *entity.Plan) error {
	var err error
	r.s.access(r.inTx, func(st *state) {
		ensureID(&p.ID)
		if _, ok := st.plans[p.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		st.plans[p.ID] = plan.ClonePlan(p)
	})
	return err
}

func (r *planRepo) Update(_ context.Context, p *entity.Plan) error {
	var err error
	r.s.access(r.inTx, func(st *state) {
		if _, ok := st.plans[p.ID]; !ok {
			err = fmt.Errorf("update plan %s: %w", p.ID, domain.ErrNotFound)
			return
		}
		st.plans[p.ID] = plan.ClonePlan(p)
	})
	return err
}

func (r *planRepo) GetByID(_ context.Context, id string) (*entity.Plan, error) {
	var out *entity.Plan
	r.s.access(r.inTx, func(st *state) {
		if p, ok := st.plans[id]; ok {
			out = plan.ClonePlan(p)
		}
	})
	return out, nil
}

func (r *planRepo) GetForUpdate(ctx context.Context, id string) (*entity.Plan, error) {
	return r.GetByID(ctx, id)
}

// revisiones

type revisionRepo struct {
	s    *Store
	inTx bool
}

func (r *revisionRepo) Create(_ context.Context, rev *entity.PlanRevision) error {
	var err error
	r.s.access(r.inTx, func(st *state) {
		ensureID(&rev.ID)
		for _, other := range st.revisions {
			if other.PlanID == rev.PlanID && other.Version == rev.Version {
				err = fmt.Errorf("plan %s versión %d: %w", rev.PlanID, rev.Version, domain.ErrConflict)
				return
			}
		}
		st.revisions[rev.ID] = plan.CloneRevision(rev)
	})
	return err
}

func (r *revisionRepo) GetByID(_ context.Context, id string) (*entity.PlanRevision, error) {
	var out *entity.PlanRevision
	r.s.access(r.inTx, func(st *state) {
		if rev, ok := st.revisions[id]; ok {
			out = plan.CloneRevision(rev)
		}
	})
	return out, nil
}

func (r *revisionRepo) LastVersion(_ context.Context, planID string) (int, error) {
	last := 0
	r.s.access(r.inTx, func(st *state) {
		for _, rev := range st.revisions {
			if rev.PlanID == planID && rev.Version > last {
				last = rev.Version
			}
		}
	})
	return last, nil
}

func (r *revisionRepo) EffectiveOn(_ context.Context, planID string, day time.Time) (*entity.PlanRevision, error) {
	var best *entity.PlanRevision
	r.s.access(r.inTx, func(st *state) {
		for _, rev := range st.revisions {
			if rev.PlanID != planID || !rev.Covers(day) {
				continue
			}
			if best == nil || rev.Version > best.Version {
				best = rev
			}
		}
		if best != nil {
			best = plan.CloneRevision(best)
		}
	})
	return best, nil
}

func (r *revisionRepo) ListByPlan(_ context.Context, planID string) ([]*entity.PlanRevision, error) {
	var list []*entity.PlanRevision
	r.s.access(r.inTx, func(st *state) {
		for _, rev := range st.revisions {
			if rev.PlanID == planID {
				list = append(list, plan.CloneRevision(rev))
			}
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Version < list[j].Version })
	return list, nil
}

// altas

type enrollmentRepo struct {
	s    *Store
	inTx bool
}

func (r *enrollmentRepo) Create(_ context.Context, e *entity.Enrollment) error {
	r.s.access(r.inTx, func(st *state) {
		ensureID(&e.ID)
		st.enrollments[e.ID] = *e
	})
	return nil
}

func (r *enrollmentRepo) GetByID(_ context.Context, id string) (*entity.Enrollment, error) {
	var out *entity.Enrollment
	r.s.access(r.inTx, func(st *state) {
		if e, ok := st.enrollments[id]; ok {
			out = &e
		}
	})
	return out, nil
}

func (r *enrollmentRepo) CountActiveByPlan(_ context.Context, planID string) (int, error) {
	n := 0
	r.s.access(r.inTx, func(st *state) {
		for _, e := range st.enrollments {
			if e.PlanID == planID && e.IsActive {
				n++
			}
		}
	})
	return n, nil
}

// ventas

type saleRepo struct {
	s    *Store
	inTx bool
}

func (r *saleRepo) NextFolio(_ context.Context, companyID string) (string, error) {
	var n int
	r.s.access(r.inTx, func(st *state) {
		st.folios[companyID]++
		n = st.folios[companyID]
	})
	return fmt.Sprintf("V-%06d", n), nil
}

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	var err error
	r.s.access(r.inTx, func(st *state) {
		ensureID(&s.ID)
		for _, other := range st.sales {
			if other.CompanyID == s.CompanyID && other.Folio == s.Folio {
				err = fmt.Errorf("folio %s: %w", s.Folio, domain.ErrDuplicate)
				return
			}
		}
		st.sales[s.ID] = cloneSale(s)
	})
	return err
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	r.s.access(r.inTx, func(st *state) {
		if s, ok := st.sales[id]; ok {
			out = cloneSale(s)
		}
	})
	return out, nil
}
