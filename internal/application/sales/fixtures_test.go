package sales_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/gym-backoffice-api/internal/application/discount"
	"github.com/jhoicas/gym-backoffice-api/internal/application/dto"
	"github.com/jhoicas/gym-backoffice-api/internal/application/sales"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/jhoicas/gym-backoffice-api/internal/infrastructure/memory"
	"github.com/jhoicas/gym-backoffice-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	companyID      = "00000000-0000-0000-0000-0000000000c1"
	otherCompanyID = "00000000-0000-0000-0000-0000000000c2"
	userID         = "00000000-0000-0000-0000-0000000000a1"
)

var t0 = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store       *memory.Store
	discounts   *discount.RegistryUseCase
	checkout    *sales.CheckoutUseCase
	customerID  string
	productID   string
	warehouseID string
	planID      string
}

// newFixture arma un store con un socio, un producto de 250 (IVA incluido),
// un almacén con 5 piezas y un plan.
func newFixture(t *testing.T, guard sales.IdempotencyGuard) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	f := &fixture{
		store:       store,
		customerID:  "cust-1",
		productID:   "prod-1",
		warehouseID: "wh-1",
		planID:      "plan-1",
	}
	require.NoError(t, store.Customers().Create(ctx, &entity.Customer{
		ID: f.customerID, CompanyID: companyID, Name: "Ana Torres", IsActive: true,
	}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: f.productID, CompanyID: companyID, Name: "Proteína 1kg",
		Price: decimal.NewFromInt(250), ApplyIVA: true, IsActive: true,
	}))
	require.NoError(t, store.Warehouses().Create(ctx, &entity.Warehouse{
		ID: f.warehouseID, CompanyID: companyID, Name: "Mostrador",
	}))
	require.NoError(t, store.Plans().Create(ctx, &entity.Plan{
		ID: f.planID, CompanyID: companyID, Name: "Mensual", IsActive: true,
	}))
	f.addStock(t, 5)

	f.discounts = discount.NewRegistryUseCase(store.DiscountCodes(), store, logger.Nop())
	f.checkout = sales.NewCheckoutUseCase(store, store.Sales(), f.discounts, guard, logger.Nop())
	return f
}

func (f *fixture) addStock(t *testing.T, qty int64) {
	t.Helper()
	require.NoError(t, f.store.Movements().Create(context.Background(), &entity.InventoryMovement{
		CompanyID:   companyID,
		ProductID:   f.productID,
		WarehouseID: f.warehouseID,
		Type:        entity.MovementTypeIN,
		Quantity:    decimal.NewFromInt(qty),
		Date:        t0,
	}))
}

func (f *fixture) createCode(t *testing.T, code, kind string, value int64, capacity int) {
	t.Helper()
	f.createCodeValue(t, code, kind, decimal.NewFromInt(value), capacity)
}

func (f *fixture) createCodeValue(t *testing.T, code, kind string, value decimal.Decimal, capacity int) {
	t.Helper()
	_, err := f.discounts.Create(context.Background(), companyID, userID, dto.CreateDiscountCodeRequest{
		Code: code, Kind: kind, Value: value, Capacity: capacity,
	})
	require.NoError(t, err)
}

func (f *fixture) planItem(qty int64, price string) dto.CheckoutItem {
	p := decimal.RequireFromString(price)
	return dto.CheckoutItem{PlanID: f.planID, Quantity: decimal.NewFromInt(qty), UnitPrice: &p}
}

func (f *fixture) stock(t *testing.T) decimal.Decimal {
	t.Helper()
	qty, err := f.store.Movements().StockAt(context.Background(), companyID, f.productID, f.warehouseID, time.Now().AddDate(1, 0, 0))
	require.NoError(t, err)
	return qty
}

func (f *fixture) remaining(t *testing.T, code string) int {
	t.Helper()
	dc, err := f.store.DiscountCodes().GetByCode(context.Background(), companyID, code)
	require.NoError(t, err)
	require.NotNil(t, dc)
	return dc.Remaining
}

func (f *fixture) productItem(qty int64) dto.CheckoutItem {
	return dto.CheckoutItem{ProductID: f.productID, WarehouseID: f.warehouseID, Quantity: decimal.NewFromInt(qty)}
}

func payment(method, amount string) dto.PaymentInput {
	return dto.PaymentInput{Method: method, Amount: decimal.RequireFromString(amount)}
}

// memoryGuard guard de idempotencia en memoria para los tests.
type memoryGuard struct {
	mu    sync.Mutex
	held  map[string]bool
	sales map[string]string
}

func newMemoryGuard() *memoryGuard {
	return &memoryGuard{held: map[string]bool{}, sales: map[string]string{}}
}

func (g *memoryGuard) Acquire(_ context.Context, companyID, key string) (string, func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	k := companyID + ":" + key
	if id, ok := g.sales[k]; ok {
		return id, func() {}, nil
	}
	if g.held[k] {
		return "", func() {}, domain.ErrConflict
	}
	g.held[k] = true
	return "", func() {
		g.mu.Lock()
		delete(g.held, k)
		g.mu.Unlock()
	}, nil
}

func (g *memoryGuard) Remember(_ context.Context, companyID, key, saleID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sales[companyID+":"+key] = saleID
	return nil
}
