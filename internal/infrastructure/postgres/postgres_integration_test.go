//go:build integration

package postgres_test

// Pruebas contra PostgreSQL real vía testcontainers.
// Ejecutar con: go test -tags integration ./internal/infrastructure/...

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jhoicas/gym-backoffice-api/internal/application/catalog"
	"github.com/jhoicas/gym-backoffice-api/internal/application/discount"
	"github.com/jhoicas/gym-backoffice-api/internal/application/dto"
	"github.com/jhoicas/gym-backoffice-api/internal/application/inventory"
	"github.com/jhoicas/gym-backoffice-api/internal/application/plans"
	"github.com/jhoicas/gym-backoffice-api/internal/application/sales"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gym-backoffice-api/pkg/config"
	"github.com/jhoicas/gym-backoffice-api/pkg/logger"
)

const (
	companyID = "6f1c7a52-4b0e-4f7e-9d5a-0c1b2a3d4e51"
	userID    = "b3c9d8e7-1a2b-4c3d-8e9f-0a1b2c3d4e5f"
)

type pgEnv struct {
	pool      *pgxpool.Pool
	catalog   *catalog.CatalogUseCase
	movements *inventory.RegisterMovementUseCase
	stock     *inventory.StockUseCase
	discounts *discount.RegistryUseCase
	plans     *plans.PublisherUseCase
	checkout  *sales.CheckoutUseCase
}

func setupPostgres(t *testing.T) *pgEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("gym_test"),
		tcPostgres.WithUsername("gym"),
		tcPostgres.WithPassword("gym"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	url, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.ApplySchema(ctx, pool))
	// El esquema es idempotente.
	require.NoError(t, postgres.ApplySchema(ctx, pool))

	log := logger.Nop()
	tx := postgres.NewTxRunner(pool)
	discounts := discount.NewRegistryUseCase(postgres.NewDiscountCodeRepository(pool), tx, log)
	return &pgEnv{
		pool:      pool,
		catalog:   catalog.NewCatalogUseCase(postgres.NewProductRepository(pool), postgres.NewWarehouseRepository(pool), postgres.NewCustomerRepository(pool), log),
		movements: inventory.NewRegisterMovementUseCase(tx, log),
		stock:     inventory.NewStockUseCase(postgres.NewInventoryMovementRepository(pool), postgres.NewProductRepository(pool), postgres.NewWarehouseRepository(pool)),
		discounts: discounts,
		plans:     plans.NewPublisherUseCase(postgres.NewPlanRepository(pool), postgres.NewPlanRevisionRepository(pool), tx, log),
		checkout:  sales.NewCheckoutUseCase(tx, postgres.NewSaleRepository(pool), discounts, nil, log),
	}
}

// seed crea socio, producto de 250 con IVA y almacén con qty piezas.
func (e *pgEnv) seed(t *testing.T, qty int64) (customerID, productID, warehouseID string) {
	t.Helper()
	ctx := context.Background()
	c, err := e.catalog.CreateCustomer(ctx, companyID, dto.CreateCustomerRequest{Name: "Ana Torres"})
	require.NoError(t, err)
	p, err := e.catalog.CreateProduct(ctx, companyID, dto.CreateProductRequest{Name: "Proteína 1kg", Price: decimal.NewFromInt(250), ApplyIVA: true})
	require.NoError(t, err)
	w, err := e.catalog.CreateWarehouse(ctx, companyID, dto.CreateWarehouseRequest{Name: "Mostrador " + p.ID[:8]})
	require.NoError(t, err)
	past := time.Now().Add(-time.Hour)
	_, err = e.movements.RegisterMovementFromRequest(ctx, companyID, userID, dto.RegisterMovementRequest{
		ProductID: p.ID, WarehouseID: w.ID, Type: "IN", Quantity: decimal.NewFromInt(qty), Date: &past,
	})
	require.NoError(t, err)
	return c.ID, p.ID, w.ID
}

func TestPostgres_CheckoutCompleto(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	customerID, productID, warehouseID := env.seed(t, 5)
	_, err := env.discounts.Create(ctx, companyID, userID, dto.CreateDiscountCodeRequest{
		Code: "enero10", Kind: "PERCENT", Value: decimal.NewFromInt(10), Capacity: 1,
	})
	require.NoError(t, err)

	sale, err := env.checkout.Checkout(ctx, companyID, userID, dto.CheckoutRequest{
		CustomerID:   customerID,
		WarehouseID:  warehouseID,
		DiscountCode: "ENERO10",
		Items:        []dto.CheckoutItem{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
		Payments:     []dto.PaymentInput{{Method: "efectivo", Amount: decimal.NewFromInt(225)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "225", sale.Total.String())
	assert.Equal(t, "31.03", sale.TaxAmount.String())

	got, err := env.checkout.GetSale(ctx, companyID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.Folio, got.Folio)
	require.Len(t, got.Lines, 1)
	require.Len(t, got.Payments, 1)

	stock, err := env.stock.Stock(ctx, companyID, productID, warehouseID, nil)
	require.NoError(t, err)
	assert.Equal(t, "4", stock.Total.String())

	check, err := env.discounts.Validate(ctx, companyID, "enero10", nil)
	require.NoError(t, err)
	assert.False(t, check.Valid)
	assert.Equal(t, 0, check.Remaining)
}

func TestPostgres_FallaDePagoNoDejaRastro(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	customerID, productID, warehouseID := env.seed(t, 5)

	_, err := env.checkout.Checkout(ctx, companyID, userID, dto.CheckoutRequest{
		CustomerID: customerID,
		Items:      []dto.CheckoutItem{{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.NewFromInt(2)}},
		Payments:   []dto.PaymentInput{{Method: "efectivo", Amount: decimal.NewFromInt(499)}},
	})
	assert.True(t, errors.Is(err, domain.ErrPaymentMismatch))

	var sales int
	require.NoError(t, env.pool.QueryRow(ctx, `SELECT count(*) FROM sales WHERE company_id = $1`, companyID).Scan(&sales))
	assert.Zero(t, sales)

	stock, err := env.stock.Stock(ctx, companyID, productID, warehouseID, nil)
	require.NoError(t, err)
	assert.Equal(t, "5", stock.Total.String())
}

func TestPostgres_CheckoutsConcurrentesNoSobrevenden(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	customerID, productID, warehouseID := env.seed(t, 3)

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		shortage int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.checkout.Checkout(ctx, companyID, userID, dto.CheckoutRequest{
				CustomerID: customerID,
				Items:      []dto.CheckoutItem{{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.NewFromInt(1)}},
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				shortage++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, workers-3, shortage)
	stock, err := env.stock.Stock(ctx, companyID, productID, warehouseID, nil)
	require.NoError(t, err)
	assert.True(t, stock.Total.IsZero())
}

func TestPostgres_CanjesConcurrentes(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	_, err := env.discounts.Create(ctx, companyID, userID, dto.CreateDiscountCodeRequest{
		Code: "UNO", Kind: "FIXED_AMOUNT", Value: decimal.NewFromInt(50), Capacity: 1,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.discounts.Redeem(ctx, companyID, "uno")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrCodeNotUsable), "error inesperado: %v", err)
	}
	assert.Equal(t, 1, ok)
}

func TestPostgres_RevisionesDePlan(t *testing.T) {
	env := setupPostgres(t)
	ctx := context.Background()
	customerID, _, _ := env.seed(t, 1)

	p, err := env.plans.CreatePlan(ctx, companyID, userID, dto.PlanRequest{
		Name:         "Mensual",
		Prices:       []dto.PlanPriceDTO{{Scheme: "individual", BillingType: "mensual", Price: decimal.NewFromInt(600)}},
		Restrictions: []dto.PlanRestrictionDTO{{Day: "lunes", Start: "06:00", End: "22:00"}},
	})
	require.NoError(t, err)

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	enr, err := env.plans.Enroll(ctx, companyID, userID, dto.EnrollRequest{CustomerID: customerID, PlanID: p.ID, StartDate: "2026-03-01"})
	require.NoError(t, err)

	rev, err := env.plans.RevisionEffectiveOn(ctx, companyID, p.ID, day)
	require.NoError(t, err)
	require.NotNil(t, rev)
	assert.Equal(t, enr.PlanRevisionID, rev.ID)
	assert.Equal(t, 1, rev.Version)
	require.Len(t, rev.Prices, 1)
	require.Len(t, rev.Restrictions, 1)

	second, err := env.plans.Publish(ctx, companyID, userID, p.ID, &day, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)

	rev, err = env.plans.RevisionEffectiveOn(ctx, companyID, p.ID, day)
	require.NoError(t, err)
	assert.Equal(t, second.ID, rev.ID, "gana la versión más alta")
}
