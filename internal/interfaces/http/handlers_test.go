package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gym-backoffice-api/internal/application/catalog"
	"github.com/jhoicas/gym-backoffice-api/internal/application/discount"
	"github.com/jhoicas/gym-backoffice-api/internal/application/dto"
	"github.com/jhoicas/gym-backoffice-api/internal/application/inventory"
	"github.com/jhoicas/gym-backoffice-api/internal/application/plans"
	"github.com/jhoicas/gym-backoffice-api/internal/application/sales"
	"github.com/jhoicas/gym-backoffice-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/gym-backoffice-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/gym-backoffice-api/internal/interfaces/http"
	"github.com/jhoicas/gym-backoffice-api/pkg/logger"
)

// apiClient app Fiber completa sobre el store en memoria, con un token de la empresa de prueba.
type apiClient struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	store := memory.New()
	log := logger.Nop()
	discounts := discount.NewRegistryUseCase(store.DiscountCodes(), store, log)
	checkout := sales.NewCheckoutUseCase(store, store.Sales(), discounts, nil, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Checkout:         checkout,
		Receipt:          sales.NewReceiptUseCase(checkout, store.Customers(), store.Products(), store.Plans(), infrapdf.NewReceiptGenerator("Gym Centro")),
		RegisterMovement: inventory.NewRegisterMovementUseCase(store, log),
		Stock:            inventory.NewStockUseCase(store.Movements(), store.Products(), store.Warehouses()),
		Discounts:        discounts,
		Plans:            plans.NewPublisherUseCase(store.Plans(), store.Revisions(), store, log),
		Catalog:          catalog.NewCatalogUseCase(store.Products(), store.Warehouses(), store.Customers(), log),
		JWTSecret:        testJWTSecret,
	})
	return &apiClient{t: t, app: app, token: bearer(t, testUserID, testCompanyID, "recepcion")}
}

// do envía la petición y decodifica la respuesta en out cuando no es nil.
func (a *apiClient) do(method, path string, body any, out any, headers ...string) *http.Response {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", a.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (a *apiClient) mustCreate(path string, body, out any) {
	a.t.Helper()
	resp := a.do(http.MethodPost, path, body, out)
	require.Equal(a.t, http.StatusCreated, resp.StatusCode, "POST %s", path)
}

// seed crea socio, producto de 250 con IVA y un almacén con 5 piezas.
func (a *apiClient) seed() (customerID, productID, warehouseID string) {
	a.t.Helper()
	var cust dto.CustomerResponse
	a.mustCreate("/api/customers", dto.CreateCustomerRequest{Name: "Ana Torres", Email: "ana@example.com"}, &cust)
	var prod dto.ProductResponse
	a.mustCreate("/api/products", dto.CreateProductRequest{Name: "Proteína 1kg", Price: decimal.NewFromInt(250), ApplyIVA: true}, &prod)
	var wh dto.WarehouseResponse
	a.mustCreate("/api/warehouses", dto.CreateWarehouseRequest{Name: "Mostrador"}, &wh)
	a.mustCreate("/api/inventory/movements", dto.RegisterMovementRequest{
		ProductID: prod.ID, WarehouseID: wh.ID, Type: "IN", Quantity: decimal.NewFromInt(5),
	}, nil)
	return cust.ID, prod.ID, wh.ID
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var e dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e.Code
}

func TestAPI_CheckoutConDescuentoYTicket(t *testing.T) {
	api := newAPI(t)
	customerID, productID, warehouseID := api.seed()
	api.mustCreate("/api/discount-codes", dto.CreateDiscountCodeRequest{
		Code: "enero10", Kind: "PERCENT", Value: decimal.NewFromInt(10), Capacity: 1,
	}, nil)

	var sale dto.SaleResponse
	resp := api.do(http.MethodPost, "/api/sales/checkout", dto.CheckoutRequest{
		CustomerID:   customerID,
		WarehouseID:  warehouseID,
		DiscountCode: "ENERO10",
		Items:        []dto.CheckoutItem{{ProductID: productID, Quantity: decimal.NewFromInt(1)}},
		Payments:     []dto.PaymentInput{{Method: "efectivo", Amount: decimal.NewFromInt(225)}},
	}, &sale)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "225", sale.Total.String())
	assert.Equal(t, "25", sale.DiscountAmount.String())
	require.Len(t, sale.Lines, 1)
	assert.NotEmpty(t, sale.Folio)

	var stock dto.StockResponse
	api.do(http.MethodGet, "/api/inventory/stock?product_id="+productID+"&warehouse_id="+warehouseID, nil, &stock)
	assert.Equal(t, "4", stock.Total.String())

	var check dto.ValidateDiscountResponse
	api.do(http.MethodGet, "/api/discount-codes/validate?code=enero10", nil, &check)
	assert.False(t, check.Valid, "el único uso se consumió en el checkout")

	var got dto.SaleResponse
	resp = api.do(http.MethodGet, "/api/sales/"+sale.ID, nil, &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, sale.Folio, got.Folio)

	resp = api.do(http.MethodGet, "/api/sales/"+sale.ID+"/receipt", nil, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "ticket-"+sale.Folio+".pdf")
	pdf, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestAPI_CheckoutErrores(t *testing.T) {
	api := newAPI(t)
	customerID, productID, warehouseID := api.seed()
	item := func(qty int64) []dto.CheckoutItem {
		return []dto.CheckoutItem{{ProductID: productID, WarehouseID: warehouseID, Quantity: decimal.NewFromInt(qty)}}
	}

	resp := api.do(http.MethodPost, "/api/sales/checkout", dto.CheckoutRequest{
		CustomerID: customerID, Items: item(1),
		Payments: []dto.PaymentInput{{Method: "tarjeta", Amount: decimal.NewFromInt(249)}},
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "PAYMENT_MISMATCH", errorCode(t, resp))

	resp = api.do(http.MethodPost, "/api/sales/checkout", dto.CheckoutRequest{CustomerID: customerID, Items: item(6)}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, resp))

	resp = api.do(http.MethodPost, "/api/sales/checkout", dto.CheckoutRequest{CustomerID: customerID, Items: item(1), DiscountCode: "NOEXISTE"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "DISCOUNT_NOT_USABLE", errorCode(t, resp))

	resp = api.do(http.MethodPost, "/api/sales/checkout", dto.CheckoutRequest{CustomerID: customerID}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))

	resp = api.do(http.MethodGet, "/api/sales/no-existe", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var stock dto.StockResponse
	api.do(http.MethodGet, "/api/inventory/stock?product_id="+productID, nil, &stock)
	assert.Equal(t, "5", stock.Total.String(), "los checkouts rechazados no mueven inventario")
	require.Len(t, stock.ByWarehouse, 1)
}

func TestAPI_InventarioValidaciones(t *testing.T) {
	api := newAPI(t)
	_, productID, warehouseID := api.seed()

	resp := api.do(http.MethodPost, "/api/inventory/movements", dto.RegisterMovementRequest{
		ProductID: productID, WarehouseID: warehouseID, Type: "OUT", Quantity: decimal.NewFromInt(1),
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.do(http.MethodGet, "/api/inventory/stock", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.do(http.MethodGet, "/api/inventory/stock?product_id="+productID+"&as_of=ayer", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var stock dto.StockResponse
	resp = api.do(http.MethodGet, "/api/inventory/stock?product_id="+productID+"&as_of=2000-01-01", nil, &stock)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, stock.Total.IsZero())
}

func TestAPI_PlanesRevisionesYAltas(t *testing.T) {
	api := newAPI(t)
	customerID, _, _ := api.seed()

	var plan dto.PlanResponse
	api.mustCreate("/api/plans", dto.PlanRequest{
		Name:   "Mensual",
		Prices: []dto.PlanPriceDTO{{Scheme: "individual", BillingType: "mensual", Price: decimal.NewFromInt(600)}},
	}, &plan)

	var rev dto.PlanRevisionResponse
	api.mustCreate("/api/plans/"+plan.ID+"/revisions", nil, &rev)
	assert.Equal(t, 1, rev.Version)

	var eff dto.PlanRevisionResponse
	resp := api.do(http.MethodGet, "/api/plans/"+plan.ID+"/revisions/effective?date=2026-03-01", nil, &eff)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, rev.ID, eff.ID)

	var enr dto.EnrollmentResponse
	api.mustCreate("/api/enrollments", dto.EnrollRequest{
		CustomerID: customerID, PlanID: plan.ID, StartDate: "2026-03-01",
	}, &enr)
	assert.Equal(t, rev.ID, enr.PlanRevisionID)

	var edited dto.PlanResponse
	resp = api.do(http.MethodPut, "/api/plans/"+plan.ID, dto.PlanRequest{
		Name:   "Mensual plus",
		Prices: []dto.PlanPriceDTO{{Scheme: "individual", BillingType: "mensual", Price: decimal.NewFromInt(700)}},
	}, &edited)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, edited.RevisionID, "con altas activas la edición publica una revisión nueva")

	var history []dto.PlanRevisionResponse
	resp = api.do(http.MethodGet, "/api/plans/"+plan.ID+"/revisions", nil, &history)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, history, 2)
	assert.Equal(t, 1, history[0].Version)
	assert.Equal(t, rev.ID, history[0].ID)
	assert.Equal(t, 2, history[1].Version)
	assert.Equal(t, edited.RevisionID, history[1].ID)
	assert.Equal(t, "Mensual plus", history[1].Name)

	other := &apiClient{t: t, app: api.app, token: bearer(t, testUserID, "00000000-0000-0000-0000-0000000000ff", "admin")}
	resp = other.do(http.MethodGet, "/api/plans/"+plan.ID+"/revisions", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = api.do(http.MethodGet, "/api/plans/otro-plan/revisions/effective", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_CatalogoPorEmpresa(t *testing.T) {
	api := newAPI(t)
	_, productID, _ := api.seed()

	var list dto.ProductListResponse
	api.do(http.MethodGet, "/api/products?limit=500", nil, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "16", list.Items[0].TaxRate.String())
	assert.Equal(t, 100, list.Page.Limit)

	other := &apiClient{t: t, app: api.app, token: bearer(t, testUserID, "00000000-0000-0000-0000-0000000000ff", "admin")}
	resp := other.do(http.MethodGet, "/api/products/"+productID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = api.do(http.MethodPost, "/api/products", dto.CreateProductRequest{Name: "Toalla", Price: decimal.NewFromInt(-1)}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_SinToken(t *testing.T) {
	api := newAPI(t)
	api.token = ""
	resp := api.do(http.MethodGet, "/api/products", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
