package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gym-backoffice-api/internal/application/dto"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
	"github.com/jhoicas/gym-backoffice-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Tasas de IVA aceptadas: exento, frontera y general.
var ivaRates = []decimal.Decimal{decimal.Zero, decimal.NewFromInt(8), entity.DefaultIVARate}

// CatalogUseCase alta y consulta de productos, almacenes y socios.
// Cost y Stock no existen aquí: el stock se deriva del ledger de movimientos.
type CatalogUseCase struct {
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	customers  repository.CustomerRepository
	log        *logger.Logger
	now        func() time.Time
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(
	products repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	customers repository.CustomerRepository,
	log *logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{products: products, warehouses: warehouses, customers: customers, log: log, now: time.Now}
}

// CreateProduct crea un producto activo. El precio incluye impuestos.
func (uc *CatalogUseCase) CreateProduct(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Price.IsNegative() {
		return nil, domain.Invalid("el precio no puede ser negativo")
	}
	rate := decimal.Zero
	if in.IVARate != nil {
		if !allowedIVA(*in.IVARate) {
			return nil, domain.Invalid("tasa de IVA no soportada: %s", in.IVARate.String())
		}
		rate = *in.IVARate
	}
	now := uc.now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Name:        in.Name,
		Description: in.Description,
		Barcode:     in.Barcode,
		Price:       in.Price,
		ApplyIVA:    in.ApplyIVA,
		IVARate:     rate,
		ApplyIEPS:   in.ApplyIEPS,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.products.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", p.ID).Str("company_id", companyID).Msg("producto creado")
	return toProductResponse(p), nil
}

// GetProduct obtiene un producto de la empresa. Un producto ajeno se reporta como inexistente.
func (uc *CatalogUseCase) GetProduct(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(p), nil
}

// ListProducts lista productos por empresa con paginación.
func (uc *CatalogUseCase) ListProducts(ctx context.Context, companyID string, limit, offset int) (*dto.ProductListResponse, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.products.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// CreateWarehouse crea un almacén.
func (uc *CatalogUseCase) CreateWarehouse(ctx context.Context, companyID string, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	now := uc.now()
	w := &entity.Warehouse{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		BranchID:    in.BranchID,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.warehouses.Create(ctx, w); err != nil {
		return nil, err
	}
	return toWarehouseResponse(w), nil
}

// ListWarehouses lista los almacenes de la empresa por nombre.
func (uc *CatalogUseCase) ListWarehouses(ctx context.Context, companyID string) ([]dto.WarehouseResponse, error) {
	list, err := uc.warehouses.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		out = append(out, *toWarehouseResponse(w))
	}
	return out, nil
}

// CreateCustomer da de alta un socio activo.
func (uc *CatalogUseCase) CreateCustomer(ctx context.Context, companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	now := uc.now()
	c := &entity.Customer{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		RFC:       in.RFC,
		Email:     in.Email,
		Phone:     in.Phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.customers.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// GetCustomer obtiene un socio de la empresa.
func (uc *CatalogUseCase) GetCustomer(ctx context.Context, companyID, id string) (*dto.CustomerResponse, error) {
	c, err := uc.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || c.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(c), nil
}

func allowedIVA(rate decimal.Decimal) bool {
	for _, r := range ivaRates {
		if rate.Equal(r) {
			return true
		}
	}
	return false
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Barcode:     p.Barcode,
		Price:       p.Price,
		ApplyIVA:    p.ApplyIVA,
		ApplyIEPS:   p.ApplyIEPS,
		TaxRate:     p.TaxRate(),
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
	}
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:          w.ID,
		BranchID:    w.BranchID,
		Name:        w.Name,
		Description: w.Description,
		CreatedAt:   w.CreatedAt,
	}
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		RFC:       c.RFC,
		Email:     c.Email,
		Phone:     c.Phone,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
}
