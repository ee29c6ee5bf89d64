package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/gym-backoffice-api/internal/application/dto"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockUseCase consulta el stock derivado del ledger (sólo lectura).
type StockUseCase struct {
	movRepo       repository.InventoryMovementRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	now           func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	movRepo repository.InventoryMovementRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) *StockUseCase {
	return &StockUseCase{movRepo: movRepo, productRepo: productRepo, warehouseRepo: warehouseRepo, now: time.Now}
}

// StockAt stock de un producto en un almacén a la fecha asOf (nil = ahora). Sin movimientos devuelve 0.
func (uc *StockUseCase) StockAt(ctx context.Context, companyID, productID, warehouseID string, asOf *time.Time) (decimal.Decimal, error) {
	return uc.movRepo.StockAt(ctx, companyID, productID, warehouseID, uc.resolve(asOf))
}

// StockByWarehouse total y desglose por almacén de un producto.
func (uc *StockUseCase) StockByWarehouse(ctx context.Context, companyID, productID string, asOf *time.Time) (*entity.StockSummary, error) {
	rows, err := uc.movRepo.StockByWarehouse(ctx, companyID, productID, uc.resolve(asOf))
	if err != nil {
		return nil, err
	}
	summary := &entity.StockSummary{ProductID: productID, Total: decimal.Zero, ByWarehouse: rows}
	for _, r := range rows {
		summary.Total = summary.Total.Add(r.Quantity)
	}
	return summary, nil
}

// Stock resuelve GET /api/inventory/stock: con almacén devuelve el total del par,
// sin almacén el total más el desglose. El producto debe pertenecer a la empresa.
func (uc *StockUseCase) Stock(ctx context.Context, companyID, productID, warehouseID string, asOf *time.Time) (*dto.StockResponse, error) {
	if productID == "" {
		return nil, domain.Invalid("product_id es requerido")
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	at := uc.resolve(asOf)
	resp := &dto.StockResponse{ProductID: productID, WarehouseID: warehouseID, AsOf: at}

	if warehouseID != "" {
		wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
		if err != nil {
			return nil, err
		}
		if wh == nil || wh.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
		qty, err := uc.movRepo.StockAt(ctx, companyID, productID, warehouseID, at)
		if err != nil {
			return nil, err
		}
		resp.Total = qty
		return resp, nil
	}

	summary, err := uc.StockByWarehouse(ctx, companyID, productID, &at)
	if err != nil {
		return nil, err
	}
	resp.Total = summary.Total
	resp.ByWarehouse = make([]dto.WarehouseStockDTO, 0, len(summary.ByWarehouse))
	for _, w := range summary.ByWarehouse {
		resp.ByWarehouse = append(resp.ByWarehouse, dto.WarehouseStockDTO{
			WarehouseID:   w.WarehouseID,
			WarehouseName: w.WarehouseName,
			Quantity:      w.Quantity,
		})
	}
	return resp, nil
}

func (uc *StockUseCase) resolve(asOf *time.Time) time.Time {
	if asOf == nil {
		return uc.now()
	}
	return *asOf
}
