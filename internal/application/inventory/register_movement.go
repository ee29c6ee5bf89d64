package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gym-backoffice-api/internal/application/dto"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/inventory"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
	"github.com/jhoicas/gym-backoffice-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// RegisterMovementUseCase agrega entradas (IN) y ajustes (ADJUSTMENT) al ledger.
// Las salidas (OUT) las emite únicamente el checkout.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, log *logger.Logger) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, log: log, now: time.Now}
}

// MovementInput entrada para registrar un movimiento.
type MovementInput struct {
	CompanyID   string
	UserID      string
	ProductID   string
	WarehouseID string
	Type        string
	Quantity    decimal.Decimal
	ReferenceID string
	Date        *time.Time // nil = ahora
}

// RegisterMovementFromRequest adapta el request HTTP al caso de uso.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, companyID, userID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	m, err := uc.RegisterMovement(ctx, MovementInput{
		CompanyID:   companyID,
		UserID:      userID,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		ReferenceID: in.ReferenceID,
		Date:        in.Date,
	})
	if err != nil {
		return nil, err
	}
	return &dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		WarehouseID: m.WarehouseID,
		Type:        m.Type,
		Quantity:    m.Quantity,
		ReferenceID: m.ReferenceID,
		Date:        m.Date,
	}, nil
}

// RegisterMovement valida y agrega el movimiento en una transacción.
// Producto y almacén deben existir y pertenecer a la empresa.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*entity.InventoryMovement, error) {
	if input.Type == entity.MovementTypeOUT {
		return nil, domain.Invalid("las salidas sólo se registran mediante una venta")
	}
	now := uc.now()
	date := now
	if input.Date != nil {
		date = *input.Date
	}
	m := &entity.InventoryMovement{
		ID:          uuid.New().String(),
		CompanyID:   input.CompanyID,
		ProductID:   input.ProductID,
		WarehouseID: input.WarehouseID,
		Type:        input.Type,
		Quantity:    input.Quantity,
		ReferenceID: input.ReferenceID,
		Date:        date,
		CreatedAt:   now,
		CreatedBy:   input.UserID,
	}
	if err := inventory.ValidateMovement(m); err != nil {
		return nil, err
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		warehouseRepo repository.WarehouseRepository,
	) error {
		product, err := productRepo.GetByID(ctx, m.ProductID)
		if err != nil {
			return err
		}
		if product == nil || product.CompanyID != m.CompanyID {
			return domain.ErrNotFound
		}
		wh, err := warehouseRepo.GetByID(ctx, m.WarehouseID)
		if err != nil {
			return err
		}
		if wh == nil || wh.CompanyID != m.CompanyID {
			return domain.ErrNotFound
		}
		return movRepo.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("movement_id", m.ID).
		Str("product_id", m.ProductID).
		Str("warehouse_id", m.WarehouseID).
		Str("type", m.Type).
		Str("quantity", m.Quantity.String()).
		Msg("movimiento de inventario registrado")
	return m, nil
}
