package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
	"github.com/jhoicas/gym-backoffice-api/internal/infrastructure/memory"
)

const companyID = "00000000-0000-0000-0000-0000000000c1"

var day = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

func in(qty int64) *entity.InventoryMovement {
	return &entity.InventoryMovement{
		CompanyID: companyID, ProductID: "p1", WarehouseID: "w1",
		Type: entity.MovementTypeIN, Quantity: decimal.NewFromInt(qty), Date: day,
	}
}

func TestStore_ErrorRevierteLaTransaccion(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Movements().Create(ctx, in(3)))

	boom := errors.New("boom")
	err := s.Run(ctx, func(mov repository.InventoryMovementRepository, _ repository.ProductRepository, _ repository.WarehouseRepository) error {
		require.NoError(t, mov.Create(ctx, in(10)))
		qty, err := mov.StockAt(ctx, companyID, "p1", "w1", day)
		require.NoError(t, err)
		assert.Equal(t, "13", qty.String(), "dentro de la transacción se ven los cambios propios")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	qty, err := s.Movements().StockAt(ctx, companyID, "p1", "w1", day)
	require.NoError(t, err)
	assert.Equal(t, "3", qty.String())
}

func TestStore_CommitPersiste(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	err := s.RunDiscount(ctx, func(codes repository.DiscountCodeRepository) error {
		return codes.Create(ctx, &entity.DiscountCode{CompanyID: companyID, Code: "GYM", Kind: entity.DiscountKindPercent, Value: decimal.NewFromInt(5), Capacity: 2, Remaining: 2, IsActive: true})
	})
	require.NoError(t, err)

	dc, err := s.DiscountCodes().GetByCode(ctx, companyID, "GYM")
	require.NoError(t, err)
	require.NotNil(t, dc)
	assert.Equal(t, 2, dc.Remaining)
}

func TestStore_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.New().RunDiscount(ctx, func(repository.DiscountCodeRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStore_FoliosConsecutivosPorEmpresa(t *testing.T) {
	ctx := context.Background()
	sales := memory.New().Sales()
	a, err := sales.NextFolio(ctx, companyID)
	require.NoError(t, err)
	b, err := sales.NextFolio(ctx, companyID)
	require.NoError(t, err)
	other, err := sales.NextFolio(ctx, "otra")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, other)
}

func TestStore_NoEncontradoDevuelveNil(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	p, err := s.Products().GetByID(ctx, "nada")
	require.NoError(t, err)
	assert.Nil(t, p)
	sale, err := s.Sales().GetByID(ctx, "nada")
	require.NoError(t, err)
	assert.Nil(t, sale)
}
