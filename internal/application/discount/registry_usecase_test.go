package discount_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jhoicas/gym-backoffice-api/internal/application/discount"
	"github.com/jhoicas/gym-backoffice-api/internal/application/dto"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/infrastructure/memory"
	"github.com/jhoicas/gym-backoffice-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	companyID = "00000000-0000-0000-0000-00000000c001"
	userID    = "00000000-0000-0000-0000-00000000u001"
)

func newRegistry() (*discount.RegistryUseCase, *memory.Store) {
	store := memory.New()
	return discount.NewRegistryUseCase(store.DiscountCodes(), store, logger.Nop()), store
}

func createCode(t *testing.T, uc *discount.RegistryUseCase, code, kind, value string, capacity int) {
	t.Helper()
	_, err := uc.Create(context.Background(), companyID, userID, dto.CreateDiscountCodeRequest{
		Code:     code,
		Kind:     kind,
		Value:    decimal.RequireFromString(value),
		Capacity: capacity,
	})
	require.NoError(t, err)
}

func TestCreate_NormalizaYDefaults(t *testing.T) {
	uc, store := newRegistry()
	code, err := uc.Create(context.Background(), companyID, userID, dto.CreateDiscountCodeRequest{
		Code: " promo10 ", Kind: "PERCENT", Value: decimal.NewFromInt(10), Capacity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "PROMO10", code.Code)
	assert.Equal(t, 5, code.Remaining)
	assert.True(t, code.IsActive)

	stored, err := store.DiscountCodes().GetByCode(context.Background(), companyID, "PROMO10")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, code.ID, stored.ID)
}

func TestCreate_Duplicado(t *testing.T) {
	uc, _ := newRegistry()
	createCode(t, uc, "PROMO", "PERCENT", "10", 1)
	_, err := uc.Create(context.Background(), companyID, userID, dto.CreateDiscountCodeRequest{
		Code: "promo", Kind: "FIXED_AMOUNT", Value: decimal.NewFromInt(50), Capacity: 1,
	})
	assert.True(t, errors.Is(err, domain.ErrDuplicate), "got %v", err)
}

func TestCreate_Invalidos(t *testing.T) {
	uc, _ := newRegistry()
	four := 4
	cases := map[string]dto.CreateDiscountCodeRequest{
		"porcentaje mayor a 100": {Code: "A", Kind: "PERCENT", Value: decimal.NewFromInt(120), Capacity: 1},
		"porcentaje cero":        {Code: "B", Kind: "PERCENT", Value: decimal.Zero, Capacity: 1},
		"monto negativo":         {Code: "C", Kind: "FIXED_AMOUNT", Value: decimal.NewFromInt(-1), Capacity: 1},
		"tipo desconocido":       {Code: "D", Kind: "BOGO", Value: decimal.NewFromInt(1), Capacity: 1},
		"restantes > cantidad":   {Code: "E", Kind: "PERCENT", Value: decimal.NewFromInt(5), Capacity: 3, Remaining: &four},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), companyID, userID, in)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestRedeem_AgotaTrasTresUsos(t *testing.T) {
	uc, _ := newRegistry()
	ctx := context.Background()
	createCode(t, uc, "TRES", "PERCENT", "10", 3)

	for want := 2; want >= 0; want-- {
		remaining, err := uc.Redeem(ctx, companyID, "tres")
		require.NoError(t, err)
		assert.Equal(t, want, remaining)
	}

	_, err := uc.Redeem(ctx, companyID, "TRES")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCodeNotUsable))
	var cnu *domain.CodeNotUsableError
	require.True(t, errors.As(err, &cnu))
	assert.Equal(t, discount.ReasonExhausted, cnu.Reason)

	res, err := uc.Validate(ctx, companyID, "TRES", nil)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, discount.ReasonExhausted, res.Reason)
	assert.Equal(t, 0, res.Remaining)
}

func TestRedeem_ConcurrenteUnSoloGanador(t *testing.T) {
	uc, store := newRegistry()
	createCode(t, uc, "UNICO", "FIXED_AMOUNT", "50", 1)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Redeem(context.Background(), companyID, "UNICO")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			if errors.Is(err, domain.ErrCodeNotUsable) {
				failures++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, failures)
	dc, err := store.DiscountCodes().GetByCode(context.Background(), companyID, "UNICO")
	require.NoError(t, err)
	assert.Equal(t, 0, dc.Remaining)
}

func TestValidate_NoConsumeYCalculaTotales(t *testing.T) {
	uc, _ := newRegistry()
	ctx := context.Background()
	createCode(t, uc, "DIEZ", "PERCENT", "10", 2)

	subtotal := decimal.NewFromInt(250)
	res, err := uc.Validate(ctx, companyID, " diez", &subtotal)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, 2, res.Remaining)
	assert.Equal(t, "25", res.DiscountAmount.String())
	assert.Equal(t, "225", res.FinalTotal.String())

	res, err = uc.Validate(ctx, companyID, "DIEZ", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Remaining, "validar no consume usos")
	assert.Nil(t, res.FinalTotal)
}

func TestValidate_MotivosSinError(t *testing.T) {
	uc, _ := newRegistry()
	ctx := context.Background()
	inactive := false
	_, err := uc.Create(ctx, companyID, userID, dto.CreateDiscountCodeRequest{
		Code: "APAGADO", Kind: "PERCENT", Value: decimal.NewFromInt(5), Capacity: 3, IsActive: &inactive,
	})
	require.NoError(t, err)

	res, err := uc.Validate(ctx, companyID, "APAGADO", nil)
	require.NoError(t, err)
	assert.Equal(t, discount.ReasonInactive, res.Reason)

	res, err = uc.Validate(ctx, companyID, "NOEXISTE", nil)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, discount.ReasonNotFound, res.Reason)

	// Otra empresa no ve el código.
	res, err = uc.Validate(ctx, "00000000-0000-0000-0000-00000000c002", "APAGADO", nil)
	require.NoError(t, err)
	assert.Equal(t, discount.ReasonNotFound, res.Reason)
}

func TestRedeem_MotivoSegunEstado(t *testing.T) {
	uc, _ := newRegistry()
	ctx := context.Background()
	inactive := false
	_, err := uc.Create(ctx, companyID, userID, dto.CreateDiscountCodeRequest{
		Code: "APAGADO", Kind: "PERCENT", Value: decimal.NewFromInt(5), Capacity: 3, IsActive: &inactive,
	})
	require.NoError(t, err)
	createCode(t, uc, "UNICO", "FIXED_AMOUNT", "20", 1)
	_, err = uc.Redeem(ctx, companyID, "unico")
	require.NoError(t, err)

	cases := map[string]string{
		"APAGADO":  discount.ReasonInactive,
		"UNICO":    discount.ReasonExhausted,
		"NOEXISTE": discount.ReasonNotFound,
	}
	for code, reason := range cases {
		_, err := uc.Redeem(ctx, companyID, code)
		require.True(t, errors.Is(err, domain.ErrCodeNotUsable), "%s: %v", code, err)
		var cnu *domain.CodeNotUsableError
		require.True(t, errors.As(err, &cnu))
		assert.Equal(t, reason, cnu.Reason, code)
	}

	res, err := uc.Validate(ctx, companyID, "UNICO", nil)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, discount.ReasonExhausted, res.Reason)
	assert.Equal(t, 0, res.Remaining)
}
