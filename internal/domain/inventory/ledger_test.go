package inventory_test

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/inventory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func mov(typ, product, warehouse string, qty int64, at time.Time) *entity.InventoryMovement {
	return &entity.InventoryMovement{
		ProductID:   product,
		WarehouseID: warehouse,
		Type:        typ,
		Quantity:    decimal.NewFromInt(qty),
		Date:        at,
	}
}

func TestSigned(t *testing.T) {
	assert.True(t, inventory.Signed(mov(entity.MovementTypeIN, "p", "w", 5, day0)).Equal(decimal.NewFromInt(5)))
	assert.True(t, inventory.Signed(mov(entity.MovementTypeOUT, "p", "w", 5, day0)).Equal(decimal.NewFromInt(-5)))
	assert.True(t, inventory.Signed(mov(entity.MovementTypeADJUSTMENT, "p", "w", -2, day0)).Equal(decimal.NewFromInt(-2)))
	assert.True(t, inventory.Signed(mov("OTRO", "p", "w", 9, day0)).IsZero())
}

func TestFold_OrdenNoAlteraResultado(t *testing.T) {
	events := []*entity.InventoryMovement{
		mov(entity.MovementTypeIN, "p1", "w1", 10, day0),
		mov(entity.MovementTypeOUT, "p1", "w1", 3, day0.Add(time.Hour)),
		mov(entity.MovementTypeADJUSTMENT, "p1", "w1", -1, day0.Add(2*time.Hour)),
		mov(entity.MovementTypeIN, "p1", "w2", 7, day0),
		mov(entity.MovementTypeIN, "p2", "w1", 4, day0),
	}
	want := inventory.Fold(events, "p1", "w1", day0.Add(24*time.Hour))
	assert.Equal(t, "6", want.String())

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]*entity.InventoryMovement(nil), events...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := inventory.Fold(shuffled, "p1", "w1", day0.Add(24*time.Hour))
		assert.True(t, want.Equal(got), "permutación %d: %s != %s", i, got, want)
	}
}

func TestFold_RespetaAsOf(t *testing.T) {
	events := []*entity.InventoryMovement{
		mov(entity.MovementTypeIN, "p1", "w1", 10, day0),
		mov(entity.MovementTypeOUT, "p1", "w1", 4, day0.Add(48*time.Hour)),
	}
	assert.True(t, inventory.Fold(events, "p1", "w1", day0.Add(-time.Second)).IsZero(), "sin movimientos todavía")
	assert.Equal(t, "10", inventory.Fold(events, "p1", "w1", day0).String(), "asOf incluye el instante exacto")
	assert.Equal(t, "6", inventory.Fold(events, "p1", "w1", day0.Add(72*time.Hour)).String())
}

func TestFoldByWarehouse(t *testing.T) {
	events := []*entity.InventoryMovement{
		mov(entity.MovementTypeIN, "p1", "w1", 10, day0),
		mov(entity.MovementTypeIN, "p1", "w2", 3, day0),
		mov(entity.MovementTypeOUT, "p1", "w2", 1, day0),
		mov(entity.MovementTypeIN, "p2", "w3", 8, day0),
	}
	got := inventory.FoldByWarehouse(events, "p1", day0)
	require.Len(t, got, 2)
	assert.Equal(t, "10", got["w1"].String())
	assert.Equal(t, "2", got["w2"].String())
}

func TestValidateMovement(t *testing.T) {
	cases := []struct {
		name string
		m    *entity.InventoryMovement
		ok   bool
	}{
		{"entrada positiva", mov(entity.MovementTypeIN, "p", "w", 3, day0), true},
		{"entrada cero", mov(entity.MovementTypeIN, "p", "w", 0, day0), false},
		{"salida negativa", mov(entity.MovementTypeOUT, "p", "w", -1, day0), false},
		{"ajuste negativo", mov(entity.MovementTypeADJUSTMENT, "p", "w", -2, day0), true},
		{"ajuste cero", mov(entity.MovementTypeADJUSTMENT, "p", "w", 0, day0), false},
		{"tipo desconocido", mov("TRANSFER", "p", "w", 1, day0), false},
		{"sin almacén", mov(entity.MovementTypeIN, "p", "", 1, day0), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := inventory.ValidateMovement(tc.m)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "se esperaba ErrInvalidInput, got %v", err)
		})
	}
}
