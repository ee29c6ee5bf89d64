package plan_test

import (
	"testing"
	"time"

	"github.com/jhoicas/gym-backoffice-api/internal/domain/plan"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_CopiaIndependiente(t *testing.T) {
	p := basePlan()
	p.ActiveFrom = date("2026-01-01")
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	rev := plan.Snapshot(p, 3, date("2026-02-01"), nil, "user-1", now)

	require.Equal(t, 3, rev.Version)
	assert.Equal(t, p.ID, rev.PlanID)
	assert.Equal(t, "Mensual libre", rev.Name)
	assert.Nil(t, rev.ValidTo)
	assert.Equal(t, "user-1", rev.CreatedBy)
	require.Len(t, rev.Prices, 2)
	require.Len(t, rev.Restrictions, 3)
	assert.NotEqual(t, p.Prices[0].ID, rev.Prices[0].ID, "los hijos reciben ids propios")

	// Editar el plan después no altera la revisión.
	p.Name = "Otro nombre"
	p.Prices[0].Price = decimal.NewFromInt(999)
	*p.Restrictions[0].Start = 0
	*p.ActiveFrom = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	p.Prices = p.Prices[:1]

	assert.Equal(t, "Mensual libre", rev.Name)
	assert.Equal(t, "500", rev.Prices[0].Price.String())
	assert.Equal(t, "06:00", rev.Restrictions[0].Start.String())
	assert.Equal(t, 2026, rev.ActiveFrom.Year())
	assert.Len(t, rev.Prices, 2)
}

func TestCloneRevision(t *testing.T) {
	rev := plan.Snapshot(basePlan(), 1, nil, nil, "u", time.Now())
	c := plan.CloneRevision(rev)
	c.Prices[0].Price = decimal.NewFromInt(1)
	*c.Restrictions[0].End = 1
	assert.Equal(t, "500", rev.Prices[0].Price.String())
	assert.Equal(t, "10:00", rev.Restrictions[0].End.String())
}

func TestClonePlan(t *testing.T) {
	p := basePlan()
	c := plan.ClonePlan(p)
	c.Restrictions = append(c.Restrictions[:0], c.Restrictions[1:]...)
	assert.Len(t, p.Restrictions, 3)
	assert.Equal(t, "lunes", p.Restrictions[0].Day)
}
