package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
)

var _ repository.DiscountCodeRepository = (*DiscountCodeRepo)(nil)

// DiscountCodeRepo implementación de DiscountCodeRepository (usable con pool o tx).
type DiscountCodeRepo struct {
	q Querier
}

// NewDiscountCodeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDiscountCodeRepository(q Querier) *DiscountCodeRepo {
	return &DiscountCodeRepo{q: q}
}

const discountColumns = `id, company_id, code, kind, value, capacity, remaining, is_active, user_id, created_at, updated_at`

// Create persiste un código; (company_id, code) es único.
func (r *DiscountCodeRepo) Create(ctx context.Context, c *entity.DiscountCode) error {
	query := `INSERT INTO discount_codes (` + discountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CompanyID, c.Code, c.Kind, c.Value, c.Capacity, c.Remaining, c.IsActive,
		nullIfEmpty(c.UserID), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert discount code: %w", err)
	}
	return nil
}

// GetByCode obtiene un código sin bloquear.
func (r *DiscountCodeRepo) GetByCode(ctx context.Context, companyID, code string) (*entity.DiscountCode, error) {
	return r.get(ctx, `SELECT `+discountColumns+` FROM discount_codes WHERE company_id = $1 AND code = $2`, companyID, code)
}

// GetByCodeForUpdate obtiene el código con SELECT ... FOR UPDATE.
func (r *DiscountCodeRepo) GetByCodeForUpdate(ctx context.Context, companyID, code string) (*entity.DiscountCode, error) {
	return r.get(ctx, `SELECT `+discountColumns+` FROM discount_codes WHERE company_id = $1 AND code = $2 FOR UPDATE`, companyID, code)
}

func (r *DiscountCodeRepo) get(ctx context.Context, query, companyID, code string) (*entity.DiscountCode, error) {
	var c entity.DiscountCode
	var userID *string
	err := r.q.QueryRow(ctx, query, companyID, code).Scan(
		&c.ID, &c.CompanyID, &c.Code, &c.Kind, &c.Value, &c.Capacity, &c.Remaining,
		&c.IsActive, &userID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get discount code: %w", err)
	}
	c.UserID = derefString(userID)
	return &c, nil
}

// Decrement resta un uso sólo si el código está activo y quedan usos.
func (r *DiscountCodeRepo) Decrement(ctx context.Context, id string) (int, error) {
	query := `
		UPDATE discount_codes SET remaining = remaining - 1, updated_at = now()
		WHERE id = $1 AND is_active AND remaining > 0
		RETURNING remaining`
	var remaining int
	if err := r.q.QueryRow(ctx, query, id).Scan(&remaining); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrCodeNotUsable
		}
		return 0, fmt.Errorf("decrement discount code: %w", err)
	}
	return remaining, nil
}
