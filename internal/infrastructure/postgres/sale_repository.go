package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo persiste ventas con partidas y pagos (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// NextFolio incrementa el consecutivo de la empresa. La fila del contador queda bloqueada
// hasta el fin de la transacción, por lo que los folios no se repiten.
func (r *SaleRepo) NextFolio(ctx context.Context, companyID string) (string, error) {
	query := `
		INSERT INTO sale_folios (company_id, last_value) VALUES ($1, 1)
		ON CONFLICT (company_id) DO UPDATE SET last_value = sale_folios.last_value + 1
		RETURNING last_value`
	var n int
	if err := r.q.QueryRow(ctx, query, companyID).Scan(&n); err != nil {
		return "", fmt.Errorf("next folio: %w", err)
	}
	return fmt.Sprintf("V-%06d", n), nil
}

// Create inserta cabecera, partidas y pagos.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, company_id, customer_id, branch_id, user_id, folio, date, subtotal, discount_amount,
			tax_amount, total, discount_code_id, payment_reference, notes, processed, sale_type,
			cfdi_use, cfdi_uuid, series, fiscal_folio, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.CompanyID, s.CustomerID, nullIfEmpty(s.BranchID), nullIfEmpty(s.UserID), s.Folio, s.Date,
		s.Subtotal, s.DiscountAmount, s.TaxAmount, s.Total, nullIfEmpty(s.DiscountCodeID),
		s.PaymentReference, s.Notes, s.Processed, s.SaleType, s.CFDIUse, s.CFDIUUID, s.Series, s.FiscalFolio,
		s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: folio %s", domain.ErrDuplicate, s.Folio)
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	for i, l := range s.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO sale_lines (id, sale_id, position, item_type, plan_id, product_id, warehouse_id, quantity,
				unit_price, subtotal, discount_amount, tax_rate, tax_amount, total, start_date, end_date, periodicity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			l.ID, s.ID, i, l.ItemType, nullIfEmpty(l.PlanID), nullIfEmpty(l.ProductID), nullIfEmpty(l.WarehouseID),
			l.Quantity, l.UnitPrice, l.Subtotal, l.DiscountAmount, l.TaxRate, l.TaxAmount, l.Total,
			l.StartDate, l.EndDate, l.Periodicity,
		)
		if err != nil {
			return fmt.Errorf("insert sale line: %w", err)
		}
	}
	for i, p := range s.Payments {
		_, err := r.q.Exec(ctx,
			`INSERT INTO payments (id, sale_id, position, method, amount) VALUES ($1, $2, $3, $4, $5)`,
			p.ID, s.ID, i, p.Method, p.Amount,
		)
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la venta con partidas y pagos en el orden de captura.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	if !validUUID(id) {
		return nil, nil
	}
	query := `
		SELECT id, company_id, customer_id, branch_id, user_id, folio, date, subtotal, discount_amount,
			tax_amount, total, discount_code_id, payment_reference, notes, processed, sale_type,
			cfdi_use, cfdi_uuid, series, fiscal_folio, created_at
		FROM sales WHERE id = $1`
	var s entity.Sale
	var branchID, userID, codeID *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.CompanyID, &s.CustomerID, &branchID, &userID, &s.Folio, &s.Date, &s.Subtotal,
		&s.DiscountAmount, &s.TaxAmount, &s.Total, &codeID, &s.PaymentReference, &s.Notes, &s.Processed,
		&s.SaleType, &s.CFDIUse, &s.CFDIUUID, &s.Series, &s.FiscalFolio, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.BranchID, s.UserID, s.DiscountCodeID = derefString(branchID), derefString(userID), derefString(codeID)

	rows, err := r.q.Query(ctx, `
		SELECT id, item_type, plan_id, product_id, warehouse_id, quantity, unit_price, subtotal,
			discount_amount, tax_rate, tax_amount, total, start_date, end_date, periodicity
		FROM sale_lines WHERE sale_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get sale lines: %w", err)
	}
	for rows.Next() {
		var l entity.SaleLine
		var planID, productID, warehouseID *string
		var start, end *time.Time
		if err := rows.Scan(&l.ID, &l.ItemType, &planID, &productID, &warehouseID, &l.Quantity, &l.UnitPrice,
			&l.Subtotal, &l.DiscountAmount, &l.TaxRate, &l.TaxAmount, &l.Total, &start, &end, &l.Periodicity); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		l.SaleID = s.ID
		l.PlanID, l.ProductID, l.WarehouseID = derefString(planID), derefString(productID), derefString(warehouseID)
		l.StartDate, l.EndDate = start, end
		s.Lines = append(s.Lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.q.Query(ctx, `SELECT id, method, amount FROM payments WHERE sale_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p := entity.Payment{SaleID: s.ID}
		if err := rows.Scan(&p.ID, &p.Method, &p.Amount); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		s.Payments = append(s.Payments, p)
	}
	return &s, rows.Err()
}
