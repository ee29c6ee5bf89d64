package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gym-backoffice-api/internal/application/dto"
	"github.com/jhoicas/gym-backoffice-api/internal/domain"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
	"github.com/jhoicas/gym-backoffice-api/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	cent    = decimal.New(1, -2)
	// endOfTime incluye en la verificación de stock todos los movimientos registrados.
	endOfTime = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
)

// CheckoutUseCase liquida una venta: partidas, pagos, canje de descuento y salidas de
// inventario en una sola transacción. Cualquier error revierte todo.
type CheckoutUseCase struct {
	txRunner  TxRunner
	saleRepo  repository.SaleRepository
	discounts DiscountLocker
	guard     IdempotencyGuard
	log       *logger.Logger
	now       func() time.Time
}

// NewCheckoutUseCase construye el caso de uso. guard puede ser nil.
func NewCheckoutUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	discounts DiscountLocker,
	guard IdempotencyGuard,
	log *logger.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		txRunner:  txRunner,
		saleRepo:  saleRepo,
		discounts: discounts,
		guard:     guard,
		log:       log,
		now:       time.Now,
	}
}

// lineDraft partida validada, pendiente de precio y referencias.
type lineDraft struct {
	itemType    string
	planID      string
	productID   string
	warehouseID string
	quantity    decimal.Decimal
	unitPrice   *decimal.Decimal
	startDate   *time.Time
	endDate     *time.Time
	periodicity string
}

// stockKey par (producto, almacén) de una salida.
type stockKey struct {
	productID   string
	warehouseID string
}

// Checkout liquida la venta. Con IdempotencyKey y guard configurado, un reenvío devuelve
// la venta ya registrada en lugar de liquidarla otra vez.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, companyID, userID string, req dto.CheckoutRequest) (*entity.Sale, error) {
	if req.IdempotencyKey == "" || uc.guard == nil {
		return uc.settle(ctx, companyID, userID, req)
	}
	existing, release, err := uc.guard.Acquire(ctx, companyID, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	defer release()
	if existing != "" {
		return uc.GetSale(ctx, companyID, existing)
	}
	sale, err := uc.settle(ctx, companyID, userID, req)
	if err != nil {
		return nil, err
	}
	if err := uc.guard.Remember(ctx, companyID, req.IdempotencyKey, sale.ID); err != nil {
		uc.log.Warn().Err(err).Str("sale_id", sale.ID).Msg("no se pudo registrar la clave de idempotencia")
	}
	return sale, nil
}

// GetSale devuelve la venta con partidas y pagos.
func (uc *CheckoutUseCase) GetSale(ctx context.Context, companyID, saleID string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return sale, nil
}

func (uc *CheckoutUseCase) settle(ctx context.Context, companyID, userID string, req dto.CheckoutRequest) (*entity.Sale, error) {
	drafts, err := validateRequest(req)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	saleDate := now
	if req.Date != nil {
		saleDate = *req.Date
	}

	var sale *entity.Sale
	err = uc.txRunner.RunCheckout(ctx, func(
		saleRepo repository.SaleRepository,
		movRepo repository.InventoryMovementRepository,
		codeRepo repository.DiscountCodeRepository,
		productRepo repository.ProductRepository,
		warehouseRepo repository.WarehouseRepository,
		planRepo repository.PlanRepository,
		customerRepo repository.CustomerRepository,
	) error {
		customer, err := customerRepo.GetByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil || customer.CompanyID != companyID {
			return domain.Invalid("cliente %s no existe", req.CustomerID)
		}

		s := &entity.Sale{
			ID:               uuid.New().String(),
			CompanyID:        companyID,
			CustomerID:       req.CustomerID,
			BranchID:         req.BranchID,
			UserID:           userID,
			Date:             saleDate,
			PaymentReference: req.PaymentReference,
			Notes:            req.Notes,
			SaleType:         req.SaleType,
			CFDIUse:          req.CFDIUse,
			CFDIUUID:         req.CFDIUUID,
			Series:           req.Series,
			FiscalFolio:      req.FiscalFolio,
			CreatedAt:        now,
		}

		// 1. Referencias y precios.
		checkedWarehouses := map[string]bool{}
		subtotal := decimal.Zero
		for _, d := range drafts {
			line := entity.SaleLine{
				ID:          uuid.New().String(),
				SaleID:      s.ID,
				ItemType:    d.itemType,
				PlanID:      d.planID,
				ProductID:   d.productID,
				WarehouseID: d.warehouseID,
				Quantity:    d.quantity,
				TaxRate:     decimal.Zero,
				StartDate:   d.startDate,
				EndDate:     d.endDate,
				Periodicity: d.periodicity,
			}
			switch d.itemType {
			case entity.SaleItemProduct:
				product, err := productRepo.GetByID(ctx, d.productID)
				if err != nil {
					return err
				}
				if product == nil || product.CompanyID != companyID {
					return domain.Invalid("producto %s no existe", d.productID)
				}
				line.UnitPrice = product.Price
				if d.unitPrice != nil {
					line.UnitPrice = *d.unitPrice
				}
				line.TaxRate = product.TaxRate()
				if d.warehouseID != "" && !checkedWarehouses[d.warehouseID] {
					wh, err := warehouseRepo.GetByID(ctx, d.warehouseID)
					if err != nil {
						return err
					}
					if wh == nil || wh.CompanyID != companyID {
						return domain.Invalid("almacén %s no existe", d.warehouseID)
					}
					checkedWarehouses[d.warehouseID] = true
				}
			case entity.SaleItemPlan:
				p, err := planRepo.GetByID(ctx, d.planID)
				if err != nil {
					return err
				}
				if p == nil || p.CompanyID != companyID {
					return domain.Invalid("plan %s no existe", d.planID)
				}
				line.UnitPrice = *d.unitPrice
			}
			line.Subtotal = line.Quantity.Mul(line.UnitPrice).Round(2)
			subtotal = subtotal.Add(line.Subtotal)
			s.Lines = append(s.Lines, line)
		}
		s.Subtotal = subtotal

		// 2. Descuento (queda bloqueado hasta el fin de la tx).
		var dc *entity.DiscountCode
		discountAmount := decimal.Zero
		if code := strings.TrimSpace(req.DiscountCode); code != "" {
			dc, err = uc.discounts.LockInTx(ctx, codeRepo, companyID, code)
			if err != nil {
				var cnu *domain.CodeNotUsableError
				if errors.As(err, &cnu) {
					return fmt.Errorf("%w: %s", domain.ErrDiscountNotUsable, cnu.Reason)
				}
				return err
			}
			discountAmount = dc.Rebate(subtotal)
			s.DiscountCodeID = dc.ID
		}
		s.DiscountAmount = discountAmount
		s.Total = decimal.Max(subtotal.Sub(discountAmount), decimal.Zero).Round(2)
		allocateDiscount(s.Lines, subtotal, discountAmount)
		s.TaxAmount = decimal.Zero
		for _, l := range s.Lines {
			s.TaxAmount = s.TaxAmount.Add(l.TaxAmount)
		}

		// 3. Pagos: sin pagos se permite liquidación diferida; con pagos deben cubrir el total exacto.
		paid := decimal.Zero
		for _, p := range req.Payments {
			s.Payments = append(s.Payments, entity.Payment{
				ID:     uuid.New().String(),
				SaleID: s.ID,
				Method: strings.ToLower(strings.TrimSpace(p.Method)),
				Amount: p.Amount,
			})
			paid = paid.Add(p.Amount)
		}
		if len(s.Payments) > 0 && !paid.Equal(s.Total) {
			return &domain.PaymentMismatchError{Paid: paid, Total: s.Total}
		}

		// 4. Stock: bloqueo por par en orden fijo y lectura dentro de la tx.
		if err := checkStock(ctx, movRepo, companyID, s.Lines); err != nil {
			return err
		}

		// 5. Persistencia.
		folio, err := saleRepo.NextFolio(ctx, companyID)
		if err != nil {
			return err
		}
		s.Folio = folio
		if err := saleRepo.Create(ctx, s); err != nil {
			return err
		}

		// 6. Salidas del ledger.
		for _, l := range s.Lines {
			if l.ItemType != entity.SaleItemProduct || l.WarehouseID == "" {
				continue
			}
			mov := &entity.InventoryMovement{
				ID:          uuid.New().String(),
				CompanyID:   companyID,
				ProductID:   l.ProductID,
				WarehouseID: l.WarehouseID,
				Type:        entity.MovementTypeOUT,
				Quantity:    l.Quantity,
				ReferenceID: s.ID,
				Date:        s.Date,
				CreatedAt:   now,
				CreatedBy:   userID,
			}
			if err := movRepo.Create(ctx, mov); err != nil {
				return err
			}
		}

		// 7. Canje del descuento bajo el bloqueo tomado en el paso 2.
		if dc != nil {
			if _, err := uc.discounts.RedeemInTx(ctx, codeRepo, dc); err != nil {
				if errors.Is(err, domain.ErrCodeNotUsable) {
					return fmt.Errorf("%w: %v", domain.ErrDiscountNotUsable, err)
				}
				return err
			}
		}
		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("folio", sale.Folio).
		Str("company_id", companyID).
		Str("total", sale.Total.StringFixed(2)).
		Int("lines", len(sale.Lines)).
		Msg("venta liquidada")
	return sale, nil
}

// validateRequest revisa la forma del request antes de abrir la transacción.
func validateRequest(req dto.CheckoutRequest) ([]lineDraft, error) {
	if strings.TrimSpace(req.CustomerID) == "" {
		return nil, domain.Invalid("el cliente es requerido")
	}
	if len(req.Items) == 0 {
		return nil, domain.Invalid("la venta requiere al menos una partida")
	}
	drafts := make([]lineDraft, 0, len(req.Items))
	for i, it := range req.Items {
		hasPlan, hasProduct := it.PlanID != "", it.ProductID != ""
		if hasPlan == hasProduct {
			return nil, domain.Invalid("partida %d: indique plan o producto, no ambos", i+1)
		}
		if !it.Quantity.IsPositive() {
			return nil, domain.Invalid("partida %d: la cantidad debe ser mayor a 0", i+1)
		}
		if it.UnitPrice != nil && it.UnitPrice.IsNegative() {
			return nil, domain.Invalid("partida %d: el precio no puede ser negativo", i+1)
		}
		d := lineDraft{quantity: it.Quantity, unitPrice: it.UnitPrice}
		if hasProduct {
			d.itemType = entity.SaleItemProduct
			d.productID = it.ProductID
			d.warehouseID = it.WarehouseID
			if d.warehouseID == "" {
				d.warehouseID = req.WarehouseID
			}
		} else {
			if it.UnitPrice == nil {
				return nil, domain.Invalid("partida %d: el precio del plan es requerido", i+1)
			}
			d.itemType = entity.SaleItemPlan
			d.planID = it.PlanID
			d.periodicity = it.Periodicity
			start, err := dto.ParseDate(it.StartDate)
			if err != nil {
				return nil, domain.Invalid("partida %d: %v", i+1, err)
			}
			end, err := dto.ParseDate(it.EndDate)
			if err != nil {
				return nil, domain.Invalid("partida %d: %v", i+1, err)
			}
			if start != nil && end != nil && start.After(*end) {
				return nil, domain.Invalid("partida %d: la fecha de inicio no puede ser posterior a la de fin", i+1)
			}
			d.startDate, d.endDate = start, end
		}
		drafts = append(drafts, d)
	}
	for i, p := range req.Payments {
		if !p.Amount.IsPositive() {
			return nil, domain.Invalid("pago %d: el importe debe ser mayor a 0", i+1)
		}
		if strings.TrimSpace(p.Method) == "" {
			return nil, domain.Invalid("pago %d: la forma de pago es requerida", i+1)
		}
	}
	return drafts, nil
}

// allocateDiscount reparte el descuento proporcional al subtotal de cada partida.
// Cada parte se trunca a centavos y los centavos sobrantes van, uno a uno, a las
// partidas con mayor fracción truncada; ninguna parte supera su subtotal.
func allocateDiscount(lines []entity.SaleLine, subtotal, discount decimal.Decimal) {
	shares := make([]decimal.Decimal, len(lines))
	if discount.IsPositive() && subtotal.IsPositive() {
		fracs := make([]decimal.Decimal, len(lines))
		allocated := decimal.Zero
		for i, l := range lines {
			exact := l.Subtotal.Mul(discount).Div(subtotal)
			shares[i] = exact.Truncate(2)
			fracs[i] = exact.Sub(shares[i])
			allocated = allocated.Add(shares[i])
		}
		order := make([]int, len(lines))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return fracs[order[a]].GreaterThan(fracs[order[b]])
		})
		left := discount.Sub(allocated)
		for left.IsPositive() {
			given := false
			for _, i := range order {
				if !left.IsPositive() {
					break
				}
				if shares[i].Add(cent).GreaterThan(lines[i].Subtotal) {
					continue
				}
				shares[i] = shares[i].Add(cent)
				left = left.Sub(cent)
				given = true
			}
			if !given {
				break
			}
		}
	}
	for i := range lines {
		l := &lines[i]
		l.DiscountAmount = shares[i]
		l.Total = l.Subtotal.Sub(shares[i])
		l.TaxAmount = includedTax(l.Total, l.TaxRate)
	}
}

// includedTax impuesto contenido en un total con impuestos incluidos: total - total/(1+rate).
func includedTax(total, ratePct decimal.Decimal) decimal.Decimal {
	if !ratePct.IsPositive() || !total.IsPositive() {
		return decimal.Zero
	}
	base := total.Div(decimal.NewFromInt(1).Add(ratePct.Div(hundred)))
	return total.Sub(base).Round(2)
}

// checkStock agrega lo requerido por par, bloquea los pares en orden y compara con el ledger.
func checkStock(ctx context.Context, movRepo repository.InventoryMovementRepository, companyID string, lines []entity.SaleLine) error {
	required := map[stockKey]decimal.Decimal{}
	for _, l := range lines {
		if l.ItemType != entity.SaleItemProduct || l.WarehouseID == "" {
			continue
		}
		k := stockKey{l.ProductID, l.WarehouseID}
		required[k] = required[k].Add(l.Quantity)
	}
	keys := make([]stockKey, 0, len(required))
	for k := range required {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].productID != keys[j].productID {
			return keys[i].productID < keys[j].productID
		}
		return keys[i].warehouseID < keys[j].warehouseID
	})
	for _, k := range keys {
		if err := movRepo.LockStock(ctx, k.productID, k.warehouseID); err != nil {
			return err
		}
		available, err := movRepo.StockAt(ctx, companyID, k.productID, k.warehouseID, endOfTime)
		if err != nil {
			return err
		}
		if available.LessThan(required[k]) {
			return &domain.InsufficientStockError{
				ProductID:   k.productID,
				WarehouseID: k.warehouseID,
				Available:   available,
				Required:    required[k],
			}
		}
	}
	return nil
}
