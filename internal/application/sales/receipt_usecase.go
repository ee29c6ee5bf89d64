package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/repository"
)

// ReceiptUseCase arma el ticket PDF de una venta ya liquidada.
type ReceiptUseCase struct {
	sales        *CheckoutUseCase
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	planRepo     repository.PlanRepository
	generator    ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	sales *CheckoutUseCase,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	planRepo repository.PlanRepository,
	generator ReceiptGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		sales:        sales,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		planRepo:     planRepo,
		generator:    generator,
	}
}

// Receipt devuelve el PDF y el folio de la venta.
func (uc *ReceiptUseCase) Receipt(ctx context.Context, companyID, saleID string) ([]byte, string, error) {
	sale, err := uc.sales.GetSale(ctx, companyID, saleID)
	if err != nil {
		return nil, "", err
	}
	customer, err := uc.customerRepo.GetByID(ctx, sale.CustomerID)
	if err != nil {
		return nil, "", err
	}
	if customer == nil {
		customer = &entity.Customer{ID: sale.CustomerID}
	}

	lines := make([]ReceiptLine, 0, len(sale.Lines))
	for _, l := range sale.Lines {
		desc, err := uc.describe(ctx, l)
		if err != nil {
			return nil, "", err
		}
		lines = append(lines, ReceiptLine{SaleLine: l, Description: desc})
	}

	pdf, err := uc.generator.GenerateReceipt(ctx, sale, customer, lines)
	if err != nil {
		return nil, "", fmt.Errorf("generar ticket: %w", err)
	}
	return pdf, sale.Folio, nil
}

func (uc *ReceiptUseCase) describe(ctx context.Context, l entity.SaleLine) (string, error) {
	switch l.ItemType {
	case entity.SaleItemProduct:
		p, err := uc.productRepo.GetByID(ctx, l.ProductID)
		if err != nil {
			return "", err
		}
		if p != nil {
			return p.Name, nil
		}
		return l.ProductID, nil
	case entity.SaleItemPlan:
		p, err := uc.planRepo.GetByID(ctx, l.PlanID)
		if err != nil {
			return "", err
		}
		desc := l.PlanID
		if p != nil {
			desc = p.Name
		}
		if l.StartDate != nil && l.EndDate != nil {
			desc = fmt.Sprintf("%s (%s a %s)", desc, l.StartDate.Format("02/01/2006"), l.EndDate.Format("02/01/2006"))
		}
		return desc, nil
	}
	return "", nil
}
