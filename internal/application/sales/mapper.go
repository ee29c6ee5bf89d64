package sales

import (
	"github.com/jhoicas/gym-backoffice-api/internal/application/dto"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
)

// ToSaleResponse convierte la venta al DTO.
func ToSaleResponse(s *entity.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:               s.ID,
		Folio:            s.Folio,
		CustomerID:       s.CustomerID,
		BranchID:         s.BranchID,
		Date:             s.Date,
		Subtotal:         s.Subtotal,
		DiscountAmount:   s.DiscountAmount,
		TaxAmount:        s.TaxAmount,
		Total:            s.Total,
		Paid:             s.PaidAmount(),
		DiscountCodeID:   s.DiscountCodeID,
		PaymentReference: s.PaymentReference,
		Notes:            s.Notes,
		SaleType:         s.SaleType,
		Lines:            make([]dto.SaleLineResponse, 0, len(s.Lines)),
		Payments:         make([]dto.PaymentResponse, 0, len(s.Payments)),
	}
	for _, l := range s.Lines {
		resp.Lines = append(resp.Lines, dto.SaleLineResponse{
			ID:             l.ID,
			ItemType:       l.ItemType,
			PlanID:         l.PlanID,
			ProductID:      l.ProductID,
			WarehouseID:    l.WarehouseID,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			Subtotal:       l.Subtotal,
			DiscountAmount: l.DiscountAmount,
			TaxAmount:      l.TaxAmount,
			Total:          l.Total,
			StartDate:      dto.FormatDate(l.StartDate),
			EndDate:        dto.FormatDate(l.EndDate),
			Periodicity:    l.Periodicity,
		})
	}
	for _, p := range s.Payments {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{ID: p.ID, Method: p.Method, Amount: p.Amount})
	}
	return resp
}
