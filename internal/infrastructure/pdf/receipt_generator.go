// Package pdf genera el ticket de venta en PDF.
//
// Layout (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Ticket de venta      │  Folio + Fecha              │
//	│  CLIENTE: Nombre + contacto                                  │
//	│  TABLA: Cant | Descripción | P.Unit | Desc. | Total          │
//	│  TOTALES: Subtotal / Descuento / Impuestos incl. / TOTAL     │
//	│  PAGOS: forma de pago + importe                              │
//	│  FOOTER: QR con folio                                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gym-backoffice-api/internal/application/sales"
	"github.com/jhoicas/gym-backoffice-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ sales.ReceiptGenerator = (*ReceiptGenerator)(nil)

// ReceiptGenerator implementa sales.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct {
	businessName string
}

// NewReceiptGenerator construye el generador; businessName se imprime en el encabezado.
func NewReceiptGenerator(businessName string) *ReceiptGenerator {
	return &ReceiptGenerator{businessName: businessName}
}

// GenerateReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateReceipt(
	_ context.Context,
	sale *entity.Sale,
	customer *entity.Customer,
	lines []sales.ReceiptLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Ticket "+sale.Folio, true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.businessName, sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(sale))
	m.AddRows(paymentRows(sale)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(businessName string, sale *entity.Sale) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(businessName, "Ticket de venta"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("TICKET DE VENTA", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(sale.Folio, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+sale.Date.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func customerRow(c *entity.Customer) core.Row {
	if c == nil {
		c = &entity.Customer{}
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(c.Name, c.ID), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Email: %s   |   Tel: %s",
				nonEmpty(c.Email, "—"),
				nonEmpty(c.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Desc.", 2, align.Right),
		h("Total", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableRows(lines []sales.ReceiptLine) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		out = append(out, row.New(7).Add(
			col.New(1).Add(text.New(l.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(l.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatMoney(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(l.DiscountAmount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(formatMoney(l.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func totalsRow(sale *entity.Sale) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 18}

	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 0),
			label("Descuento:", 6),
			label("Impuestos incluidos:", 12),
			text.New("TOTAL:", grand),
		),
		col.New(3).Add(
			value(formatMoney(sale.Subtotal), 0),
			value("-"+formatMoney(sale.DiscountAmount), 6),
			value(formatMoney(sale.TaxAmount), 12),
			text.New(formatMoney(sale.Total), grand),
		),
	)
}

func paymentRows(sale *entity.Sale) []core.Row {
	if len(sale.Payments) == 0 {
		return []core.Row{row.New(6).Add(col.New(12).Add(
			text.New("Pago pendiente", props.Text{Size: 8, Color: colorGray, Top: 1}),
		))}
	}
	rows := []core.Row{row.New(6).Add(col.New(12).Add(
		text.New("PAGOS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))}
	for _, p := range sale.Payments {
		rows = append(rows, row.New(5).Add(
			col.New(9).Add(text.New(strings.ToUpper(p.Method), props.Text{Size: 8, Top: 0.5})),
			col.New(3).Add(text.New(formatMoney(p.Amount), props.Text{Size: 8, Align: align.Right, Right: 1, Top: 0.5})),
		))
	}
	return rows
}

func footerRow(sale *entity.Sale) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(sale.Folio+"|"+sale.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Conserve este ticket para aclaraciones o facturación.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con separador de miles y dos decimales. Ej: 1234.5 → "$1,234.50".
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + string(buf) + frac
}
