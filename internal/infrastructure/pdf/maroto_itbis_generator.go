// Package pdf implementa la representación gráfica del reporte mensual de
// ITBIS (insumo del formato 607 de la DGII).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + período                                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Tasa | Base cobrada | ITBIS cobrado |                │
//	│         Base revertida | ITBIS revertido | Neto              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL: ITBIS neto del período                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/caja-pro/internal/application/dto"
	"github.com/jhoicas/caja-pro/internal/application/reports"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// MarotoITBISGenerator implementa reports.ITBISPDFGenerator usando Maroto v2.
type MarotoITBISGenerator struct{}

// NewMarotoITBISGenerator construye el generador.
func NewMarotoITBISGenerator() *MarotoITBISGenerator { return &MarotoITBISGenerator{} }

var _ reports.ITBISPDFGenerator = (*MarotoITBISGenerator)(nil)

// GenerateITBISReportPDF genera el PDF del reporte y devuelve sus bytes.
func (g *MarotoITBISGenerator) GenerateITBISReportPDF(_ context.Context, report *dto.ITBISReportResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte Mensual de ITBIS", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, b := range report.Buckets {
		m.AddRows(bucketRow(b))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(report *dto.ITBISReportResponse) core.Row {
	period := fmt.Sprintf("Período: %02d/%d", report.Month, report.Year)
	return row.New(14).Add(
		col.New(8).Add(
			text.New("Reporte Mensual de ITBIS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Libro de impuestos por cubeta de tasa", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(period, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 3,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorWhite, Align: align.Center, Top: 1.5,
		}))
	}
	return row.New(7).
		WithStyle(&props.Cell{BackgroundColor: colorPrimary}).
		Add(
			header("Tasa", 2),
			header("Base cobrada", 2),
			header("ITBIS cobrado", 2),
			header("Base revertida", 2),
			header("ITBIS revertido", 2),
			header("ITBIS neto", 2),
		)
}

func bucketRow(b dto.ITBISBucketRow) core.Row {
	cell := func(value string, size int) core.Col {
		return col.New(size).Add(text.New(value, props.Text{
			Size: 8, Align: align.Right, Top: 1.5,
		}))
	}
	rate := b.RateBucket.Mul(decimal.NewFromInt(100)).StringFixed(0) + "%"
	return row.New(6).Add(
		col.New(2).Add(text.New(rate, props.Text{Size: 8, Align: align.Center, Top: 1.5})),
		cell(money(b.BaseCollected), 2),
		cell(money(b.TaxCollected), 2),
		cell(money(b.BaseReversed), 2),
		cell(money(b.TaxReversed), 2),
		cell(money(b.NetTax), 2),
	)
}

func totalRow(report *dto.ITBISReportResponse) core.Row {
	return row.New(8).Add(
		col.New(8).Add(text.New("TOTAL ITBIS NETO DEL PERÍODO", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1.5,
		})),
		col.New(4).Add(text.New("RD$ "+money(report.TotalNet), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1.5, Color: colorPrimary,
		})),
	)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
