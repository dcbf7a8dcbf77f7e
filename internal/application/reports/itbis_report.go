package reports

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pro/internal/application/dto"
	"github.com/jhoicas/caja-pro/internal/domain"
	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
)

// ITBISPDFGenerator genera la representación PDF del reporte mensual.
type ITBISPDFGenerator interface {
	GenerateITBISReportPDF(ctx context.Context, report *dto.ITBISReportResponse) ([]byte, error)
}

// ITBISReportUseCase agrega el libro de ITBIS por mes y cubeta de tasa para
// la exportación de cumplimiento (formato tipo 607 de la DGII). Solo lee el
// libro; nunca lo escribe.
type ITBISReportUseCase struct {
	taxRepo repository.TaxLedgerRepository
	pdfGen  ITBISPDFGenerator
}

// NewITBISReportUseCase construye el caso de uso. pdfGen puede ser nil si
// solo se usa la salida JSON.
func NewITBISReportUseCase(taxRepo repository.TaxLedgerRepository, pdfGen ITBISPDFGenerator) *ITBISReportUseCase {
	return &ITBISReportUseCase{taxRepo: taxRepo, pdfGen: pdfGen}
}

// Monthly devuelve el reporte del mes: por cubeta, base e impuesto cobrados y
// revertidos, y el neto.
func (uc *ITBISReportUseCase) Monthly(ctx context.Context, year, month int) (*dto.ITBISReportResponse, error) {
	if year < 2000 || month < 1 || month > 12 {
		return nil, domain.ErrInvalidInput
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0)

	entries, err := uc.taxRepo.ListByPeriod(from, to)
	if err != nil {
		return nil, err
	}

	type acc struct {
		rate                                                 decimal.Decimal
		baseCollected, taxCollected, baseReversed, taxReversed decimal.Decimal
	}
	buckets := make(map[string]*acc)
	for _, e := range entries {
		key := e.BucketKey()
		b, ok := buckets[key]
		if !ok {
			b = &acc{
				rate:          e.RateBucket,
				baseCollected: decimal.Zero, taxCollected: decimal.Zero,
				baseReversed: decimal.Zero, taxReversed: decimal.Zero,
			}
			buckets[key] = b
		}
		switch e.Direction {
		case entity.TaxDirectionCollected:
			b.baseCollected = b.baseCollected.Add(e.BaseAmount)
			b.taxCollected = b.taxCollected.Add(e.TaxAmount)
		case entity.TaxDirectionReversed:
			b.baseReversed = b.baseReversed.Add(e.BaseAmount)
			b.taxReversed = b.taxReversed.Add(e.TaxAmount)
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	report := &dto.ITBISReportResponse{Year: year, Month: month, TotalNet: decimal.Zero}
	for _, k := range keys {
		b := buckets[k]
		net := b.taxCollected.Sub(b.taxReversed)
		report.Buckets = append(report.Buckets, dto.ITBISBucketRow{
			RateBucket:    b.rate,
			BaseCollected: b.baseCollected,
			TaxCollected:  b.taxCollected,
			BaseReversed:  b.baseReversed,
			TaxReversed:   b.taxReversed,
			NetTax:        net,
		})
		report.TotalNet = report.TotalNet.Add(net)
	}
	return report, nil
}

// MonthlyPDF genera el PDF del reporte del mes.
func (uc *ITBISReportUseCase) MonthlyPDF(ctx context.Context, year, month int) ([]byte, error) {
	report, err := uc.Monthly(ctx, year, month)
	if err != nil {
		return nil, err
	}
	if uc.pdfGen == nil {
		return nil, domain.ErrInvalidInput
	}
	return uc.pdfGen.GenerateITBISReportPDF(ctx, report)
}
