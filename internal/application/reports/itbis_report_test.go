package reports_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-pro/internal/application/reports"
	"github.com/jhoicas/caja-pro/internal/domain"
	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/infrastructure/memory"
	"github.com/jhoicas/caja-pro/internal/infrastructure/pdf"
)

func seedEntry(t *testing.T, store *memory.Store, date time.Time, rate float64, base, taxAmount int64, direction string) {
	t.Helper()
	require.NoError(t, store.TaxLedger().Create(&entity.TaxLedgerEntry{
		ID:           uuid.New().String(),
		Date:         date,
		RateBucket:   decimal.NewFromFloat(rate),
		BaseAmount:   decimal.NewFromInt(base),
		TaxAmount:    decimal.NewFromInt(taxAmount),
		Direction:    direction,
		SourceSaleID: uuid.New().String(),
		CreatedAt:    date,
	}))
}

func TestMonthly_AgregaPorCubetaDentroDelMes(t *testing.T) {
	store := memory.NewStore()
	uc := reports.NewITBISReportUseCase(store.TaxLedger(), nil)

	agosto := time.Date(2026, 8, 10, 12, 0, 0, 0, time.Local)
	seedEntry(t, store, agosto, 0.18, 1000, 180, entity.TaxDirectionCollected)
	seedEntry(t, store, agosto.AddDate(0, 0, 5), 0.18, 500, 90, entity.TaxDirectionCollected)
	seedEntry(t, store, agosto.AddDate(0, 0, 6), 0.18, 200, 36, entity.TaxDirectionReversed)
	seedEntry(t, store, agosto, 0.16, 300, 48, entity.TaxDirectionCollected)
	// Fuera del período: no debe contar.
	seedEntry(t, store, agosto.AddDate(0, 1, 0), 0.18, 9999, 1800, entity.TaxDirectionCollected)

	report, err := uc.Monthly(context.Background(), 2026, 8)
	require.NoError(t, err)

	require.Len(t, report.Buckets, 2)
	assert.Equal(t, 2026, report.Year)
	assert.Equal(t, 8, report.Month)

	// Ordenadas por clave de cubeta: 0.1600 antes que 0.1800.
	b16 := report.Buckets[0]
	assert.True(t, b16.RateBucket.Equal(decimal.NewFromFloat(0.16)))
	assert.True(t, b16.NetTax.Equal(decimal.NewFromInt(48)))

	b18 := report.Buckets[1]
	assert.True(t, b18.BaseCollected.Equal(decimal.NewFromInt(1500)))
	assert.True(t, b18.TaxCollected.Equal(decimal.NewFromInt(270)))
	assert.True(t, b18.BaseReversed.Equal(decimal.NewFromInt(200)))
	assert.True(t, b18.TaxReversed.Equal(decimal.NewFromInt(36)))
	assert.True(t, b18.NetTax.Equal(decimal.NewFromInt(234)), "270 cobrado - 36 revertido")

	assert.True(t, report.TotalNet.Equal(decimal.NewFromInt(282)), "234 + 48")
}

func TestMonthly_MesVacio(t *testing.T) {
	store := memory.NewStore()
	uc := reports.NewITBISReportUseCase(store.TaxLedger(), nil)

	report, err := uc.Monthly(context.Background(), 2026, 2)
	require.NoError(t, err)
	assert.Empty(t, report.Buckets)
	assert.True(t, report.TotalNet.IsZero())
}

func TestMonthly_PeriodoInvalido(t *testing.T) {
	store := memory.NewStore()
	uc := reports.NewITBISReportUseCase(store.TaxLedger(), nil)

	_, err := uc.Monthly(context.Background(), 2026, 13)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Monthly(context.Background(), 1999, 1)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMonthlyPDF_GeneraDocumento(t *testing.T) {
	store := memory.NewStore()
	agosto := time.Date(2026, 8, 10, 12, 0, 0, 0, time.Local)
	seedEntry(t, store, agosto, 0.18, 1000, 180, entity.TaxDirectionCollected)

	uc := reports.NewITBISReportUseCase(store.TaxLedger(), pdf.NewMarotoITBISGenerator())

	doc, err := uc.MonthlyPDF(context.Background(), 2026, 8)
	require.NoError(t, err)
	require.NotEmpty(t, doc)
	assert.Equal(t, "%PDF", string(doc[:4]), "el documento debe ser un PDF válido")
}

func TestMonthlyPDF_SinGeneradorFalla(t *testing.T) {
	store := memory.NewStore()
	uc := reports.NewITBISReportUseCase(store.TaxLedger(), nil)

	_, err := uc.MonthlyPDF(context.Background(), 2026, 8)
	require.Error(t, err)
}
