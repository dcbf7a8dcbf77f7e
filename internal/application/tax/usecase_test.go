package tax_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-pro/internal/application/tax"
	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var (
	rate18 = decimal.NewFromFloat(0.18)
	rate16 = decimal.NewFromFloat(0.16)
	rate0  = decimal.Zero
)

func saleLine(rate, subtotal, taxAmount decimal.Decimal) *entity.SaleLine {
	return &entity.SaleLine{
		ID:        uuid.New().String(),
		TaxRate:   rate,
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
	}
}

func returnLine(rate decimal.Decimal, qty int64, refund, taxAmount decimal.Decimal) *entity.ReturnLine {
	return &entity.ReturnLine{
		ID:           uuid.New().String(),
		TaxRate:      rate,
		Quantity:     decimal.NewFromInt(qty),
		RefundAmount: refund,
		TaxAmount:    taxAmount,
	}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ──────────────────────────────────────────────────────────────────────────────
// Asientos por cubeta
// ──────────────────────────────────────────────────────────────────────────────

// Tres líneas con tasas 18%, 18% y 0% producen DOS asientos: las cubetas
// iguales se agrupan y la exenta conserva su asiento con impuesto cero.
func TestRecordSaleITBIS_AgrupaPorCubeta(t *testing.T) {
	store := memory.NewStore()
	uc := tax.NewUseCase(store.TaxLedger())

	sale := &entity.Sale{ID: uuid.New().String(), Date: time.Now()}
	lines := []*entity.SaleLine{
		saleLine(rate18, dec(1000), dec(180)),
		saleLine(rate18, dec(500), dec(90)),
		saleLine(rate0, dec(300), dec(0)),
	}
	require.NoError(t, uc.RecordSaleITBIS(sale, lines))

	entries, err := store.TaxLedger().ListBySale(sale.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2, "una cubeta por tasa, no por línea")

	byBucket := make(map[string]*entity.TaxLedgerEntry)
	for _, e := range entries {
		byBucket[e.BucketKey()] = e
		assert.Equal(t, entity.TaxDirectionCollected, e.Direction)
		assert.Equal(t, sale.ID, e.SourceSaleID)
		assert.Empty(t, e.SourceReturnID)
	}

	b18 := byBucket[rate18.StringFixed(4)]
	require.NotNil(t, b18)
	assert.True(t, b18.BaseAmount.Equal(dec(1500)), "base 18%: 1000+500")
	assert.True(t, b18.TaxAmount.Equal(dec(270)), "ITBIS 18%: 180+90")

	b0 := byBucket[rate0.StringFixed(4)]
	require.NotNil(t, b0)
	assert.True(t, b0.BaseAmount.Equal(dec(300)), "la cubeta exenta conserva su base")
	assert.True(t, b0.TaxAmount.IsZero())
}

func TestReverseSaleITBIS_IgnoraLineasEnCero(t *testing.T) {
	store := memory.NewStore()
	uc := tax.NewUseCase(store.TaxLedger())

	ret := &entity.Return{
		ID:     uuid.New().String(),
		SaleID: uuid.New().String(),
		Date:   time.Now(),
	}
	lines := []*entity.ReturnLine{
		returnLine(rate18, 2, dec(400), dec(72)),
		returnLine(rate16, 0, dec(0), dec(0)), // acotada a cero: no genera asiento
	}
	require.NoError(t, uc.ReverseSaleITBIS(ret, lines))

	entries, err := store.TaxLedger().ListBySale(ret.SaleID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.TaxDirectionReversed, entries[0].Direction)
	assert.Equal(t, ret.ID, entries[0].SourceReturnID)
	assert.True(t, entries[0].TaxAmount.Equal(dec(72)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconciliación
// ──────────────────────────────────────────────────────────────────────────────

// Venta con cubetas 18% y 16%, devolución total: el neto por cubeta es cero.
func TestReconcileSale_DevolucionTotalNetaCero(t *testing.T) {
	store := memory.NewStore()
	uc := tax.NewUseCase(store.TaxLedger())

	sale := &entity.Sale{ID: uuid.New().String(), Date: time.Now()}
	require.NoError(t, uc.RecordSaleITBIS(sale, []*entity.SaleLine{
		saleLine(rate18, dec(1000), dec(180)),
		saleLine(rate16, dec(500), dec(80)),
	}))

	ret := &entity.Return{ID: uuid.New().String(), SaleID: sale.ID, Date: time.Now()}
	require.NoError(t, uc.ReverseSaleITBIS(ret, []*entity.ReturnLine{
		returnLine(rate18, 5, dec(1000), dec(180)),
		returnLine(rate16, 2, dec(500), dec(80)),
	}))

	net, err := uc.ReconcileSale(sale.ID)
	require.NoError(t, err)
	require.Len(t, net, 2)
	for bucket, amount := range net {
		assert.True(t, amount.IsZero(),
			"la cubeta %s debe reconciliar a cero, obtuve %s", bucket, amount)
	}
}

func TestReconcileSale_DevolucionParcialDejaNeto(t *testing.T) {
	store := memory.NewStore()
	uc := tax.NewUseCase(store.TaxLedger())

	sale := &entity.Sale{ID: uuid.New().String(), Date: time.Now()}
	require.NoError(t, uc.RecordSaleITBIS(sale, []*entity.SaleLine{
		saleLine(rate18, dec(1000), dec(180)),
	}))

	ret := &entity.Return{ID: uuid.New().String(), SaleID: sale.ID, Date: time.Now()}
	require.NoError(t, uc.ReverseSaleITBIS(ret, []*entity.ReturnLine{
		returnLine(rate18, 2, dec(400), dec(72)),
	}))

	net, err := uc.ReconcileSale(sale.ID)
	require.NoError(t, err)
	assert.True(t, net[rate18.StringFixed(4)].Equal(dec(108)), "180 cobrado - 72 revertido")
}
