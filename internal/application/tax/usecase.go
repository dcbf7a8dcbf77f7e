package tax

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
)

// UseCase mantiene el libro de ITBIS por cubeta de tasa. Va en paralelo al
// libro de inventario: los mismos eventos de venta/retorno lo alimentan y debe
// reconciliar exactamente con ellos.
type UseCase struct {
	taxRepo repository.TaxLedgerRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(taxRepo repository.TaxLedgerRepository) *UseCase {
	return &UseCase{taxRepo: taxRepo}
}

// bucket acumulador por cubeta de tasa.
type bucket struct {
	rate decimal.Decimal
	base decimal.Decimal
	tax  decimal.Decimal
}

// RecordSaleITBIS agrupa las líneas de la venta por tasa y crea un asiento
// COLLECTED por cubeta con la base y el impuesto sumados.
func (uc *UseCase) RecordSaleITBIS(sale *entity.Sale, lines []*entity.SaleLine) error {
	buckets := make(map[string]*bucket)
	order := make([]string, 0)
	for _, line := range lines {
		key := line.TaxRate.StringFixed(4)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{rate: line.TaxRate, base: decimal.Zero, tax: decimal.Zero}
			buckets[key] = b
			order = append(order, key)
		}
		b.base = b.base.Add(line.Subtotal)
		b.tax = b.tax.Add(line.TaxAmount)
	}

	now := time.Now()
	for _, key := range order {
		b := buckets[key]
		entry := &entity.TaxLedgerEntry{
			ID:           uuid.New().String(),
			Date:         sale.Date,
			RateBucket:   b.rate,
			BaseAmount:   b.base,
			TaxAmount:    b.tax,
			Direction:    entity.TaxDirectionCollected,
			SourceSaleID: sale.ID,
			CreatedAt:    now,
		}
		if err := uc.taxRepo.Create(entry); err != nil {
			return err
		}
	}
	return nil
}

// ReverseSaleITBIS crea asientos REVERSED por cubeta para las líneas
// devueltas. Usa la tasa original de cada línea de venta, no la tasa vigente
// del producto: un retorno revierte exactamente lo que se cobró aunque la
// tasa haya cambiado desde la venta.
func (uc *UseCase) ReverseSaleITBIS(ret *entity.Return, lines []*entity.ReturnLine) error {
	buckets := make(map[string]*bucket)
	order := make([]string, 0)
	for _, line := range lines {
		if !line.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		key := line.TaxRate.StringFixed(4)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{rate: line.TaxRate, base: decimal.Zero, tax: decimal.Zero}
			buckets[key] = b
			order = append(order, key)
		}
		b.base = b.base.Add(line.RefundAmount)
		b.tax = b.tax.Add(line.TaxAmount)
	}

	now := time.Now()
	for _, key := range order {
		b := buckets[key]
		entry := &entity.TaxLedgerEntry{
			ID:             uuid.New().String(),
			Date:           ret.Date,
			RateBucket:     b.rate,
			BaseAmount:     b.base,
			TaxAmount:      b.tax,
			Direction:      entity.TaxDirectionReversed,
			SourceSaleID:   ret.SaleID,
			SourceReturnID: ret.ID,
			CreatedAt:      now,
		}
		if err := uc.taxRepo.Create(entry); err != nil {
			return err
		}
	}
	return nil
}

// ReconcileSale devuelve, por cubeta, el impuesto neto de la venta
// (COLLECTED - REVERSED). Para una venta totalmente devuelta cada cubeta debe
// dar cero.
func (uc *UseCase) ReconcileSale(saleID string) (map[string]decimal.Decimal, error) {
	entries, err := uc.taxRepo.ListBySale(saleID)
	if err != nil {
		return nil, err
	}
	net := make(map[string]decimal.Decimal)
	for _, e := range entries {
		key := e.BucketKey()
		cur, ok := net[key]
		if !ok {
			cur = decimal.Zero
		}
		switch e.Direction {
		case entity.TaxDirectionCollected:
			cur = cur.Add(e.TaxAmount)
		case entity.TaxDirectionReversed:
			cur = cur.Sub(e.TaxAmount)
		}
		net[key] = cur
	}
	return net, nil
}
