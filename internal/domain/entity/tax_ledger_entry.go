package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dirección de un asiento del libro de ITBIS.
const (
	TaxDirectionCollected = "COLLECTED" // cobrado en una venta
	TaxDirectionReversed  = "REVERSED"  // revertido por un retorno
)

// TaxLedgerEntry representa un asiento del libro de ITBIS por cubeta de tasa
// (18%, 16%, 0%). Los montos se guardan siempre positivos; la dirección indica
// el signo contable. Invariante: para una venta totalmente devuelta,
// Σ COLLECTED - Σ REVERSED == 0 por cubeta.
type TaxLedgerEntry struct {
	ID             string
	Date           time.Time
	RateBucket     decimal.Decimal // tasa como fracción: 0.18, 0.16, 0
	BaseAmount     decimal.Decimal
	TaxAmount      decimal.Decimal
	Direction      string
	SourceSaleID   string
	SourceReturnID string // vacío en asientos COLLECTED
	CreatedAt      time.Time
}

// BucketKey devuelve la clave de agrupación de la cubeta de tasa.
func (e *TaxLedgerEntry) BucketKey() string {
	return e.RateBucket.StringFixed(4)
}
