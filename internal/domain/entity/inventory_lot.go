package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote de costo.
const (
	LotStatusActive    = "ACTIVE"    // con cantidad restante
	LotStatusExhausted = "EXHAUSTED" // consumido por completo; nunca se borra
)

// InventoryLot representa un lote de costo: una entrada discreta de inventario
// con su propia fecha de recepción y costo unitario. Es la unidad atómica del
// costeo FIFO. Invariante: 0 <= RemainingQuantity <= OriginalQuantity.
type InventoryLot struct {
	ID                string
	ProductID         string
	Sequence          int64 // orden de creación; desempata lotes con el mismo ReceivedAt
	ReceivedAt        time.Time
	OriginalQuantity  decimal.Decimal
	RemainingQuantity decimal.Decimal
	UnitCost          decimal.Decimal
	SourceRef         string // referencia de compra / factura de proveedor
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasRemaining indica si el lote aún tiene cantidad disponible.
func (l *InventoryLot) HasRemaining() bool {
	return l.RemainingQuantity.GreaterThan(decimal.Zero)
}
