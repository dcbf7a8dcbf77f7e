package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del punto de venta.
// Cost es el costo promedio ponderado de referencia (se usa como costo de
// respaldo para productos sin lotes). CurrentStock es una caché desnormalizada:
// cuando el producto tiene lotes activos debe ser igual a la suma de
// RemainingQuantity de sus lotes; para productos legados sin lotes es la única
// fuente de verdad (modo degradado).
type Product struct {
	ID           string
	SKU          string // código único
	Name         string
	Description  string
	Price        decimal.Decimal // precio de venta
	Cost         decimal.Decimal // costo promedio ponderado (inicia en 0)
	TaxRate      decimal.Decimal // ITBIS: 0, 0.16 (16%), 0.18 (18%)
	CurrentStock decimal.Decimal
	ReorderPoint decimal.Decimal
	UnitMeasure  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
