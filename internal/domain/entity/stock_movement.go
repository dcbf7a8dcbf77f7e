package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // entrada (recepción de compra)
	MovementTypeOUT        = "OUT"        // salida por venta
	MovementTypeRETURN     = "RETURN"     // devolución de venta
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste manual
)

// StockMovement representa un movimiento de inventario. La bitácora es
// append-only: nunca se actualiza ni se borra un movimiento; la caché
// CurrentStock del producto debe poder reconstruirse desde ella.
type StockMovement struct {
	ID              string
	ProductID       string
	Type            string
	Quantity        decimal.Decimal // positivo entrada/retorno, negativo salida
	UnitCost        decimal.Decimal
	TotalCost       decimal.Decimal
	RelatedSaleID   string
	RelatedReturnID string
	Date            time.Time
	Notes           string
	CreatedAt       time.Time
	CreatedBy       string
}
