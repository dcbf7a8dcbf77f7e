package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsumptionRecord vincula una línea de venta con un lote concreto: qué lote
// aportó cuánta cantidad y a qué costo. Es la pieza que hace exacta la
// reversión: sin ella un retorno no sabría a qué lotes devolver unidades.
// Solo la confirmación de venta crea registros; nunca se borran, solo se van
// "gastando" con retornos parciales vía RestoredQuantity.
type ConsumptionRecord struct {
	ID                    string
	SaleID                string
	ProductID             string
	LotID                 string
	Seq                   int // orden de asignación dentro de la venta (desempate al restaurar)
	QuantityConsumed      decimal.Decimal
	RestoredQuantity      decimal.Decimal
	UnitCostAtConsumption decimal.Decimal
	ConsumedAt            time.Time
}

// Unrestored devuelve la cantidad consumida que aún no ha sido restaurada por
// retornos previos.
func (r *ConsumptionRecord) Unrestored() decimal.Decimal {
	return r.QuantityConsumed.Sub(r.RestoredQuantity)
}
