package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Return representa la cabecera de una devolución contra una venta. Una venta
// puede devolverse en varios retornos parciales; cada uno restaura cantidad a
// los lotes de origen sin exceder lo consumido originalmente.
type Return struct {
	ID          string
	SaleID      string
	Date        time.Time
	RefundTotal decimal.Decimal // neto + impuesto de las líneas devueltas
	TaxTotal    decimal.Decimal
	TotalCost   decimal.Decimal // costo restaurado a los lotes (reversión de COGS)
	CreatedAt   time.Time
	CreatedBy   string
	DeviceID    string
}

// ReturnLine representa una línea devuelta. Quantity es lo solicitado (ya
// acotado al máximo retornable); RestoredQuantity es lo efectivamente
// restaurado a lotes, que puede ser menor si el historial de consumo ya estaba
// agotado por retornos previos.
type ReturnLine struct {
	ID               string
	ReturnID         string
	SaleLineID       string
	ProductID        string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	TaxRate          decimal.Decimal // tasa original de la línea de venta
	RefundAmount     decimal.Decimal // Quantity * UnitPrice, sin impuesto
	TaxAmount        decimal.Decimal
	RestoredQuantity decimal.Decimal
	AvgUnitCost      decimal.Decimal // costo promedio ponderado de lo restaurado
}
