package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta confirmada.
const (
	SaleStatusClosed            = "CLOSED"             // confirmada, sin retornos
	SaleStatusPartiallyReturned = "PARTIALLY_RETURNED" // con al menos un retorno parcial
	SaleStatusFullyReturned     = "FULLY_RETURNED"     // terminal: todo devuelto
)

// Métodos de pago.
const (
	PaymentMethodCash      = "CASH"
	PaymentMethodCard      = "CARD"
	PaymentMethodOnAccount = "ON_ACCOUNT" // a crédito: afecta el balance del cliente
)

// Sale representa la cabecera de una venta confirmada en el punto de venta.
type Sale struct {
	ID             string
	CustomerID     string // vacío = consumidor final
	Number         string
	Date           time.Time
	NetTotal       decimal.Decimal
	TaxTotal       decimal.Decimal
	GrandTotal     decimal.Decimal
	TotalCOGS      decimal.Decimal // costo de lo vendido, calculado desde los lotes consumidos
	PaymentMethod  string
	Status         string
	HasReturns     bool
	ReturnedAmount decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CreatedBy      string
	DeviceID       string // dispositivo que originó la venta (modelo local-first)
}

// SaleLine representa una línea de la venta. TaxRate se congela al momento de
// la venta: un retorno posterior revierte exactamente lo cobrado aunque la
// tasa del producto haya cambiado.
type SaleLine struct {
	ID          string
	SaleID      string
	ProductID   string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	Subtotal    decimal.Decimal // Quantity * UnitPrice, sin impuesto
	TaxAmount   decimal.Decimal
	AvgUnitCost decimal.Decimal // costo promedio de los lotes consumidos por la línea
	TotalCost   decimal.Decimal
}
