package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de registro de pago.
const (
	PaymentTypePayment = "PAYMENT" // cobro de una venta
	PaymentTypeRefund  = "REFUND"  // reembolso de un retorno
)

// Payment representa un registro de pago o reembolso asociado a una venta.
type Payment struct {
	ID        string
	SaleID    string
	ReturnID  string // solo en reembolsos
	Type      string
	Method    string // CASH, CARD, ON_ACCOUNT
	Amount    decimal.Decimal
	Date      time.Time
	CreatedAt time.Time
	CreatedBy string
}
