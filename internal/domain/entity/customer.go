package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente del punto de venta. CreditBalance es la deuda
// acumulada de ventas a crédito (ON_ACCOUNT); los retornos de esas ventas la
// reducen.
type Customer struct {
	ID            string
	Name          string
	TaxID         string // RNC o Cédula
	Email         string
	Phone         string
	CreditBalance decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
