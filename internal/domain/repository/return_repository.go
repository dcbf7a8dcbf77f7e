package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pro/internal/domain/entity"
)

// ReturnRepository define el puerto de persistencia para devoluciones.
type ReturnRepository interface {
	Create(ret *entity.Return) error
	CreateLine(line *entity.ReturnLine) error
	ListBySale(saleID string) ([]*entity.Return, error)
	ListLinesBySale(saleID string) ([]*entity.ReturnLine, error)
	// SumReturnedBySaleLine devuelve la cantidad ya devuelta contra una línea
	// de venta (suma de retornos previos); de ahí sale el máximo retornable.
	SumReturnedBySaleLine(saleLineID string) (decimal.Decimal, error)
}
