package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pro/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para clientes.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	List(limit, offset int) ([]*entity.Customer, error)
	// UpdateBalance fija el balance de crédito del cliente (ventas a crédito
	// lo aumentan, retornos lo reducen).
	UpdateBalance(customerID string, balance decimal.Decimal) error
}
