package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pro/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para productos.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateCost actualiza el costo promedio ponderado de referencia.
	UpdateCost(productID string, cost decimal.Decimal) error
	// UpdateStock actualiza la caché desnormalizada CurrentStock.
	UpdateStock(productID string, stock decimal.Decimal) error
	// ListBelowReorderPoint devuelve los productos con CurrentStock <= ReorderPoint.
	ListBelowReorderPoint() ([]*entity.Product, error)
}
