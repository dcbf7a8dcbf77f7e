package repository

import "github.com/jhoicas/caja-pro/internal/domain/entity"

// LotRepository define el puerto de persistencia para lotes de costo.
// Los lotes nunca se borran: al agotarse pasan a estado EXHAUSTED.
type LotRepository interface {
	Create(lot *entity.InventoryLot) error
	GetByID(id string) (*entity.InventoryLot, error)
	// ListActiveByProduct devuelve los lotes con cantidad restante, en orden
	// FIFO (ReceivedAt ascendente, desempate por Sequence).
	ListActiveByProduct(productID string) ([]*entity.InventoryLot, error)
	// ListByProduct devuelve todos los lotes del producto (activos y agotados).
	ListByProduct(productID string) ([]*entity.InventoryLot, error)
	// HasLots indica si el producto tiene algún lote (activo o agotado).
	// Un producto sin lotes opera en modo degradado sobre CurrentStock.
	HasLots(productID string) (bool, error)
	Update(lot *entity.InventoryLot) error
}
