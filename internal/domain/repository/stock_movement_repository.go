package repository

import (
	"time"

	"github.com/jhoicas/caja-pro/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para la bitácora de
// movimientos. Append-only: no expone Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListBySale(saleID string) ([]*entity.StockMovement, error)
}
