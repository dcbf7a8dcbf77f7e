package cache

import (
	"context"
	"time"

	"github.com/jhoicas/caja-pro/internal/application/dto"
)

// LowStockCache cachea la lista de productos bajo punto de reorden para no
// recalcularla en cada consulta del tablero.
type LowStockCache interface {
	Get(ctx context.Context, key string) ([]dto.LowStockItemDTO, bool, error)
	Set(ctx context.Context, key string, value []dto.LowStockItemDTO, ttl time.Duration) error
}

// NoopLowStockCache implementación nula (sin Redis configurado).
type NoopLowStockCache struct{}

func (NoopLowStockCache) Get(_ context.Context, _ string) ([]dto.LowStockItemDTO, bool, error) {
	return nil, false, nil
}

func (NoopLowStockCache) Set(_ context.Context, _ string, _ []dto.LowStockItemDTO, _ time.Duration) error {
	return nil
}
