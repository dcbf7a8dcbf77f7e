package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pro/internal/application/dto"
	"github.com/jhoicas/caja-pro/internal/cache"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
)

const (
	lowStockCacheKey = "lowstock:v1"
	lowStockCacheTTL = 5 * time.Minute
)

// LowStockUseCase genera la lista de productos bajo punto de reorden para el
// tablero de alertas. Consulta la caché CurrentStock (conservada por el motor
// FIFO) y cachea el resultado en Redis.
type LowStockUseCase struct {
	productRepo repository.ProductRepository
	cache       cache.LowStockCache
}

// NewLowStockUseCase construye el caso de uso.
func NewLowStockUseCase(productRepo repository.ProductRepository, c cache.LowStockCache) *LowStockUseCase {
	return &LowStockUseCase{productRepo: productRepo, cache: c}
}

// List devuelve los productos con CurrentStock <= ReorderPoint con una
// cantidad sugerida de pedido (1.5x el punto de reorden menos el stock).
func (uc *LowStockUseCase) List(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	if cached, hit, err := uc.cache.Get(ctx, lowStockCacheKey); err == nil && hit {
		return cached, nil
	}

	products, err := uc.productRepo.ListBelowReorderPoint()
	if err != nil {
		return nil, err
	}

	items := make([]dto.LowStockItemDTO, 0, len(products))
	for _, p := range products {
		ideal := p.ReorderPoint.Mul(decimal.NewFromFloat(1.5))
		suggested := ideal.Sub(p.CurrentStock)
		if suggested.LessThanOrEqual(decimal.Zero) {
			suggested = decimal.Zero
		}
		items = append(items, dto.LowStockItemDTO{
			ProductID:    p.ID,
			SKU:          p.SKU,
			Name:         p.Name,
			CurrentStock: p.CurrentStock,
			ReorderPoint: p.ReorderPoint,
			SuggestedQty: suggested,
		})
	}

	_ = uc.cache.Set(ctx, lowStockCacheKey, items, lowStockCacheTTL)
	return items, nil
}
