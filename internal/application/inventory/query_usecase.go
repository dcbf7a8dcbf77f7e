package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/caja-pro/internal/application/dto"
	"github.com/jhoicas/caja-pro/internal/domain"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
)

// QueryUseCase consultas de solo lectura sobre lotes y bitácora de
// movimientos, para auditoría y tableros.
type QueryUseCase struct {
	lotRepo     repository.LotRepository
	movRepo     repository.StockMovementRepository
	productRepo repository.ProductRepository
}

func NewQueryUseCase(
	lotRepo repository.LotRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) *QueryUseCase {
	return &QueryUseCase{lotRepo: lotRepo, movRepo: movRepo, productRepo: productRepo}
}

// ListLots devuelve los lotes del producto en orden FIFO. Con onlyActive solo
// los que tienen cantidad restante.
func (uc *QueryUseCase) ListLots(ctx context.Context, productID string, onlyActive bool) ([]dto.LotResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	list := uc.lotRepo.ListByProduct
	if onlyActive {
		list = uc.lotRepo.ListActiveByProduct
	}
	lots, err := list(productID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.LotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.LotResponse{
			ID:                l.ID,
			ProductID:         l.ProductID,
			ReceivedAt:        l.ReceivedAt,
			OriginalQuantity:  l.OriginalQuantity,
			RemainingQuantity: l.RemainingQuantity,
			UnitCost:          l.UnitCost,
			SourceRef:         l.SourceRef,
			Status:            l.Status,
		})
	}
	return out, nil
}

// ListMovements devuelve la bitácora del producto, más reciente primero,
// con filtro opcional de fechas.
func (uc *QueryUseCase) ListMovements(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]dto.MovementResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	movements, err := uc.movRepo.ListByProduct(productID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementResponse{
			ID:              m.ID,
			ProductID:       m.ProductID,
			Type:            m.Type,
			Quantity:        m.Quantity,
			UnitCost:        m.UnitCost,
			TotalCost:       m.TotalCost,
			RelatedSaleID:   m.RelatedSaleID,
			RelatedReturnID: m.RelatedReturnID,
			Date:            m.Date,
			Notes:           m.Notes,
		})
	}
	return out, nil
}
