package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pro/internal/application/dto"
	"github.com/jhoicas/caja-pro/internal/domain"
	"github.com/jhoicas/caja-pro/internal/domain/entity"
	domaininv "github.com/jhoicas/caja-pro/internal/domain/inventory"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
)

// AdjustStockUseCase registra ajustes manuales. Un ajuste positivo crea un
// lote de ajuste (como una recepción); uno negativo consume lotes en orden
// FIFO pero sin registros de consumo: los ajustes no se pueden revertir.
type AdjustStockUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(txRunner TxRunner, productRepo repository.ProductRepository) *AdjustStockUseCase {
	return &AdjustStockUseCase{txRunner: txRunner, productRepo: productRepo}
}

// Adjust aplica el ajuste dentro de una transacción.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, userID string, in dto.AdjustStockRequest) error {
	if in.ProductID == "" || in.Quantity.IsZero() {
		return domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		_ repository.ConsumptionRecordRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		if in.Quantity.GreaterThan(decimal.Zero) {
			return uc.adjustUp(lotRepo, movRepo, productRepo, product, userID, in, now)
		}
		return uc.adjustDown(lotRepo, movRepo, productRepo, product, userID, in, now)
	})
}

// adjustUp crea un lote de ajuste con el costo indicado (o el promedio de
// referencia si no se indica) y suma a la caché.
func (uc *AdjustStockUseCase) adjustUp(
	lotRepo repository.LotRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	userID string,
	in dto.AdjustStockRequest,
	now time.Time,
) error {
	unitCost := in.UnitCost
	if unitCost.LessThanOrEqual(decimal.Zero) {
		unitCost = product.Cost
	}
	lot := &entity.InventoryLot{
		ID:                uuid.New().String(),
		ProductID:         in.ProductID,
		ReceivedAt:        now,
		OriginalQuantity:  in.Quantity,
		RemainingQuantity: in.Quantity,
		UnitCost:          unitCost,
		SourceRef:         "AJUSTE",
		Status:            entity.LotStatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := lotRepo.Create(lot); err != nil {
		return err
	}
	if err := productRepo.UpdateStock(in.ProductID, product.CurrentStock.Add(in.Quantity)); err != nil {
		return err
	}
	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Type:      entity.MovementTypeADJUSTMENT,
		Quantity:  in.Quantity,
		UnitCost:  unitCost,
		TotalCost: in.Quantity.Mul(unitCost),
		Date:      now,
		Notes:     in.Notes,
		CreatedAt: now,
		CreatedBy: userID,
	}
	return movRepo.Create(mov)
}

// adjustDown consume lotes FIFO sin registros de consumo. Para productos sin
// lotes descuenta la caché directamente.
func (uc *AdjustStockUseCase) adjustDown(
	lotRepo repository.LotRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	userID string,
	in dto.AdjustStockRequest,
	now time.Time,
) error {
	quantity := in.Quantity.Neg()

	hasLots, err := lotRepo.HasLots(in.ProductID)
	if err != nil {
		return err
	}

	unitCost := product.Cost
	totalCost := quantity.Mul(unitCost)
	if hasLots {
		lots, err := lotRepo.ListActiveByProduct(in.ProductID)
		if err != nil {
			return err
		}
		plan, err := domaininv.PlanConsumption(lots, quantity)
		if err != nil {
			return err
		}
		for _, alloc := range plan.Allocations {
			lot := alloc.Lot
			lot.RemainingQuantity = lot.RemainingQuantity.Sub(alloc.Quantity)
			if !lot.HasRemaining() {
				lot.Status = entity.LotStatusExhausted
			}
			lot.UpdatedAt = now
			if err := lotRepo.Update(lot); err != nil {
				return err
			}
		}
		unitCost = plan.AvgUnitCost
		totalCost = plan.TotalCost
	} else if product.CurrentStock.LessThan(quantity) {
		return domain.ErrInsufficientStock
	}

	if err := productRepo.UpdateStock(in.ProductID, product.CurrentStock.Sub(quantity)); err != nil {
		return err
	}
	mov := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Type:      entity.MovementTypeADJUSTMENT,
		Quantity:  quantity.Neg(),
		UnitCost:  unitCost,
		TotalCost: totalCost.Neg(),
		Date:      now,
		Notes:     in.Notes,
		CreatedAt: now,
		CreatedBy: userID,
	}
	return movRepo.Create(mov)
}
