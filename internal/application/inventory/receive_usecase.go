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

// ReceiveStockUseCase registra recepciones de inventario de forma
// transaccional: cada recepción crea un lote de costo nuevo (un evento de
// compra = un lote), escribe el movimiento IN, actualiza la caché
// CurrentStock y el costo promedio de referencia del producto.
type ReceiveStockUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
}

// NewReceiveStockUseCase construye el caso de uso.
func NewReceiveStockUseCase(txRunner TxRunner, productRepo repository.ProductRepository) *ReceiveStockUseCase {
	return &ReceiveStockUseCase{txRunner: txRunner, productRepo: productRepo}
}

// Receive posta la recepción. ReceivedAt define el orden FIFO del lote; si
// viene vacío se usa la hora actual.
func (uc *ReceiveStockUseCase) Receive(ctx context.Context, userID string, in dto.ReceiveStockRequest) (*dto.LotResponse, error) {
	if in.ProductID == "" || !in.Quantity.GreaterThan(decimal.Zero) || in.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	receivedAt := now
	if in.ReceivedAt != nil {
		receivedAt = *in.ReceivedAt
	}

	lot := &entity.InventoryLot{
		ID:                uuid.New().String(),
		ProductID:         in.ProductID,
		ReceivedAt:        receivedAt,
		OriginalQuantity:  in.Quantity,
		RemainingQuantity: in.Quantity,
		UnitCost:          in.UnitCost,
		SourceRef:         in.SourceRef,
		Status:            entity.LotStatusActive,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		_ repository.ConsumptionRecordRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := lotRepo.Create(lot); err != nil {
			return err
		}

		newCost := domaininv.CostCalculator(product.CurrentStock, product.Cost, in.Quantity, in.UnitCost)
		if err := productRepo.UpdateCost(in.ProductID, newCost); err != nil {
			return err
		}
		newStock := product.CurrentStock.Add(in.Quantity)
		if err := productRepo.UpdateStock(in.ProductID, newStock); err != nil {
			return err
		}

		mov := &entity.StockMovement{
			ID:        uuid.New().String(),
			ProductID: in.ProductID,
			Type:      entity.MovementTypeIN,
			Quantity:  in.Quantity,
			UnitCost:  in.UnitCost,
			TotalCost: in.Quantity.Mul(in.UnitCost),
			Date:      receivedAt,
			Notes:     in.SourceRef,
			CreatedAt: now,
			CreatedBy: userID,
		}
		return movRepo.Create(mov)
	})
	if err != nil {
		return nil, err
	}

	return &dto.LotResponse{
		ID:                lot.ID,
		ProductID:         lot.ProductID,
		ReceivedAt:        lot.ReceivedAt,
		OriginalQuantity:  lot.OriginalQuantity,
		RemainingQuantity: lot.RemainingQuantity,
		UnitCost:          lot.UnitCost,
		SourceRef:         lot.SourceRef,
		Status:            lot.Status,
	}, nil
}
