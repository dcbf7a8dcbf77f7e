package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pro/internal/domain"
	"github.com/jhoicas/caja-pro/internal/domain/entity"
	domaininv "github.com/jhoicas/caja-pro/internal/domain/inventory"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
	"github.com/jhoicas/caja-pro/pkg/logger"
)

// Engine es el motor de consumo FIFO y de reversión sobre el libro de lotes.
//
// Los métodos *InTx operan con repositorios atados a la transacción del caller
// (mismo patrón que el orquestador de ventas); las consultas de disponibilidad
// usan los repositorios del pool inyectados en el constructor.
//
// Modo degradado: un producto sin lotes (datos legados migrados sin historial
// de costo) opera directamente sobre Product.CurrentStock al costo promedio de
// referencia. Esa ruta no produce registros de consumo y por tanto no es
// reversible con exactitud; se registra en WARN para que el operador lo vea,
// no se "corrige" en silencio.
type Engine struct {
	lotRepo     repository.LotRepository
	productRepo repository.ProductRepository
	log         *logger.Logger
}

// NewEngine construye el motor con repositorios de solo-lectura (pool).
func NewEngine(lotRepo repository.LotRepository, productRepo repository.ProductRepository, log *logger.Logger) *Engine {
	return &Engine{lotRepo: lotRepo, productRepo: productRepo, log: log}
}

// ConsumeResult resultado de un consumo FIFO.
type ConsumeResult struct {
	TotalCost   decimal.Decimal
	AvgUnitCost decimal.Decimal
	Allocations []*entity.ConsumptionRecord
	NewStock    decimal.Decimal
	Degraded    bool
}

// RestoreResult resultado de una reversión. RestoredQuantity puede ser menor
// que lo solicitado si el historial reversible ya estaba agotado.
type RestoreResult struct {
	RestoredQuantity decimal.Decimal
	TotalCost        decimal.Decimal
	AvgUnitCost      decimal.Decimal
	NewStock         decimal.Decimal
	Degraded         bool
}

// GetAvailableQuantity devuelve la suma de RemainingQuantity de los lotes
// activos, o CurrentStock si el producto no tiene lotes (modo degradado).
func (e *Engine) GetAvailableQuantity(productID string) (decimal.Decimal, error) {
	hasLots, err := e.lotRepo.HasLots(productID)
	if err != nil {
		return decimal.Zero, err
	}
	if !hasLots {
		product, err := e.productRepo.GetByID(productID)
		if err != nil {
			return decimal.Zero, err
		}
		if product == nil {
			return decimal.Zero, domain.ErrNotFound
		}
		return product.CurrentStock, nil
	}
	lots, err := e.lotRepo.ListActiveByProduct(productID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, lot := range lots {
		total = total.Add(lot.RemainingQuantity)
	}
	return total, nil
}

// GetActiveLots devuelve los lotes con cantidad restante, en orden FIFO.
func (e *Engine) GetActiveLots(productID string) ([]*entity.InventoryLot, error) {
	return e.lotRepo.ListActiveByProduct(productID)
}

// ConsumeFIFOInTx consume quantity del producto en orden FIFO estricto usando
// los repositorios del caller (misma transacción): descuenta lotes, crea los
// registros de consumo, actualiza la caché CurrentStock y escribe el
// movimiento OUT. Todo-o-nada: si la suma de lotes activos no alcanza retorna
// ErrInsufficientStock sin mutar nada (el plan se calcula antes de escribir).
func (e *Engine) ConsumeFIFOInTx(
	lotRepo repository.LotRepository,
	consRepo repository.ConsumptionRecordRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	saleID, userID string,
	quantity decimal.Decimal,
	now time.Time,
) (*ConsumeResult, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	hasLots, err := lotRepo.HasLots(product.ID)
	if err != nil {
		return nil, err
	}
	if !hasLots {
		return e.consumeDegraded(movRepo, productRepo, product, saleID, userID, quantity, now)
	}

	lots, err := lotRepo.ListActiveByProduct(product.ID)
	if err != nil {
		return nil, err
	}
	plan, err := domaininv.PlanConsumption(lots, quantity)
	if err != nil {
		return nil, err
	}

	result := &ConsumeResult{
		TotalCost:   plan.TotalCost,
		AvgUnitCost: plan.AvgUnitCost,
	}
	remaining := decimal.Zero
	for _, lot := range lots {
		remaining = remaining.Add(lot.RemainingQuantity)
	}
	result.NewStock = remaining.Sub(quantity)

	for i, alloc := range plan.Allocations {
		lot := alloc.Lot
		lot.RemainingQuantity = lot.RemainingQuantity.Sub(alloc.Quantity)
		if !lot.HasRemaining() {
			lot.Status = entity.LotStatusExhausted
		}
		lot.UpdatedAt = now
		if err := lotRepo.Update(lot); err != nil {
			return nil, err
		}
		record := &entity.ConsumptionRecord{
			ID:                    uuid.New().String(),
			SaleID:                saleID,
			ProductID:             product.ID,
			LotID:                 lot.ID,
			Seq:                   i,
			QuantityConsumed:      alloc.Quantity,
			RestoredQuantity:      decimal.Zero,
			UnitCostAtConsumption: lot.UnitCost,
			ConsumedAt:            now,
		}
		if err := consRepo.Create(record); err != nil {
			return nil, err
		}
		result.Allocations = append(result.Allocations, record)
	}

	if err := productRepo.UpdateStock(product.ID, result.NewStock); err != nil {
		return nil, err
	}
	product.CurrentStock = result.NewStock

	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     product.ID,
		Type:          entity.MovementTypeOUT,
		Quantity:      quantity.Neg(),
		UnitCost:      plan.AvgUnitCost,
		TotalCost:     plan.TotalCost.Neg(),
		RelatedSaleID: saleID,
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     userID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	return result, nil
}

// consumeDegraded descuenta directamente la caché CurrentStock al costo
// promedio de referencia. No produce registros de consumo: la pérdida de
// precisión de costo es conocida y se reporta, no se oculta.
func (e *Engine) consumeDegraded(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	saleID, userID string,
	quantity decimal.Decimal,
	now time.Time,
) (*ConsumeResult, error) {
	if product.CurrentStock.LessThan(quantity) {
		return nil, domain.ErrInsufficientStock
	}
	newStock := product.CurrentStock.Sub(quantity)
	if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
		return nil, err
	}
	product.CurrentStock = newStock

	unitCost := product.Cost
	totalCost := quantity.Mul(unitCost)
	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     product.ID,
		Type:          entity.MovementTypeOUT,
		Quantity:      quantity.Neg(),
		UnitCost:      unitCost,
		TotalCost:     totalCost.Neg(),
		RelatedSaleID: saleID,
		Date:          now,
		Notes:         "salida sin lotes (modo degradado)",
		CreatedAt:     now,
		CreatedBy:     userID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}

	e.log.Warn().
		Str("product_id", product.ID).
		Str("sale_id", saleID).
		Msg("consumo en modo degradado: producto sin lotes, costo sin precisión")

	return &ConsumeResult{
		TotalCost:   totalCost,
		AvgUnitCost: unitCost,
		NewStock:    newStock,
		Degraded:    true,
	}, nil
}

// RestoreForReturnInTx restaura cantidad previamente consumida por saleID para
// el producto, en orden inverso al consumo (lo último consumido primero), de
// vuelta a los mismos lotes de origen. Actualiza RestoredQuantity en los
// registros, la caché CurrentStock y escribe el movimiento RETURN. La cantidad
// restaurada puede ser menor que la solicitada: el caller debe tratarlo como
// restauración parcial (posible doble retorno), nunca como éxito silencioso.
func (e *Engine) RestoreForReturnInTx(
	lotRepo repository.LotRepository,
	consRepo repository.ConsumptionRecordRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	saleID, returnID, userID string,
	requested decimal.Decimal,
	now time.Time,
) (*RestoreResult, error) {
	if !requested.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	hasLots, err := lotRepo.HasLots(product.ID)
	if err != nil {
		return nil, err
	}
	if !hasLots {
		return e.restoreDegraded(movRepo, productRepo, product, saleID, returnID, userID, requested, now)
	}

	records, err := consRepo.ListBySaleAndProduct(saleID, product.ID)
	if err != nil {
		return nil, err
	}
	plan, err := domaininv.PlanRestore(records, requested)
	if err != nil {
		return nil, err
	}
	if plan.RestoredQuantity.IsZero() {
		// Historial agotado: nada que restaurar. El caller decide si lo
		// reporta como doble retorno.
		return &RestoreResult{
			RestoredQuantity: decimal.Zero,
			NewStock:         product.CurrentStock,
		}, nil
	}

	for _, res := range plan.Restorations {
		rec := res.Record
		rec.RestoredQuantity = rec.RestoredQuantity.Add(res.Quantity)
		if err := consRepo.Update(rec); err != nil {
			return nil, err
		}
		lot, err := lotRepo.GetByID(rec.LotID)
		if err != nil {
			return nil, err
		}
		if lot == nil {
			return nil, domain.ErrNotFound
		}
		lot.RemainingQuantity = lot.RemainingQuantity.Add(res.Quantity)
		// Tope defensivo del invariante RemainingQuantity <= OriginalQuantity.
		if lot.RemainingQuantity.GreaterThan(lot.OriginalQuantity) {
			lot.RemainingQuantity = lot.OriginalQuantity
		}
		if lot.HasRemaining() {
			lot.Status = entity.LotStatusActive
		}
		lot.UpdatedAt = now
		if err := lotRepo.Update(lot); err != nil {
			return nil, err
		}
	}

	// Recalcular la caché desde los lotes para sostener la conservación.
	active, err := lotRepo.ListActiveByProduct(product.ID)
	if err != nil {
		return nil, err
	}
	newStock := decimal.Zero
	for _, lot := range active {
		newStock = newStock.Add(lot.RemainingQuantity)
	}
	if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
		return nil, err
	}
	product.CurrentStock = newStock

	mov := &entity.StockMovement{
		ID:              uuid.New().String(),
		ProductID:       product.ID,
		Type:            entity.MovementTypeRETURN,
		Quantity:        plan.RestoredQuantity,
		UnitCost:        plan.AvgUnitCost,
		TotalCost:       plan.TotalCost,
		RelatedSaleID:   saleID,
		RelatedReturnID: returnID,
		Date:            now,
		CreatedAt:       now,
		CreatedBy:       userID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}

	return &RestoreResult{
		RestoredQuantity: plan.RestoredQuantity,
		TotalCost:        plan.TotalCost,
		AvgUnitCost:      plan.AvgUnitCost,
		NewStock:         newStock,
	}, nil
}

// restoreDegraded incrementa CurrentStock directamente, sin precisión de
// costo (productos sin lotes no tienen registros de consumo que revertir).
func (e *Engine) restoreDegraded(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	saleID, returnID, userID string,
	requested decimal.Decimal,
	now time.Time,
) (*RestoreResult, error) {
	newStock := product.CurrentStock.Add(requested)
	if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
		return nil, err
	}
	product.CurrentStock = newStock

	unitCost := product.Cost
	mov := &entity.StockMovement{
		ID:              uuid.New().String(),
		ProductID:       product.ID,
		Type:            entity.MovementTypeRETURN,
		Quantity:        requested,
		UnitCost:        unitCost,
		TotalCost:       requested.Mul(unitCost),
		RelatedSaleID:   saleID,
		RelatedReturnID: returnID,
		Date:            now,
		Notes:           "retorno sin lotes (modo degradado)",
		CreatedAt:       now,
		CreatedBy:       userID,
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}

	e.log.Warn().
		Str("product_id", product.ID).
		Str("sale_id", saleID).
		Msg("retorno en modo degradado: producto sin lotes, costo sin precisión")

	return &RestoreResult{
		RestoredQuantity: requested,
		TotalCost:        requested.Mul(unitCost),
		AvgUnitCost:      unitCost,
		NewStock:         newStock,
		Degraded:         true,
	}, nil
}
