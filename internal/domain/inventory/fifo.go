package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pro/internal/domain"
	"github.com/jhoicas/caja-pro/internal/domain/entity"
)

// Allocation es la porción de un lote asignada a un consumo.
type Allocation struct {
	Lot      *entity.InventoryLot
	Quantity decimal.Decimal
}

// ConsumptionPlan es el resultado del plan FIFO. Garantías:
// Σ Allocations.Quantity == cantidad solicitada,
// TotalCost == Σ Quantity*UnitCost, AvgUnitCost == TotalCost/cantidad.
type ConsumptionPlan struct {
	Allocations []Allocation
	TotalCost   decimal.Decimal
	AvgUnitCost decimal.Decimal
}

// PlanConsumption reparte la cantidad solicitada entre los lotes en orden FIFO
// estricto: ReceivedAt ascendente, desempate por Sequence de creación. Es una
// función pura: no muta los lotes recibidos. Si la suma disponible no alcanza,
// retorna ErrInsufficientStock sin plan parcial (todo-o-nada).
func PlanConsumption(lots []*entity.InventoryLot, quantity decimal.Decimal) (*ConsumptionPlan, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	ordered := make([]*entity.InventoryLot, 0, len(lots))
	for _, lot := range lots {
		if lot.HasRemaining() {
			ordered = append(ordered, lot)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].ReceivedAt.Equal(ordered[j].ReceivedAt) {
			return ordered[i].ReceivedAt.Before(ordered[j].ReceivedAt)
		}
		return ordered[i].Sequence < ordered[j].Sequence
	})

	available := decimal.Zero
	for _, lot := range ordered {
		available = available.Add(lot.RemainingQuantity)
	}
	if available.LessThan(quantity) {
		return nil, domain.ErrInsufficientStock
	}

	plan := &ConsumptionPlan{TotalCost: decimal.Zero}
	needed := quantity
	for _, lot := range ordered {
		if !needed.GreaterThan(decimal.Zero) {
			break
		}
		take := decimal.Min(lot.RemainingQuantity, needed)
		plan.Allocations = append(plan.Allocations, Allocation{Lot: lot, Quantity: take})
		plan.TotalCost = plan.TotalCost.Add(take.Mul(lot.UnitCost))
		needed = needed.Sub(take)
	}
	plan.AvgUnitCost = plan.TotalCost.Div(quantity)
	return plan, nil
}

// Restoration es la porción de un registro de consumo que se devuelve a su
// lote de origen.
type Restoration struct {
	Record   *entity.ConsumptionRecord
	Quantity decimal.Decimal
}

// RestorePlan es el resultado del plan de reversión. RestoredQuantity puede
// ser menor que lo solicitado si el historial reversible ya se agotó con
// retornos previos (señal de doble retorno para el caller).
type RestorePlan struct {
	Restorations     []Restoration
	RestoredQuantity decimal.Decimal
	TotalCost        decimal.Decimal
	AvgUnitCost      decimal.Decimal
}

// PlanRestore reparte la cantidad a devolver entre los registros de consumo de
// la venta, en orden inverso al consumo original: primero lo consumido más
// recientemente (ConsumedAt descendente, desempate por Seq descendente). Así
// los retornos parciales repetidos deshacen el consumo de forma simétrica.
// Función pura: no muta los registros.
func PlanRestore(records []*entity.ConsumptionRecord, requested decimal.Decimal) (*RestorePlan, error) {
	if !requested.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	ordered := make([]*entity.ConsumptionRecord, 0, len(records))
	for _, rec := range records {
		if rec.Unrestored().GreaterThan(decimal.Zero) {
			ordered = append(ordered, rec)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].ConsumedAt.Equal(ordered[j].ConsumedAt) {
			return ordered[i].ConsumedAt.After(ordered[j].ConsumedAt)
		}
		return ordered[i].Seq > ordered[j].Seq
	})

	plan := &RestorePlan{RestoredQuantity: decimal.Zero, TotalCost: decimal.Zero}
	needed := requested
	for _, rec := range ordered {
		if !needed.GreaterThan(decimal.Zero) {
			break
		}
		give := decimal.Min(rec.Unrestored(), needed)
		plan.Restorations = append(plan.Restorations, Restoration{Record: rec, Quantity: give})
		plan.RestoredQuantity = plan.RestoredQuantity.Add(give)
		plan.TotalCost = plan.TotalCost.Add(give.Mul(rec.UnitCostAtConsumption))
		needed = needed.Sub(give)
	}
	if plan.RestoredQuantity.GreaterThan(decimal.Zero) {
		plan.AvgUnitCost = plan.TotalCost.Div(plan.RestoredQuantity)
	}
	return plan, nil
}
