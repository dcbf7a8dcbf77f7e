package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveStockRequest registra la recepción de inventario: crea un lote de
// costo nuevo (una compra o factura de proveedor posteada).
type ReceiveStockRequest struct {
	ProductID  string          `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	SourceRef  string          `json:"source_ref"` // número de factura de compra
	ReceivedAt *time.Time      `json:"received_at"`
}

// AdjustStockRequest ajuste manual: positivo crea un lote de ajuste, negativo
// consume lotes FIFO sin registros de consumo (no reversible).
type AdjustStockRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"` // solo ajustes positivos
	Notes     string          `json:"notes"`
}

// LotResponse lote de costo para consultas.
type LotResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	ReceivedAt        time.Time       `json:"received_at"`
	OriginalQuantity  decimal.Decimal `json:"original_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	SourceRef         string          `json:"source_ref"`
	Status            string          `json:"status"`
}

// MovementResponse movimiento de la bitácora para consultas.
type MovementResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	Type            string          `json:"type"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	RelatedSaleID   string          `json:"related_sale_id,omitempty"`
	RelatedReturnID string          `json:"related_return_id,omitempty"`
	Date            time.Time       `json:"date"`
	Notes           string          `json:"notes,omitempty"`
}

// LowStockItemDTO producto bajo punto de reorden para el tablero de alertas.
type LowStockItemDTO struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	SuggestedQty decimal.Decimal `json:"suggested_qty"`
}
