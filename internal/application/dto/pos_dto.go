package dto

import "github.com/shopspring/decimal"

// CartLineRequest línea del carrito en la confirmación de venta.
type CartLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"` // 0 = usar precio de lista del producto
}

// ConfirmSaleRequest petición de confirmación de venta.
type ConfirmSaleRequest struct {
	CustomerID    string            `json:"customer_id"`
	PaymentMethod string            `json:"payment_method"` // CASH, CARD, ON_ACCOUNT
	Lines         []CartLineRequest `json:"lines"`
}

// CommitStepResult resultado de un sub-paso no crítico de la confirmación.
type CommitStepResult struct {
	Step  string `json:"step"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// SaleLineResponse línea confirmada con su costo FIFO.
type SaleLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	AvgUnitCost decimal.Decimal `json:"avg_unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	Degraded    bool            `json:"degraded,omitempty"` // sin lotes: costo sin precisión
}

// ConfirmSaleResponse respuesta de la confirmación de venta.
type ConfirmSaleResponse struct {
	SaleID     string             `json:"sale_id"`
	Number     string             `json:"number"`
	NetTotal   decimal.Decimal    `json:"net_total"`
	TaxTotal   decimal.Decimal    `json:"tax_total"`
	GrandTotal decimal.Decimal    `json:"grand_total"`
	TotalCOGS  decimal.Decimal    `json:"total_cogs"`
	Lines      []SaleLineResponse `json:"lines"`
	// Commit enumera los sub-pasos posteriores al commit de stock: pago,
	// balance de cliente y libro de ITBIS. Una falla aquí no revierte el
	// stock ya comprometido (decisión explícita de diseño).
	Commit []CommitStepResult `json:"commit"`
}

// ReturnLineRequest línea seleccionada para devolver.
type ReturnLineRequest struct {
	SaleLineID string          `json:"sale_line_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ProcessReturnRequest petición de devolución contra una venta.
type ProcessReturnRequest struct {
	SaleID string              `json:"sale_id"`
	Lines  []ReturnLineRequest `json:"lines"`
}

// ReturnLineResponse línea devuelta. Si RestoredQuantity < Quantity el
// historial reversible estaba parcialmente agotado (posible doble retorno).
type ReturnLineResponse struct {
	SaleLineID       string          `json:"sale_line_id"`
	ProductID        string          `json:"product_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	RestoredQuantity decimal.Decimal `json:"restored_quantity"`
	RefundAmount     decimal.Decimal `json:"refund_amount"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	AvgUnitCost      decimal.Decimal `json:"avg_unit_cost"`
	Degraded         bool            `json:"degraded,omitempty"`
}

// ProcessReturnResponse respuesta de la devolución.
type ProcessReturnResponse struct {
	ReturnID    string               `json:"return_id"`
	SaleID      string               `json:"sale_id"`
	RefundTotal decimal.Decimal      `json:"refund_total"`
	TaxTotal    decimal.Decimal      `json:"tax_total"`
	TotalCost   decimal.Decimal      `json:"total_cost"`
	// PartialRestore indica que alguna línea restauró menos de lo solicitado;
	// el caller debe mostrarlo en vez de reportar éxito silencioso.
	PartialRestore bool                 `json:"partial_restore"`
	Lines          []ReturnLineResponse `json:"lines"`
	Commit         []CommitStepResult   `json:"commit"`
}
