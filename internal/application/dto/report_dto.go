package dto

import "github.com/shopspring/decimal"

// ITBISBucketRow fila del reporte mensual de ITBIS por cubeta de tasa.
type ITBISBucketRow struct {
	RateBucket    decimal.Decimal `json:"rate_bucket"` // fracción: 0.18, 0.16, 0
	BaseCollected decimal.Decimal `json:"base_collected"`
	TaxCollected  decimal.Decimal `json:"tax_collected"`
	BaseReversed  decimal.Decimal `json:"base_reversed"`
	TaxReversed   decimal.Decimal `json:"tax_reversed"`
	NetTax        decimal.Decimal `json:"net_tax"` // cobrado - revertido
}

// ITBISReportResponse reporte mensual para la exportación de cumplimiento
// (formato tipo 607 de la DGII).
type ITBISReportResponse struct {
	Year     int              `json:"year"`
	Month    int              `json:"month"`
	Buckets  []ITBISBucketRow `json:"buckets"`
	TotalNet decimal.Decimal  `json:"total_net"`
}
