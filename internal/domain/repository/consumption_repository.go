package repository

import "github.com/jhoicas/caja-pro/internal/domain/entity"

// ConsumptionRecordRepository define el puerto de persistencia para los
// registros de consumo lote↔venta. Solo se crean y se actualizan
// (RestoredQuantity); nunca se borran.
type ConsumptionRecordRepository interface {
	Create(record *entity.ConsumptionRecord) error
	// ListBySaleAndProduct devuelve los registros de la venta para el producto
	// en orden de reversión: ConsumedAt descendente, desempate por Seq
	// descendente (lo último consumido se restaura primero).
	ListBySaleAndProduct(saleID, productID string) ([]*entity.ConsumptionRecord, error)
	Update(record *entity.ConsumptionRecord) error
}
