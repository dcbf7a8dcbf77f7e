package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/caja-pro/internal/domain"
	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
)

// ConsumptionRecordRepository implementa repository.ConsumptionRecordRepository
// sobre PostgreSQL.
type ConsumptionRecordRepository struct {
	q Querier
}

func NewConsumptionRecordRepository(q Querier) *ConsumptionRecordRepository {
	return &ConsumptionRecordRepository{q: q}
}

var _ repository.ConsumptionRecordRepository = (*ConsumptionRecordRepository)(nil)

func (r *ConsumptionRecordRepository) Create(record *entity.ConsumptionRecord) error {
	query := `
		INSERT INTO consumption_records (
			id, sale_id, product_id, lot_id, seq, quantity_consumed,
			restored_quantity, unit_cost_at_consumption, consumed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.SaleID, record.ProductID, record.LotID, record.Seq,
		record.QuantityConsumed, record.RestoredQuantity,
		record.UnitCostAtConsumption, record.ConsumedAt,
	)
	if err != nil {
		return fmt.Errorf("insertar registro de consumo: %w", err)
	}
	return nil
}

func (r *ConsumptionRecordRepository) ListBySaleAndProduct(saleID, productID string) ([]*entity.ConsumptionRecord, error) {
	// Orden de reversión: lo último consumido se restaura primero.
	query := `
		SELECT id, sale_id, product_id, lot_id, seq, quantity_consumed,
		       restored_quantity, unit_cost_at_consumption, consumed_at
		FROM consumption_records
		WHERE sale_id = $1 AND product_id = $2
		ORDER BY consumed_at DESC, seq DESC`

	rows, err := r.q.Query(context.Background(), query, saleID, productID)
	if err != nil {
		return nil, fmt.Errorf("listar registros de consumo: %w", err)
	}
	defer rows.Close()

	var records []*entity.ConsumptionRecord
	for rows.Next() {
		var c entity.ConsumptionRecord
		err := rows.Scan(
			&c.ID, &c.SaleID, &c.ProductID, &c.LotID, &c.Seq,
			&c.QuantityConsumed, &c.RestoredQuantity,
			&c.UnitCostAtConsumption, &c.ConsumedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("escanear registro de consumo: %w", err)
		}
		records = append(records, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar registros de consumo: %w", err)
	}
	return records, nil
}

func (r *ConsumptionRecordRepository) Update(record *entity.ConsumptionRecord) error {
	// Solo RestoredQuantity es mutable: el resto del registro es histórico.
	query := `UPDATE consumption_records SET restored_quantity = $2 WHERE id = $1`

	tag, err := r.q.Exec(context.Background(), query, record.ID, record.RestoredQuantity)
	if err != nil {
		return fmt.Errorf("actualizar registro de consumo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
