package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/caja-pro/internal/domain"
	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
)

// LotRepository implementa repository.LotRepository sobre PostgreSQL.
// La columna sequence es BIGSERIAL: el orden de inserción desempata lotes
// recibidos en el mismo instante sin coordinar relojes entre dispositivos.
type LotRepository struct {
	q Querier
}

func NewLotRepository(q Querier) *LotRepository {
	return &LotRepository{q: q}
}

var _ repository.LotRepository = (*LotRepository)(nil)

func (r *LotRepository) Create(lot *entity.InventoryLot) error {
	query := `
		INSERT INTO inventory_lots (
			id, product_id, received_at, original_quantity, remaining_quantity,
			unit_cost, source_ref, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING sequence`

	err := r.q.QueryRow(context.Background(), query,
		lot.ID, lot.ProductID, lot.ReceivedAt,
		lot.OriginalQuantity, lot.RemainingQuantity,
		lot.UnitCost, lot.SourceRef, lot.Status,
		lot.CreatedAt, lot.UpdatedAt,
	).Scan(&lot.Sequence)
	if err != nil {
		return fmt.Errorf("insertar lote: %w", err)
	}
	return nil
}

func (r *LotRepository) GetByID(id string) (*entity.InventoryLot, error) {
	query := `
		SELECT id, product_id, sequence, received_at, original_quantity,
		       remaining_quantity, unit_cost, source_ref, status, created_at, updated_at
		FROM inventory_lots
		WHERE id = $1`

	rows, err := r.q.Query(context.Background(), query, id)
	if err != nil {
		return nil, fmt.Errorf("obtener lote: %w", err)
	}
	defer rows.Close()

	lots, err := collectLots(rows)
	if err != nil {
		return nil, err
	}
	if len(lots) == 0 {
		return nil, nil
	}
	return lots[0], nil
}

func (r *LotRepository) ListActiveByProduct(productID string) ([]*entity.InventoryLot, error) {
	query := `
		SELECT id, product_id, sequence, received_at, original_quantity,
		       remaining_quantity, unit_cost, source_ref, status, created_at, updated_at
		FROM inventory_lots
		WHERE product_id = $1 AND remaining_quantity > 0
		ORDER BY received_at, sequence`

	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("listar lotes activos: %w", err)
	}
	defer rows.Close()

	return collectLots(rows)
}

func (r *LotRepository) ListByProduct(productID string) ([]*entity.InventoryLot, error) {
	query := `
		SELECT id, product_id, sequence, received_at, original_quantity,
		       remaining_quantity, unit_cost, source_ref, status, created_at, updated_at
		FROM inventory_lots
		WHERE product_id = $1
		ORDER BY received_at, sequence`

	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("listar lotes: %w", err)
	}
	defer rows.Close()

	return collectLots(rows)
}

func (r *LotRepository) HasLots(productID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM inventory_lots WHERE product_id = $1)`

	var exists bool
	if err := r.q.QueryRow(context.Background(), query, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("verificar lotes: %w", err)
	}
	return exists, nil
}

func (r *LotRepository) Update(lot *entity.InventoryLot) error {
	query := `
		UPDATE inventory_lots SET
			remaining_quantity = $2, status = $3, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.RemainingQuantity, lot.Status,
	)
	if err != nil {
		return fmt.Errorf("actualizar lote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func collectLots(rows pgx.Rows) ([]*entity.InventoryLot, error) {
	var lots []*entity.InventoryLot
	for rows.Next() {
		var l entity.InventoryLot
		err := rows.Scan(
			&l.ID, &l.ProductID, &l.Sequence, &l.ReceivedAt,
			&l.OriginalQuantity, &l.RemainingQuantity, &l.UnitCost,
			&l.SourceRef, &l.Status, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("escanear lote: %w", err)
		}
		lots = append(lots, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar lotes: %w", err)
	}
	return lots, nil
}
