package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
)

// StockMovementRepository implementa repository.StockMovementRepository sobre
// PostgreSQL. La tabla es append-only: no hay UPDATE ni DELETE.
type StockMovementRepository struct {
	q Querier
}

func NewStockMovementRepository(q Querier) *StockMovementRepository {
	return &StockMovementRepository{q: q}
}

var _ repository.StockMovementRepository = (*StockMovementRepository)(nil)

func (r *StockMovementRepository) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (
			id, product_id, type, quantity, unit_cost, total_cost,
			related_sale_id, related_return_id, date, notes, created_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Type,
		movement.Quantity, movement.UnitCost, movement.TotalCost,
		nullIfEmpty(movement.RelatedSaleID), nullIfEmpty(movement.RelatedReturnID),
		movement.Date, movement.Notes, movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insertar movimiento: %w", err)
	}
	return nil
}

func (r *StockMovementRepository) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, type, quantity, unit_cost, total_cost,
		       COALESCE(related_sale_id, ''), COALESCE(related_return_id, ''),
		       date, notes, created_at, created_by
		FROM stock_movements
		WHERE product_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		ORDER BY date DESC, created_at DESC
		LIMIT $4 OFFSET $5`

	rows, err := r.q.Query(context.Background(), query, productID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	defer rows.Close()

	return collectMovements(rows)
}

func (r *StockMovementRepository) ListBySale(saleID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, type, quantity, unit_cost, total_cost,
		       COALESCE(related_sale_id, ''), COALESCE(related_return_id, ''),
		       date, notes, created_at, created_by
		FROM stock_movements
		WHERE related_sale_id = $1
		ORDER BY created_at`

	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos de venta: %w", err)
	}
	defer rows.Close()

	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var movements []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		err := rows.Scan(
			&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.UnitCost, &m.TotalCost,
			&m.RelatedSaleID, &m.RelatedReturnID,
			&m.Date, &m.Notes, &m.CreatedAt, &m.CreatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("escanear movimiento: %w", err)
		}
		movements = append(movements, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar movimientos: %w", err)
	}
	return movements, nil
}

// nullIfEmpty convierte "" en NULL para columnas con FK opcional.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
