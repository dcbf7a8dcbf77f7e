package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
)

// ReturnRepository implementa repository.ReturnRepository sobre PostgreSQL.
type ReturnRepository struct {
	q Querier
}

func NewReturnRepository(q Querier) *ReturnRepository {
	return &ReturnRepository{q: q}
}

var _ repository.ReturnRepository = (*ReturnRepository)(nil)

func (r *ReturnRepository) Create(ret *entity.Return) error {
	query := `
		INSERT INTO returns (
			id, sale_id, date, refund_total, tax_total, total_cost,
			created_at, created_by, device_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.q.Exec(context.Background(), query,
		ret.ID, ret.SaleID, ret.Date, ret.RefundTotal, ret.TaxTotal,
		ret.TotalCost, ret.CreatedAt, ret.CreatedBy, ret.DeviceID,
	)
	if err != nil {
		return fmt.Errorf("insertar devolución: %w", err)
	}
	return nil
}

func (r *ReturnRepository) CreateLine(line *entity.ReturnLine) error {
	query := `
		INSERT INTO return_lines (
			id, return_id, sale_line_id, product_id, quantity, unit_price,
			tax_rate, refund_amount, tax_amount, restored_quantity, avg_unit_cost
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.ReturnID, line.SaleLineID, line.ProductID,
		line.Quantity, line.UnitPrice, line.TaxRate, line.RefundAmount,
		line.TaxAmount, line.RestoredQuantity, line.AvgUnitCost,
	)
	if err != nil {
		return fmt.Errorf("insertar línea de devolución: %w", err)
	}
	return nil
}

func (r *ReturnRepository) ListBySale(saleID string) ([]*entity.Return, error) {
	query := `
		SELECT id, sale_id, date, refund_total, tax_total, total_cost,
		       created_at, created_by, device_id
		FROM returns
		WHERE sale_id = $1
		ORDER BY created_at`

	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("listar devoluciones: %w", err)
	}
	defer rows.Close()

	var returns []*entity.Return
	for rows.Next() {
		var ret entity.Return
		err := rows.Scan(
			&ret.ID, &ret.SaleID, &ret.Date, &ret.RefundTotal, &ret.TaxTotal,
			&ret.TotalCost, &ret.CreatedAt, &ret.CreatedBy, &ret.DeviceID,
		)
		if err != nil {
			return nil, fmt.Errorf("escanear devolución: %w", err)
		}
		returns = append(returns, &ret)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar devoluciones: %w", err)
	}
	return returns, nil
}

func (r *ReturnRepository) ListLinesBySale(saleID string) ([]*entity.ReturnLine, error) {
	query := `
		SELECT rl.id, rl.return_id, rl.sale_line_id, rl.product_id, rl.quantity,
		       rl.unit_price, rl.tax_rate, rl.refund_amount, rl.tax_amount,
		       rl.restored_quantity, rl.avg_unit_cost
		FROM return_lines rl
		JOIN returns r ON r.id = rl.return_id
		WHERE r.sale_id = $1
		ORDER BY r.created_at, rl.id`

	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("listar líneas de devolución: %w", err)
	}
	defer rows.Close()

	var lines []*entity.ReturnLine
	for rows.Next() {
		var l entity.ReturnLine
		err := rows.Scan(
			&l.ID, &l.ReturnID, &l.SaleLineID, &l.ProductID, &l.Quantity,
			&l.UnitPrice, &l.TaxRate, &l.RefundAmount, &l.TaxAmount,
			&l.RestoredQuantity, &l.AvgUnitCost,
		)
		if err != nil {
			return nil, fmt.Errorf("escanear línea de devolución: %w", err)
		}
		lines = append(lines, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar líneas de devolución: %w", err)
	}
	return lines, nil
}

func (r *ReturnRepository) SumReturnedBySaleLine(saleLineID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM return_lines
		WHERE sale_line_id = $1`

	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, saleLineID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sumar devuelto por línea: %w", err)
	}
	return sum, nil
}
