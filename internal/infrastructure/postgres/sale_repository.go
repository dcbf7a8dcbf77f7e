package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/caja-pro/internal/domain"
	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
)

// SaleRepository implementa repository.SaleRepository sobre PostgreSQL.
type SaleRepository struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepository {
	return &SaleRepository{q: q}
}

var _ repository.SaleRepository = (*SaleRepository)(nil)

func (r *SaleRepository) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (
			id, customer_id, number, date, net_total, tax_total, grand_total,
			total_cogs, payment_method, status, has_returns, returned_amount,
			created_at, updated_at, created_by, device_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.q.Exec(context.Background(), query,
		sale.ID, nullIfEmpty(sale.CustomerID), sale.Number, sale.Date,
		sale.NetTotal, sale.TaxTotal, sale.GrandTotal, sale.TotalCOGS,
		sale.PaymentMethod, sale.Status, sale.HasReturns, sale.ReturnedAmount,
		sale.CreatedAt, sale.UpdatedAt, sale.CreatedBy, sale.DeviceID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("número %s: %w", sale.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("insertar venta: %w", err)
	}
	return nil
}

func (r *SaleRepository) CreateLine(line *entity.SaleLine) error {
	query := `
		INSERT INTO sale_lines (
			id, sale_id, product_id, quantity, unit_price, tax_rate,
			subtotal, tax_amount, avg_unit_cost, total_cost
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.SaleID, line.ProductID, line.Quantity, line.UnitPrice,
		line.TaxRate, line.Subtotal, line.TaxAmount, line.AvgUnitCost, line.TotalCost,
	)
	if err != nil {
		return fmt.Errorf("insertar línea de venta: %w", err)
	}
	return nil
}

func (r *SaleRepository) GetByID(id string) (*entity.Sale, error) {
	query := `
		SELECT id, COALESCE(customer_id, ''), number, date, net_total, tax_total,
		       grand_total, total_cogs, payment_method, status, has_returns,
		       returned_amount, created_at, updated_at, created_by, device_id
		FROM sales
		WHERE id = $1`

	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.CustomerID, &s.Number, &s.Date, &s.NetTotal, &s.TaxTotal,
		&s.GrandTotal, &s.TotalCOGS, &s.PaymentMethod, &s.Status, &s.HasReturns,
		&s.ReturnedAmount, &s.CreatedAt, &s.UpdatedAt, &s.CreatedBy, &s.DeviceID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("obtener venta: %w", err)
	}
	return &s, nil
}

func (r *SaleRepository) GetLines(saleID string) ([]*entity.SaleLine, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, tax_rate,
		       subtotal, tax_amount, avg_unit_cost, total_cost
		FROM sale_lines
		WHERE sale_id = $1
		ORDER BY id`

	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("listar líneas de venta: %w", err)
	}
	defer rows.Close()

	var lines []*entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		err := rows.Scan(
			&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice,
			&l.TaxRate, &l.Subtotal, &l.TaxAmount, &l.AvgUnitCost, &l.TotalCost,
		)
		if err != nil {
			return nil, fmt.Errorf("escanear línea de venta: %w", err)
		}
		lines = append(lines, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar líneas de venta: %w", err)
	}
	return lines, nil
}

func (r *SaleRepository) Update(sale *entity.Sale) error {
	query := `
		UPDATE sales SET
			status = $2, has_returns = $3, returned_amount = $4, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.Status, sale.HasReturns, sale.ReturnedAmount,
	)
	if err != nil {
		return fmt.Errorf("actualizar venta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
