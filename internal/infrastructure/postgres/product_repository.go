package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pro/internal/domain"
	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
)

// ProductRepository implementa repository.ProductRepository sobre PostgreSQL.
type ProductRepository struct {
	q Querier
}

func NewProductRepository(q Querier) *ProductRepository {
	return &ProductRepository{q: q}
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (
			id, sku, name, description, price, cost, tax_rate,
			current_stock, reorder_point, unit_measure, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Name, product.Description,
		product.Price, product.Cost, product.TaxRate,
		product.CurrentStock, product.ReorderPoint, product.UnitMeasure,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sku %s: %w", product.SKU, domain.ErrDuplicate)
		}
		return fmt.Errorf("insertar producto: %w", err)
	}
	return nil
}

func (r *ProductRepository) GetByID(id string) (*entity.Product, error) {
	query := `
		SELECT id, sku, name, description, price, cost, tax_rate,
		       current_stock, reorder_point, unit_measure, created_at, updated_at
		FROM products
		WHERE id = $1`

	row := r.q.QueryRow(context.Background(), query, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	return product, nil
}

func (r *ProductRepository) List(limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT id, sku, name, description, price, cost, tax_rate,
		       current_stock, reorder_point, unit_measure, created_at, updated_at
		FROM products
		ORDER BY name
		LIMIT $1 OFFSET $2`

	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *ProductRepository) Update(product *entity.Product) error {
	query := `
		UPDATE products SET
			sku = $2, name = $3, description = $4, price = $5, cost = $6,
			tax_rate = $7, current_stock = $8, reorder_point = $9,
			unit_measure = $10, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Name, product.Description,
		product.Price, product.Cost, product.TaxRate, product.CurrentStock,
		product.ReorderPoint, product.UnitMeasure,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("sku %s: %w", product.SKU, domain.ErrDuplicate)
		}
		return fmt.Errorf("actualizar producto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) UpdateCost(productID string, cost decimal.Decimal) error {
	query := `UPDATE products SET cost = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.q.Exec(context.Background(), query, productID, cost)
	if err != nil {
		return fmt.Errorf("actualizar costo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) UpdateStock(productID string, stock decimal.Decimal) error {
	query := `UPDATE products SET current_stock = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.q.Exec(context.Background(), query, productID, stock)
	if err != nil {
		return fmt.Errorf("actualizar stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) ListBelowReorderPoint() ([]*entity.Product, error) {
	query := `
		SELECT id, sku, name, description, price, cost, tax_rate,
		       current_stock, reorder_point, unit_measure, created_at, updated_at
		FROM products
		WHERE reorder_point > 0 AND current_stock <= reorder_point
		ORDER BY current_stock - reorder_point`

	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("listar bajo punto de reorden: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.Cost, &p.TaxRate,
		&p.CurrentStock, &p.ReorderPoint, &p.UnitMeasure, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var products []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("escanear producto: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar productos: %w", err)
	}
	return products, nil
}
