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

// CustomerRepository implementa repository.CustomerRepository sobre PostgreSQL.
type CustomerRepository struct {
	q Querier
}

func NewCustomerRepository(q Querier) *CustomerRepository {
	return &CustomerRepository{q: q}
}

var _ repository.CustomerRepository = (*CustomerRepository)(nil)

func (r *CustomerRepository) Create(customer *entity.Customer) error {
	query := `
		INSERT INTO customers (
			id, name, tax_id, email, phone, credit_balance, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, customer.TaxID, customer.Email,
		customer.Phone, customer.CreditBalance, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("tax_id %s: %w", customer.TaxID, domain.ErrDuplicate)
		}
		return fmt.Errorf("insertar cliente: %w", err)
	}
	return nil
}

func (r *CustomerRepository) GetByID(id string) (*entity.Customer, error) {
	query := `
		SELECT id, name, tax_id, email, phone, credit_balance, created_at, updated_at
		FROM customers
		WHERE id = $1`

	var c entity.Customer
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.Name, &c.TaxID, &c.Email, &c.Phone,
		&c.CreditBalance, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepository) List(limit, offset int) ([]*entity.Customer, error) {
	query := `
		SELECT id, name, tax_id, email, phone, credit_balance, created_at, updated_at
		FROM customers
		ORDER BY name
		LIMIT $1 OFFSET $2`

	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	defer rows.Close()

	var customers []*entity.Customer
	for rows.Next() {
		var c entity.Customer
		err := rows.Scan(
			&c.ID, &c.Name, &c.TaxID, &c.Email, &c.Phone,
			&c.CreditBalance, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("escanear cliente: %w", err)
		}
		customers = append(customers, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar clientes: %w", err)
	}
	return customers, nil
}

func (r *CustomerRepository) UpdateBalance(customerID string, balance decimal.Decimal) error {
	query := `UPDATE customers SET credit_balance = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.q.Exec(context.Background(), query, customerID, balance)
	if err != nil {
		return fmt.Errorf("actualizar balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
