package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
)

// PaymentRepository implementa repository.PaymentRepository sobre PostgreSQL.
type PaymentRepository struct {
	q Querier
}

func NewPaymentRepository(q Querier) *PaymentRepository {
	return &PaymentRepository{q: q}
}

var _ repository.PaymentRepository = (*PaymentRepository)(nil)

func (r *PaymentRepository) Create(payment *entity.Payment) error {
	query := `
		INSERT INTO payments (
			id, sale_id, return_id, type, method, amount, date, created_at, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.q.Exec(context.Background(), query,
		payment.ID, payment.SaleID, nullIfEmpty(payment.ReturnID),
		payment.Type, payment.Method, payment.Amount, payment.Date,
		payment.CreatedAt, payment.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insertar pago: %w", err)
	}
	return nil
}

func (r *PaymentRepository) ListBySale(saleID string) ([]*entity.Payment, error) {
	query := `
		SELECT id, sale_id, COALESCE(return_id, ''), type, method, amount,
		       date, created_at, created_by
		FROM payments
		WHERE sale_id = $1
		ORDER BY created_at`

	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("listar pagos: %w", err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		err := rows.Scan(
			&p.ID, &p.SaleID, &p.ReturnID, &p.Type, &p.Method, &p.Amount,
			&p.Date, &p.CreatedAt, &p.CreatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("escanear pago: %w", err)
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar pagos: %w", err)
	}
	return payments, nil
}
