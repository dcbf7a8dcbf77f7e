package repository

import "github.com/jhoicas/caja-pro/internal/domain/entity"

// PaymentRepository define el puerto de persistencia para pagos y reembolsos.
type PaymentRepository interface {
	Create(payment *entity.Payment) error
	ListBySale(saleID string) ([]*entity.Payment, error)
}
