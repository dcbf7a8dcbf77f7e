package repository

import (
	"time"

	"github.com/jhoicas/caja-pro/internal/domain/entity"
)

// TaxLedgerRepository define el puerto de persistencia del libro de ITBIS.
// Append-only, igual que la bitácora de movimientos.
type TaxLedgerRepository interface {
	Create(entry *entity.TaxLedgerEntry) error
	ListBySale(saleID string) ([]*entity.TaxLedgerEntry, error)
	ListByPeriod(from, to time.Time) ([]*entity.TaxLedgerEntry, error)
}
