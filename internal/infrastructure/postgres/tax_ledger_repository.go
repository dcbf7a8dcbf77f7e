package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
)

// TaxLedgerRepository implementa repository.TaxLedgerRepository sobre
// PostgreSQL. Append-only, igual que la bitácora de movimientos.
type TaxLedgerRepository struct {
	q Querier
}

func NewTaxLedgerRepository(q Querier) *TaxLedgerRepository {
	return &TaxLedgerRepository{q: q}
}

var _ repository.TaxLedgerRepository = (*TaxLedgerRepository)(nil)

func (r *TaxLedgerRepository) Create(entry *entity.TaxLedgerEntry) error {
	query := `
		INSERT INTO tax_ledger_entries (
			id, date, rate_bucket, base_amount, tax_amount, direction,
			source_sale_id, source_return_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.Date, entry.RateBucket,
		entry.BaseAmount, entry.TaxAmount, entry.Direction,
		entry.SourceSaleID, nullIfEmpty(entry.SourceReturnID), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insertar asiento de ITBIS: %w", err)
	}
	return nil
}

func (r *TaxLedgerRepository) ListBySale(saleID string) ([]*entity.TaxLedgerEntry, error) {
	query := `
		SELECT id, date, rate_bucket, base_amount, tax_amount, direction,
		       source_sale_id, COALESCE(source_return_id, ''), created_at
		FROM tax_ledger_entries
		WHERE source_sale_id = $1
		ORDER BY created_at`

	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("listar asientos de venta: %w", err)
	}
	defer rows.Close()

	return collectTaxEntries(rows)
}

func (r *TaxLedgerRepository) ListByPeriod(from, to time.Time) ([]*entity.TaxLedgerEntry, error) {
	query := `
		SELECT id, date, rate_bucket, base_amount, tax_amount, direction,
		       source_sale_id, COALESCE(source_return_id, ''), created_at
		FROM tax_ledger_entries
		WHERE date >= $1 AND date < $2
		ORDER BY date, created_at`

	rows, err := r.q.Query(context.Background(), query, from, to)
	if err != nil {
		return nil, fmt.Errorf("listar asientos del período: %w", err)
	}
	defer rows.Close()

	return collectTaxEntries(rows)
}

func collectTaxEntries(rows pgx.Rows) ([]*entity.TaxLedgerEntry, error) {
	var entries []*entity.TaxLedgerEntry
	for rows.Next() {
		var e entity.TaxLedgerEntry
		err := rows.Scan(
			&e.ID, &e.Date, &e.RateBucket, &e.BaseAmount, &e.TaxAmount,
			&e.Direction, &e.SourceSaleID, &e.SourceReturnID, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("escanear asiento: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar asientos: %w", err)
	}
	return entries, nil
}
