package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/caja-pro/internal/application/inventory"
	"github.com/jhoicas/caja-pro/internal/application/pos"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
)

// TxRunner ejecuta la fase crítica dentro de una transacción de PostgreSQL.
// Los repositorios que recibe el callback están ligados a la tx: todo lo que
// escriben se confirma o se revierte en bloque.
type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ pos.POSTxRunner = (*TxRunner)(nil)

// Run abre una transacción y la pasa al callback como repositorios de
// inventario. Commit solo si fn devuelve nil.
func (r *TxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	consRepo repository.ConsumptionRecordRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("iniciar transacción: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(
		NewLotRepository(tx),
		NewConsumptionRecordRepository(tx),
		NewStockMovementRepository(tx),
		NewProductRepository(tx),
	); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// RunPOS es la variante para el orquestador de ventas: además de los
// repositorios de inventario pasa los de venta y devolución.
func (r *TxRunner) RunPOS(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	consRepo repository.ConsumptionRecordRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	returnRepo repository.ReturnRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("iniciar transacción: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(
		NewLotRepository(tx),
		NewConsumptionRecordRepository(tx),
		NewStockMovementRepository(tx),
		NewProductRepository(tx),
		NewSaleRepository(tx),
		NewReturnRepository(tx),
	); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
