package memory

import (
	"context"

	"github.com/jhoicas/caja-pro/internal/application/inventory"
	"github.com/jhoicas/caja-pro/internal/application/pos"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
)

// TxRunner ejecuta el callback directamente sobre el almacén en memoria, sin
// transacción real: no hay rollback. Los casos de uso toleran esto porque
// planifican y validan antes de mutar; un error del callback deja el almacén
// sin cambios.
type TxRunner struct {
	store *Store
}

func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

var _ inventory.TxRunner = (*TxRunner)(nil)
var _ pos.POSTxRunner = (*TxRunner)(nil)

func (r *TxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	consRepo repository.ConsumptionRecordRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(
		r.store.Lots(),
		r.store.Consumptions(),
		r.store.Movements(),
		r.store.Products(),
	)
}

func (r *TxRunner) RunPOS(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	consRepo repository.ConsumptionRecordRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	returnRepo repository.ReturnRepository,
) error) error {
	return fn(
		r.store.Lots(),
		r.store.Consumptions(),
		r.store.Movements(),
		r.store.Products(),
		r.store.Sales(),
		r.store.Returns(),
	)
}
