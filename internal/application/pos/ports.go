package pos

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pro/internal/application/inventory"
	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
)

// POSTxRunner ejecuta una función dentro de una transacción que incluye los
// repositorios del ciclo venta/retorno. Es la frontera atómica de la fase
// crítica: lotes, registros de consumo, movimientos, caché de stock y el
// registro de la venta o devolución.
type POSTxRunner interface {
	RunPOS(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		consRepo repository.ConsumptionRecordRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		returnRepo repository.ReturnRepository,
	) error) error
}

// ConsumptionEngine interfaz del motor FIFO para el orquestador. Los métodos
// *InTx usan los repositorios del caller (misma transacción); si retornan
// error (ej: ErrInsufficientStock) el caller debe hacer rollback.
type ConsumptionEngine interface {
	GetAvailableQuantity(productID string) (decimal.Decimal, error)
	ConsumeFIFOInTx(
		lotRepo repository.LotRepository,
		consRepo repository.ConsumptionRecordRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		product *entity.Product,
		saleID, userID string,
		quantity decimal.Decimal,
		now time.Time,
	) (*inventory.ConsumeResult, error)
	RestoreForReturnInTx(
		lotRepo repository.LotRepository,
		consRepo repository.ConsumptionRecordRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		product *entity.Product,
		saleID, returnID, userID string,
		requested decimal.Decimal,
		now time.Time,
	) (*inventory.RestoreResult, error)
}

// TaxRecorder interfaz del libro de ITBIS para el orquestador.
type TaxRecorder interface {
	RecordSaleITBIS(sale *entity.Sale, lines []*entity.SaleLine) error
	ReverseSaleITBIS(ret *entity.Return, lines []*entity.ReturnLine) error
}
