package pos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pro/internal/application/dto"
	"github.com/jhoicas/caja-pro/internal/domain"
	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
	"github.com/jhoicas/caja-pro/pkg/logger"
)

// Orchestrator coordina el ciclo venta/retorno: motor FIFO, bitácora de
// movimientos, libro de ITBIS, pagos y balance de clientes.
//
// La ejecución es cooperativa por dispositivo: una venta o retorno corre hasta
// completarse antes de la siguiente operación local; no hay cancelación a
// mitad de camino. El riesgo real es entre dispositivos (réplicas locales que
// sincronizan por timer): dos cajas pueden vender el mismo stock durante la
// ventana de sincronización y este diseño no lo previene estructuralmente,
// solo lo acota con intervalos de sync cortos.
type Orchestrator struct {
	txRunner     POSTxRunner
	engine       ConsumptionEngine
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	returnRepo   repository.ReturnRepository
	paymentRepo  repository.PaymentRepository
	taxUC        TaxRecorder
	log          *logger.Logger
}

// NewOrchestrator construye el orquestador.
func NewOrchestrator(
	txRunner POSTxRunner,
	engine ConsumptionEngine,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	saleRepo repository.SaleRepository,
	returnRepo repository.ReturnRepository,
	paymentRepo repository.PaymentRepository,
	taxUC TaxRecorder,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		txRunner:     txRunner,
		engine:       engine,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
		returnRepo:   returnRepo,
		paymentRepo:  paymentRepo,
		taxUC:        taxUC,
		log:          log,
	}
}

// taxRateDecimal normaliza tasas expresadas como porcentaje (18) a fracción (0.18).
func taxRateDecimal(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(decimal.NewFromInt(100))
	}
	return rate
}

// ConfirmSale confirma la venta del carrito:
//
//  1. Pre-chequeo: toda línea debe caber en la cantidad disponible del
//     producto (sumando líneas repetidas); si alguna falla se aborta con
//     ErrInsufficientStock sin mutar nada.
//  2. Fase crítica (una transacción): consumo FIFO por línea, movimientos
//     OUT, caché CurrentStock y persistencia de la venta con sus líneas.
//  3. Fase no crítica (post-commit): pago o balance de cliente y libro de
//     ITBIS. Las fallas se registran en el PartialCommit y en el log; no
//     revierten el stock.
func (o *Orchestrator) ConfirmSale(ctx context.Context, userID, deviceID string, in dto.ConfirmSaleRequest) (*dto.ConfirmSaleResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	switch in.PaymentMethod {
	case entity.PaymentMethodCash, entity.PaymentMethodCard, entity.PaymentMethodOnAccount:
	default:
		return nil, domain.ErrInvalidInput
	}

	var customer *entity.Customer
	if in.PaymentMethod == entity.PaymentMethodOnAccount {
		if in.CustomerID == "" {
			return nil, domain.ErrInvalidInput
		}
		var err error
		customer, err = o.customerRepo.GetByID(in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
	}

	// Validar productos y precios (solo lectura, fuera de la tx).
	productsByID := make(map[string]*entity.Product)
	neededByProduct := make(map[string]decimal.Decimal)
	for i := range in.Lines {
		line := &in.Lines[i]
		if line.ProductID == "" || !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if line.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if _, ok := productsByID[line.ProductID]; !ok {
			product, err := o.productRepo.GetByID(line.ProductID)
			if err != nil {
				return nil, err
			}
			if product == nil {
				return nil, domain.ErrNotFound
			}
			productsByID[line.ProductID] = product
			neededByProduct[line.ProductID] = decimal.Zero
		}
		if line.UnitPrice.IsZero() {
			line.UnitPrice = productsByID[line.ProductID].Price
		}
		neededByProduct[line.ProductID] = neededByProduct[line.ProductID].Add(line.Quantity)
	}

	// Pre-chequeo de disponibilidad: aborta antes de cualquier mutación.
	for productID, needed := range neededByProduct {
		available, err := o.engine.GetAvailableQuantity(productID)
		if err != nil {
			return nil, err
		}
		if available.LessThan(needed) {
			return nil, domain.ErrInsufficientStock
		}
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:             uuid.New().String(),
		CustomerID:     in.CustomerID,
		Number:         fmt.Sprintf("POS-%d", now.Unix()),
		Date:           now,
		NetTotal:       decimal.Zero,
		TaxTotal:       decimal.Zero,
		GrandTotal:     decimal.Zero,
		TotalCOGS:      decimal.Zero,
		PaymentMethod:  in.PaymentMethod,
		Status:         entity.SaleStatusClosed,
		ReturnedAmount: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
		CreatedBy:      userID,
		DeviceID:       deviceID,
	}
	var saleLines []*entity.SaleLine
	lineResponses := make([]dto.SaleLineResponse, 0, len(in.Lines))

	pc := &PartialCommit{}
	err := o.txRunner.RunPOS(ctx, func(
		lotRepo repository.LotRepository,
		consRepo repository.ConsumptionRecordRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		_ repository.ReturnRepository,
	) error {
		for _, line := range in.Lines {
			product := productsByID[line.ProductID]
			res, err := o.engine.ConsumeFIFOInTx(
				lotRepo, consRepo, movRepo, productRepo,
				product, sale.ID, userID, line.Quantity, now,
			)
			if err != nil {
				return err
			}

			rate := taxRateDecimal(product.TaxRate)
			subtotal := line.Quantity.Mul(line.UnitPrice)
			taxAmount := subtotal.Mul(rate)
			saleLine := &entity.SaleLine{
				ID:          uuid.New().String(),
				SaleID:      sale.ID,
				ProductID:   line.ProductID,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				TaxRate:     rate,
				Subtotal:    subtotal,
				TaxAmount:   taxAmount,
				AvgUnitCost: res.AvgUnitCost,
				TotalCost:   res.TotalCost,
			}
			saleLines = append(saleLines, saleLine)

			sale.NetTotal = sale.NetTotal.Add(subtotal)
			sale.TaxTotal = sale.TaxTotal.Add(taxAmount)
			sale.TotalCOGS = sale.TotalCOGS.Add(res.TotalCost)

			lineResponses = append(lineResponses, dto.SaleLineResponse{
				ID:          saleLine.ID,
				ProductID:   saleLine.ProductID,
				Quantity:    saleLine.Quantity,
				UnitPrice:   saleLine.UnitPrice,
				TaxRate:     saleLine.TaxRate,
				Subtotal:    saleLine.Subtotal,
				TaxAmount:   saleLine.TaxAmount,
				AvgUnitCost: saleLine.AvgUnitCost,
				TotalCost:   saleLine.TotalCost,
				Degraded:    res.Degraded,
			})
		}
		sale.GrandTotal = sale.NetTotal.Add(sale.TaxTotal)

		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, saleLine := range saleLines {
			if err := saleRepo.CreateLine(saleLine); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	pc.ok(StepStock)
	pc.ok(StepSaleRecord)

	// Fase no crítica: a partir de aquí el stock ya está comprometido.
	if in.PaymentMethod == entity.PaymentMethodOnAccount {
		newBalance := customer.CreditBalance.Add(sale.GrandTotal)
		if err := o.customerRepo.UpdateBalance(customer.ID, newBalance); err != nil {
			pc.fail(StepCustomerBalance, err)
			o.log.Error().Err(err).Str("sale_id", sale.ID).Str("step", StepCustomerBalance).
				Msg("fase no crítica de venta falló; el stock NO se revierte")
		} else {
			pc.ok(StepCustomerBalance)
		}
	} else {
		payment := &entity.Payment{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			Type:      entity.PaymentTypePayment,
			Method:    in.PaymentMethod,
			Amount:    sale.GrandTotal,
			Date:      now,
			CreatedAt: now,
			CreatedBy: userID,
		}
		if err := o.paymentRepo.Create(payment); err != nil {
			pc.fail(StepPayment, err)
			o.log.Error().Err(err).Str("sale_id", sale.ID).Str("step", StepPayment).
				Msg("fase no crítica de venta falló; el stock NO se revierte")
		} else {
			pc.ok(StepPayment)
		}
	}

	if err := o.taxUC.RecordSaleITBIS(sale, saleLines); err != nil {
		pc.fail(StepTaxLedger, err)
		o.log.Error().Err(err).Str("sale_id", sale.ID).Str("step", StepTaxLedger).
			Msg("fase no crítica de venta falló; el stock NO se revierte")
	} else {
		pc.ok(StepTaxLedger)
	}

	return &dto.ConfirmSaleResponse{
		SaleID:     sale.ID,
		Number:     sale.Number,
		NetTotal:   sale.NetTotal,
		TaxTotal:   sale.TaxTotal,
		GrandTotal: sale.GrandTotal,
		TotalCOGS:  sale.TotalCOGS,
		Lines:      lineResponses,
		Commit:     pc.Results(),
	}, nil
}
