package pos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pro/internal/application/dto"
	"github.com/jhoicas/caja-pro/internal/domain"
	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
)

// ProcessReturn procesa una devolución contra una venta confirmada:
//
//  1. Por cada línea seleccionada calcula el máximo retornable
//     (cantidad vendida - ya devuelta en retornos previos) y acota la
//     petición a ese tope. Si ninguna línea tiene nada retornable, rechaza
//     con ErrNothingToRestore (doble retorno completo).
//  2. Fase crítica (una transacción): reversión a los lotes de origen por
//     línea, movimientos RETURN, caché CurrentStock, registro de la
//     devolución y actualización del estado de la venta.
//  3. Fase no crítica: reversa del ITBIS, reembolso y balance del cliente,
//     con el mismo contrato PartialCommit de la venta.
//
// Si alguna línea restaura menos de lo solicitado (historial de consumo ya
// agotado), la respuesta marca PartialRestore: el caller debe mostrarlo, no
// tratarlo como éxito pleno.
func (o *Orchestrator) ProcessReturn(ctx context.Context, userID, deviceID string, in dto.ProcessReturnRequest) (*dto.ProcessReturnResponse, error) {
	if in.SaleID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	sale, err := o.saleRepo.GetByID(in.SaleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	saleLines, err := o.saleRepo.GetLines(in.SaleID)
	if err != nil {
		return nil, err
	}
	linesByID := make(map[string]*entity.SaleLine, len(saleLines))
	for _, sl := range saleLines {
		linesByID[sl.ID] = sl
	}

	// Acotar cada línea a su máximo retornable.
	type cappedLine struct {
		saleLine *entity.SaleLine
		quantity decimal.Decimal
		capped   bool
	}
	capped := make([]cappedLine, 0, len(in.Lines))
	anyReturnable := false
	for _, req := range in.Lines {
		sl, ok := linesByID[req.SaleLineID]
		if !ok || !req.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		alreadyReturned, err := o.returnRepo.SumReturnedBySaleLine(sl.ID)
		if err != nil {
			return nil, err
		}
		maxReturnable := sl.Quantity.Sub(alreadyReturned)
		if maxReturnable.LessThan(decimal.Zero) {
			maxReturnable = decimal.Zero
		}
		quantity := decimal.Min(req.Quantity, maxReturnable)
		if quantity.GreaterThan(decimal.Zero) {
			anyReturnable = true
		}
		capped = append(capped, cappedLine{
			saleLine: sl,
			quantity: quantity,
			capped:   quantity.LessThan(req.Quantity),
		})
	}
	if !anyReturnable {
		return nil, domain.ErrNothingToRestore
	}

	now := time.Now()
	ret := &entity.Return{
		ID:          uuid.New().String(),
		SaleID:      sale.ID,
		Date:        now,
		RefundTotal: decimal.Zero,
		TaxTotal:    decimal.Zero,
		TotalCost:   decimal.Zero,
		CreatedAt:   now,
		CreatedBy:   userID,
		DeviceID:    deviceID,
	}
	var returnLines []*entity.ReturnLine
	lineResponses := make([]dto.ReturnLineResponse, 0, len(capped))
	partialRestore := false

	err = o.txRunner.RunPOS(ctx, func(
		lotRepo repository.LotRepository,
		consRepo repository.ConsumptionRecordRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		returnRepo repository.ReturnRepository,
	) error {
		for _, cl := range capped {
			if cl.capped {
				partialRestore = true
			}
			if !cl.quantity.GreaterThan(decimal.Zero) {
				continue
			}
			product, err := productRepo.GetByID(cl.saleLine.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}

			res, err := o.engine.RestoreForReturnInTx(
				lotRepo, consRepo, movRepo, productRepo,
				product, sale.ID, ret.ID, userID, cl.quantity, now,
			)
			if err != nil {
				return err
			}
			if res.RestoredQuantity.LessThan(cl.quantity) {
				partialRestore = true
			}

			refund := cl.quantity.Mul(cl.saleLine.UnitPrice)
			taxAmount := refund.Mul(cl.saleLine.TaxRate)
			returnLine := &entity.ReturnLine{
				ID:               uuid.New().String(),
				ReturnID:         ret.ID,
				SaleLineID:       cl.saleLine.ID,
				ProductID:        cl.saleLine.ProductID,
				Quantity:         cl.quantity,
				UnitPrice:        cl.saleLine.UnitPrice,
				TaxRate:          cl.saleLine.TaxRate,
				RefundAmount:     refund,
				TaxAmount:        taxAmount,
				RestoredQuantity: res.RestoredQuantity,
				AvgUnitCost:      res.AvgUnitCost,
			}
			returnLines = append(returnLines, returnLine)

			ret.RefundTotal = ret.RefundTotal.Add(refund).Add(taxAmount)
			ret.TaxTotal = ret.TaxTotal.Add(taxAmount)
			ret.TotalCost = ret.TotalCost.Add(res.TotalCost)

			lineResponses = append(lineResponses, dto.ReturnLineResponse{
				SaleLineID:       cl.saleLine.ID,
				ProductID:        cl.saleLine.ProductID,
				Quantity:         cl.quantity,
				RestoredQuantity: res.RestoredQuantity,
				RefundAmount:     refund,
				TaxAmount:        taxAmount,
				AvgUnitCost:      res.AvgUnitCost,
				Degraded:         res.Degraded,
			})
		}

		if err := returnRepo.Create(ret); err != nil {
			return err
		}
		for _, rl := range returnLines {
			if err := returnRepo.CreateLine(rl); err != nil {
				return err
			}
		}

		// Estado de la venta: totalmente devuelta cuando cada línea alcanzó
		// su cantidad vendida.
		fully := true
		for _, sl := range saleLines {
			returned, err := returnRepo.SumReturnedBySaleLine(sl.ID)
			if err != nil {
				return err
			}
			if returned.LessThan(sl.Quantity) {
				fully = false
				break
			}
		}
		sale.HasReturns = true
		sale.ReturnedAmount = sale.ReturnedAmount.Add(ret.RefundTotal)
		if fully {
			sale.Status = entity.SaleStatusFullyReturned
		} else {
			sale.Status = entity.SaleStatusPartiallyReturned
		}
		sale.UpdatedAt = now
		return saleRepo.Update(sale)
	})
	if err != nil {
		return nil, err
	}

	pc := &PartialCommit{}
	pc.ok(StepStock)
	pc.ok(StepSaleRecord)

	// Fase no crítica: la reversión de stock ya está comprometida.
	if err := o.taxUC.ReverseSaleITBIS(ret, returnLines); err != nil {
		pc.fail(StepTaxLedger, err)
		o.log.Error().Err(err).Str("return_id", ret.ID).Str("step", StepTaxLedger).
			Msg("fase no crítica de devolución falló; la reversión de stock NO se deshace")
	} else {
		pc.ok(StepTaxLedger)
	}

	refund := &entity.Payment{
		ID:        uuid.New().String(),
		SaleID:    sale.ID,
		ReturnID:  ret.ID,
		Type:      entity.PaymentTypeRefund,
		Method:    sale.PaymentMethod,
		Amount:    ret.RefundTotal,
		Date:      now,
		CreatedAt: now,
		CreatedBy: userID,
	}
	if err := o.paymentRepo.Create(refund); err != nil {
		pc.fail(StepPayment, err)
		o.log.Error().Err(err).Str("return_id", ret.ID).Str("step", StepPayment).
			Msg("fase no crítica de devolución falló; la reversión de stock NO se deshace")
	} else {
		pc.ok(StepPayment)
	}

	if sale.PaymentMethod == entity.PaymentMethodOnAccount && sale.CustomerID != "" {
		customer, err := o.customerRepo.GetByID(sale.CustomerID)
		if err == nil && customer != nil {
			err = o.customerRepo.UpdateBalance(customer.ID, customer.CreditBalance.Sub(ret.RefundTotal))
		}
		if err != nil {
			pc.fail(StepCustomerBalance, err)
			o.log.Error().Err(err).Str("return_id", ret.ID).Str("step", StepCustomerBalance).
				Msg("fase no crítica de devolución falló; la reversión de stock NO se deshace")
		} else {
			pc.ok(StepCustomerBalance)
		}
	}

	return &dto.ProcessReturnResponse{
		ReturnID:       ret.ID,
		SaleID:         sale.ID,
		RefundTotal:    ret.RefundTotal,
		TaxTotal:       ret.TaxTotal,
		TotalCost:      ret.TotalCost,
		PartialRestore: partialRestore,
		Lines:          lineResponses,
		Commit:         pc.Results(),
	}, nil
}
