package pos

import "github.com/jhoicas/caja-pro/internal/application/dto"

// Sub-pasos de una confirmación de venta o devolución.
const (
	StepStock           = "STOCK"            // lotes + movimientos + caché (fase crítica, transaccional)
	StepSaleRecord      = "SALE"             // persistencia de la venta/devolución (misma transacción)
	StepPayment         = "PAYMENT"          // registro de pago o reembolso
	StepCustomerBalance = "CUSTOMER_BALANCE" // balance de crédito del cliente
	StepTaxLedger       = "TAX_LEDGER"       // asientos del libro de ITBIS
)

// PartialCommit acumula el resultado de los sub-pasos de una operación POS.
//
// La fase crítica (stock + registro de venta) es atómica en una transacción;
// los pasos posteriores (pago, balance, ITBIS) se ejecutan después del commit
// y una falla en ellos NO revierte el stock ya comprometido: una venta es
// "real" en cuanto el pago se captura, así que la verdad del inventario se
// prefiere sobre la atomicidad total. La decisión queda visible en este tipo
// en vez de enterrada en manejo genérico de errores.
type PartialCommit struct {
	steps []dto.CommitStepResult
}

func (p *PartialCommit) ok(step string) {
	p.steps = append(p.steps, dto.CommitStepResult{Step: step, OK: true})
}

func (p *PartialCommit) fail(step string, err error) {
	p.steps = append(p.steps, dto.CommitStepResult{Step: step, OK: false, Error: err.Error()})
}

// Results devuelve los sub-pasos en orden de ejecución.
func (p *PartialCommit) Results() []dto.CommitStepResult {
	return p.steps
}

// Clean indica que todos los sub-pasos terminaron bien.
func (p *PartialCommit) Clean() bool {
	for _, s := range p.steps {
		if !s.OK {
			return false
		}
	}
	return true
}
