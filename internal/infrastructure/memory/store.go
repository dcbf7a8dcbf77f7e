package memory

import (
	"sync"

	"github.com/jhoicas/caja-pro/internal/domain/entity"
)

// Store es un almacén en memoria con los mismos puertos que el adaptador de
// PostgreSQL. Sirve como réplica local de un dispositivo en el modelo
// local-first y como doble de pruebas para los casos de uso.
//
// Las escrituras no son transaccionales: el TxRunner de este paquete ejecuta
// el callback directamente. Es seguro para los casos de uso porque los
// planificadores validan todo antes de mutar nada.
type Store struct {
	mu sync.RWMutex

	products     map[string]*entity.Product
	customers    map[string]*entity.Customer
	lots         map[string]*entity.InventoryLot
	lotSeq       int64
	consumptions map[string]*entity.ConsumptionRecord
	movements    []*entity.StockMovement
	taxEntries   []*entity.TaxLedgerEntry
	sales        map[string]*entity.Sale
	saleLines    map[string][]*entity.SaleLine
	returns      map[string]*entity.Return
	returnLines  []*entity.ReturnLine
	payments     []*entity.Payment
}

func NewStore() *Store {
	return &Store{
		products:     make(map[string]*entity.Product),
		customers:    make(map[string]*entity.Customer),
		lots:         make(map[string]*entity.InventoryLot),
		consumptions: make(map[string]*entity.ConsumptionRecord),
		sales:        make(map[string]*entity.Sale),
		saleLines:    make(map[string][]*entity.SaleLine),
		returns:      make(map[string]*entity.Return),
	}
}

// Products devuelve la vista de productos del almacén.
func (s *Store) Products() *ProductStore { return &ProductStore{s: s} }

// Customers devuelve la vista de clientes del almacén.
func (s *Store) Customers() *CustomerStore { return &CustomerStore{s: s} }

// Lots devuelve la vista de lotes del almacén.
func (s *Store) Lots() *LotStore { return &LotStore{s: s} }

// Consumptions devuelve la vista de registros de consumo del almacén.
func (s *Store) Consumptions() *ConsumptionStore { return &ConsumptionStore{s: s} }

// Movements devuelve la vista de la bitácora de movimientos.
func (s *Store) Movements() *MovementStore { return &MovementStore{s: s} }

// TaxLedger devuelve la vista del libro de ITBIS.
func (s *Store) TaxLedger() *TaxLedgerStore { return &TaxLedgerStore{s: s} }

// Sales devuelve la vista de ventas del almacén.
func (s *Store) Sales() *SaleStore { return &SaleStore{s: s} }

// Returns devuelve la vista de devoluciones del almacén.
func (s *Store) Returns() *ReturnStore { return &ReturnStore{s: s} }

// Payments devuelve la vista de pagos del almacén.
func (s *Store) Payments() *PaymentStore { return &PaymentStore{s: s} }

func cloneProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}

func cloneCustomer(c *entity.Customer) *entity.Customer {
	cc := *c
	return &cc
}

func cloneLot(l *entity.InventoryLot) *entity.InventoryLot {
	c := *l
	return &c
}

func cloneConsumption(r *entity.ConsumptionRecord) *entity.ConsumptionRecord {
	c := *r
	return &c
}

func cloneMovement(m *entity.StockMovement) *entity.StockMovement {
	c := *m
	return &c
}

func cloneTaxEntry(e *entity.TaxLedgerEntry) *entity.TaxLedgerEntry {
	c := *e
	return &c
}

func cloneSale(s *entity.Sale) *entity.Sale {
	c := *s
	return &c
}

func cloneSaleLine(l *entity.SaleLine) *entity.SaleLine {
	c := *l
	return &c
}

func cloneReturn(r *entity.Return) *entity.Return {
	c := *r
	return &c
}

func cloneReturnLine(l *entity.ReturnLine) *entity.ReturnLine {
	c := *l
	return &c
}

func clonePayment(p *entity.Payment) *entity.Payment {
	c := *p
	return &c
}
