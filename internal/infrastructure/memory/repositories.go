package memory

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/caja-pro/internal/domain"
	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/domain/repository"
)

// ProductStore implementa repository.ProductRepository en memoria.
type ProductStore struct {
	s *Store
}

var _ repository.ProductRepository = (*ProductStore)(nil)

func (ps *ProductStore) Create(product *entity.Product) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	if _, ok := ps.s.products[product.ID]; ok {
		return fmt.Errorf("id %s: %w", product.ID, domain.ErrDuplicate)
	}
	for _, p := range ps.s.products {
		if p.SKU == product.SKU {
			return fmt.Errorf("sku %s: %w", product.SKU, domain.ErrDuplicate)
		}
	}
	ps.s.products[product.ID] = cloneProduct(product)
	return nil
}

func (ps *ProductStore) GetByID(id string) (*entity.Product, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	p, ok := ps.s.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

func (ps *ProductStore) List(limit, offset int) ([]*entity.Product, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	all := make([]*entity.Product, 0, len(ps.s.products))
	for _, p := range ps.s.products {
		all = append(all, cloneProduct(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginateProducts(all, limit, offset), nil
}

func (ps *ProductStore) Update(product *entity.Product) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	if _, ok := ps.s.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := cloneProduct(product)
	clone.UpdatedAt = time.Now()
	ps.s.products[product.ID] = clone
	return nil
}

func (ps *ProductStore) UpdateCost(productID string, cost decimal.Decimal) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	p, ok := ps.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = cost
	p.UpdatedAt = time.Now()
	return nil
}

func (ps *ProductStore) UpdateStock(productID string, stock decimal.Decimal) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	p, ok := ps.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.CurrentStock = stock
	p.UpdatedAt = time.Now()
	return nil
}

func (ps *ProductStore) ListBelowReorderPoint() ([]*entity.Product, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	var low []*entity.Product
	for _, p := range ps.s.products {
		if p.ReorderPoint.GreaterThan(decimal.Zero) && p.CurrentStock.LessThanOrEqual(p.ReorderPoint) {
			low = append(low, cloneProduct(p))
		}
	}
	sort.Slice(low, func(i, j int) bool {
		return low[i].CurrentStock.Sub(low[i].ReorderPoint).
			LessThan(low[j].CurrentStock.Sub(low[j].ReorderPoint))
	})
	return low, nil
}

func paginateProducts(all []*entity.Product, limit, offset int) []*entity.Product {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// CustomerStore implementa repository.CustomerRepository en memoria.
type CustomerStore struct {
	s *Store
}

var _ repository.CustomerRepository = (*CustomerStore)(nil)

func (cs *CustomerStore) Create(customer *entity.Customer) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	if _, ok := cs.s.customers[customer.ID]; ok {
		return fmt.Errorf("id %s: %w", customer.ID, domain.ErrDuplicate)
	}
	cs.s.customers[customer.ID] = cloneCustomer(customer)
	return nil
}

func (cs *CustomerStore) GetByID(id string) (*entity.Customer, error) {
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()

	c, ok := cs.s.customers[id]
	if !ok {
		return nil, nil
	}
	return cloneCustomer(c), nil
}

func (cs *CustomerStore) List(limit, offset int) ([]*entity.Customer, error) {
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()

	all := make([]*entity.Customer, 0, len(cs.s.customers))
	for _, c := range cs.s.customers {
		all = append(all, cloneCustomer(c))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (cs *CustomerStore) UpdateBalance(customerID string, balance decimal.Decimal) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	c, ok := cs.s.customers[customerID]
	if !ok {
		return domain.ErrNotFound
	}
	c.CreditBalance = balance
	c.UpdatedAt = time.Now()
	return nil
}

// LotStore implementa repository.LotRepository en memoria. La secuencia se
// asigna con un contador monótono, igual que el BIGSERIAL de PostgreSQL.
type LotStore struct {
	s *Store
}

var _ repository.LotRepository = (*LotStore)(nil)

func (ls *LotStore) Create(lot *entity.InventoryLot) error {
	ls.s.mu.Lock()
	defer ls.s.mu.Unlock()

	if _, ok := ls.s.lots[lot.ID]; ok {
		return fmt.Errorf("id %s: %w", lot.ID, domain.ErrDuplicate)
	}
	ls.s.lotSeq++
	lot.Sequence = ls.s.lotSeq
	ls.s.lots[lot.ID] = cloneLot(lot)
	return nil
}

func (ls *LotStore) GetByID(id string) (*entity.InventoryLot, error) {
	ls.s.mu.RLock()
	defer ls.s.mu.RUnlock()

	l, ok := ls.s.lots[id]
	if !ok {
		return nil, nil
	}
	return cloneLot(l), nil
}

func (ls *LotStore) ListActiveByProduct(productID string) ([]*entity.InventoryLot, error) {
	ls.s.mu.RLock()
	defer ls.s.mu.RUnlock()

	var lots []*entity.InventoryLot
	for _, l := range ls.s.lots {
		if l.ProductID == productID && l.HasRemaining() {
			lots = append(lots, cloneLot(l))
		}
	}
	sortLotsFIFO(lots)
	return lots, nil
}

func (ls *LotStore) ListByProduct(productID string) ([]*entity.InventoryLot, error) {
	ls.s.mu.RLock()
	defer ls.s.mu.RUnlock()

	var lots []*entity.InventoryLot
	for _, l := range ls.s.lots {
		if l.ProductID == productID {
			lots = append(lots, cloneLot(l))
		}
	}
	sortLotsFIFO(lots)
	return lots, nil
}

func (ls *LotStore) HasLots(productID string) (bool, error) {
	ls.s.mu.RLock()
	defer ls.s.mu.RUnlock()

	for _, l := range ls.s.lots {
		if l.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (ls *LotStore) Update(lot *entity.InventoryLot) error {
	ls.s.mu.Lock()
	defer ls.s.mu.Unlock()

	existing, ok := ls.s.lots[lot.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.RemainingQuantity = lot.RemainingQuantity
	existing.Status = lot.Status
	existing.UpdatedAt = time.Now()
	return nil
}

func sortLotsFIFO(lots []*entity.InventoryLot) {
	sort.Slice(lots, func(i, j int) bool {
		if !lots[i].ReceivedAt.Equal(lots[j].ReceivedAt) {
			return lots[i].ReceivedAt.Before(lots[j].ReceivedAt)
		}
		return lots[i].Sequence < lots[j].Sequence
	})
}

// ConsumptionStore implementa repository.ConsumptionRecordRepository en memoria.
type ConsumptionStore struct {
	s *Store
}

var _ repository.ConsumptionRecordRepository = (*ConsumptionStore)(nil)

func (cs *ConsumptionStore) Create(record *entity.ConsumptionRecord) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	if _, ok := cs.s.consumptions[record.ID]; ok {
		return fmt.Errorf("id %s: %w", record.ID, domain.ErrDuplicate)
	}
	cs.s.consumptions[record.ID] = cloneConsumption(record)
	return nil
}

func (cs *ConsumptionStore) ListBySaleAndProduct(saleID, productID string) ([]*entity.ConsumptionRecord, error) {
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()

	var records []*entity.ConsumptionRecord
	for _, r := range cs.s.consumptions {
		if r.SaleID == saleID && r.ProductID == productID {
			records = append(records, cloneConsumption(r))
		}
	}
	// Orden de reversión: lo último consumido primero.
	sort.Slice(records, func(i, j int) bool {
		if !records[i].ConsumedAt.Equal(records[j].ConsumedAt) {
			return records[i].ConsumedAt.After(records[j].ConsumedAt)
		}
		return records[i].Seq > records[j].Seq
	})
	return records, nil
}

func (cs *ConsumptionStore) Update(record *entity.ConsumptionRecord) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	existing, ok := cs.s.consumptions[record.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.RestoredQuantity = record.RestoredQuantity
	return nil
}

// MovementStore implementa repository.StockMovementRepository en memoria.
type MovementStore struct {
	s *Store
}

var _ repository.StockMovementRepository = (*MovementStore)(nil)

func (ms *MovementStore) Create(movement *entity.StockMovement) error {
	ms.s.mu.Lock()
	defer ms.s.mu.Unlock()

	ms.s.movements = append(ms.s.movements, cloneMovement(movement))
	return nil
}

func (ms *MovementStore) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	ms.s.mu.RLock()
	defer ms.s.mu.RUnlock()

	var out []*entity.StockMovement
	for _, m := range ms.s.movements {
		if m.ProductID != productID {
			continue
		}
		if from != nil && m.Date.Before(*from) {
			continue
		}
		if to != nil && m.Date.After(*to) {
			continue
		}
		out = append(out, cloneMovement(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (ms *MovementStore) ListBySale(saleID string) ([]*entity.StockMovement, error) {
	ms.s.mu.RLock()
	defer ms.s.mu.RUnlock()

	var out []*entity.StockMovement
	for _, m := range ms.s.movements {
		if m.RelatedSaleID == saleID {
			out = append(out, cloneMovement(m))
		}
	}
	return out, nil
}

// TaxLedgerStore implementa repository.TaxLedgerRepository en memoria.
type TaxLedgerStore struct {
	s *Store
}

var _ repository.TaxLedgerRepository = (*TaxLedgerStore)(nil)

func (ts *TaxLedgerStore) Create(entry *entity.TaxLedgerEntry) error {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	ts.s.taxEntries = append(ts.s.taxEntries, cloneTaxEntry(entry))
	return nil
}

func (ts *TaxLedgerStore) ListBySale(saleID string) ([]*entity.TaxLedgerEntry, error) {
	ts.s.mu.RLock()
	defer ts.s.mu.RUnlock()

	var out []*entity.TaxLedgerEntry
	for _, e := range ts.s.taxEntries {
		if e.SourceSaleID == saleID {
			out = append(out, cloneTaxEntry(e))
		}
	}
	return out, nil
}

func (ts *TaxLedgerStore) ListByPeriod(from, to time.Time) ([]*entity.TaxLedgerEntry, error) {
	ts.s.mu.RLock()
	defer ts.s.mu.RUnlock()

	var out []*entity.TaxLedgerEntry
	for _, e := range ts.s.taxEntries {
		if !e.Date.Before(from) && e.Date.Before(to) {
			out = append(out, cloneTaxEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// SaleStore implementa repository.SaleRepository en memoria.
type SaleStore struct {
	s *Store
}

var _ repository.SaleRepository = (*SaleStore)(nil)

func (ss *SaleStore) Create(sale *entity.Sale) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	if _, ok := ss.s.sales[sale.ID]; ok {
		return fmt.Errorf("id %s: %w", sale.ID, domain.ErrDuplicate)
	}
	ss.s.sales[sale.ID] = cloneSale(sale)
	return nil
}

func (ss *SaleStore) CreateLine(line *entity.SaleLine) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	ss.s.saleLines[line.SaleID] = append(ss.s.saleLines[line.SaleID], cloneSaleLine(line))
	return nil
}

func (ss *SaleStore) GetByID(id string) (*entity.Sale, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()

	s, ok := ss.s.sales[id]
	if !ok {
		return nil, nil
	}
	return cloneSale(s), nil
}

func (ss *SaleStore) GetLines(saleID string) ([]*entity.SaleLine, error) {
	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()

	lines := make([]*entity.SaleLine, 0, len(ss.s.saleLines[saleID]))
	for _, l := range ss.s.saleLines[saleID] {
		lines = append(lines, cloneSaleLine(l))
	}
	return lines, nil
}

func (ss *SaleStore) Update(sale *entity.Sale) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()

	existing, ok := ss.s.sales[sale.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Status = sale.Status
	existing.HasReturns = sale.HasReturns
	existing.ReturnedAmount = sale.ReturnedAmount
	existing.UpdatedAt = time.Now()
	return nil
}

// ReturnStore implementa repository.ReturnRepository en memoria.
type ReturnStore struct {
	s *Store
}

var _ repository.ReturnRepository = (*ReturnStore)(nil)

func (rs *ReturnStore) Create(ret *entity.Return) error {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	if _, ok := rs.s.returns[ret.ID]; ok {
		return fmt.Errorf("id %s: %w", ret.ID, domain.ErrDuplicate)
	}
	rs.s.returns[ret.ID] = cloneReturn(ret)
	return nil
}

func (rs *ReturnStore) CreateLine(line *entity.ReturnLine) error {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	rs.s.returnLines = append(rs.s.returnLines, cloneReturnLine(line))
	return nil
}

func (rs *ReturnStore) ListBySale(saleID string) ([]*entity.Return, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()

	var out []*entity.Return
	for _, r := range rs.s.returns {
		if r.SaleID == saleID {
			out = append(out, cloneReturn(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (rs *ReturnStore) ListLinesBySale(saleID string) ([]*entity.ReturnLine, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()

	var out []*entity.ReturnLine
	for _, l := range rs.s.returnLines {
		if ret, ok := rs.s.returns[l.ReturnID]; ok && ret.SaleID == saleID {
			out = append(out, cloneReturnLine(l))
		}
	}
	return out, nil
}

func (rs *ReturnStore) SumReturnedBySaleLine(saleLineID string) (decimal.Decimal, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()

	sum := decimal.Zero
	for _, l := range rs.s.returnLines {
		if l.SaleLineID == saleLineID {
			sum = sum.Add(l.Quantity)
		}
	}
	return sum, nil
}

// PaymentStore implementa repository.PaymentRepository en memoria.
type PaymentStore struct {
	s *Store
}

var _ repository.PaymentRepository = (*PaymentStore)(nil)

func (ps *PaymentStore) Create(payment *entity.Payment) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	ps.s.payments = append(ps.s.payments, clonePayment(payment))
	return nil
}

func (ps *PaymentStore) ListBySale(saleID string) ([]*entity.Payment, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	var out []*entity.Payment
	for _, p := range ps.s.payments {
		if p.SaleID == saleID {
			out = append(out, clonePayment(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
