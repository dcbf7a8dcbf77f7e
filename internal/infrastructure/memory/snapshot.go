package memory

import "github.com/jhoicas/caja-pro/internal/domain/entity"

// Snapshot es una copia exportable del estado del almacén, usada por el
// replicador de sincronización entre dispositivos.
type Snapshot struct {
	Products     []*entity.Product
	Customers    []*entity.Customer
	Lots         []*entity.InventoryLot
	Consumptions []*entity.ConsumptionRecord
	Movements    []*entity.StockMovement
	TaxEntries   []*entity.TaxLedgerEntry
	Sales        []*entity.Sale
	SaleLines    []*entity.SaleLine
	Returns      []*entity.Return
	ReturnLines  []*entity.ReturnLine
	Payments     []*entity.Payment
}

// Export devuelve una copia profunda del estado actual del almacén.
func (s *Store) Export() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{}
	for _, p := range s.products {
		snap.Products = append(snap.Products, cloneProduct(p))
	}
	for _, c := range s.customers {
		snap.Customers = append(snap.Customers, cloneCustomer(c))
	}
	for _, l := range s.lots {
		snap.Lots = append(snap.Lots, cloneLot(l))
	}
	for _, r := range s.consumptions {
		snap.Consumptions = append(snap.Consumptions, cloneConsumption(r))
	}
	for _, m := range s.movements {
		snap.Movements = append(snap.Movements, cloneMovement(m))
	}
	for _, e := range s.taxEntries {
		snap.TaxEntries = append(snap.TaxEntries, cloneTaxEntry(e))
	}
	for _, sale := range s.sales {
		snap.Sales = append(snap.Sales, cloneSale(sale))
	}
	for _, lines := range s.saleLines {
		for _, l := range lines {
			snap.SaleLines = append(snap.SaleLines, cloneSaleLine(l))
		}
	}
	for _, r := range s.returns {
		snap.Returns = append(snap.Returns, cloneReturn(r))
	}
	for _, l := range s.returnLines {
		snap.ReturnLines = append(snap.ReturnLines, cloneReturnLine(l))
	}
	for _, p := range s.payments {
		snap.Payments = append(snap.Payments, clonePayment(p))
	}
	return snap
}

// Merge incorpora un snapshot remoto con resolución last-writer-wins por
// UpdatedAt en las entidades mutables, y unión por ID en los registros
// append-only.
//
// LWW sobre lotes es deliberadamente ingenuo: si dos dispositivos consumieron
// del mismo lote sin sincronizar, gana la última escritura y el consumo del
// otro dispositivo se pierde del RemainingQuantity, aunque sus movimientos y
// registros de consumo sí se conservan en la unión. Esa divergencia es el
// riesgo de sobreventa del modelo local-first; la bitácora permite detectarla.
func (s *Store) Merge(remote *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rp := range remote.Products {
		local, ok := s.products[rp.ID]
		if !ok || rp.UpdatedAt.After(local.UpdatedAt) {
			s.products[rp.ID] = cloneProduct(rp)
		}
	}
	for _, rc := range remote.Customers {
		local, ok := s.customers[rc.ID]
		if !ok || rc.UpdatedAt.After(local.UpdatedAt) {
			s.customers[rc.ID] = cloneCustomer(rc)
		}
	}
	for _, rl := range remote.Lots {
		local, ok := s.lots[rl.ID]
		if !ok || rl.UpdatedAt.After(local.UpdatedAt) {
			s.lots[rl.ID] = cloneLot(rl)
		}
		if rl.Sequence > s.lotSeq {
			s.lotSeq = rl.Sequence
		}
	}
	for _, rr := range remote.Consumptions {
		local, ok := s.consumptions[rr.ID]
		if !ok {
			s.consumptions[rr.ID] = cloneConsumption(rr)
			continue
		}
		// RestoredQuantity solo crece; el mayor valor es el más reciente.
		if rr.RestoredQuantity.GreaterThan(local.RestoredQuantity) {
			local.RestoredQuantity = rr.RestoredQuantity
		}
	}

	movementIDs := make(map[string]bool, len(s.movements))
	for _, m := range s.movements {
		movementIDs[m.ID] = true
	}
	for _, rm := range remote.Movements {
		if !movementIDs[rm.ID] {
			s.movements = append(s.movements, cloneMovement(rm))
		}
	}

	taxIDs := make(map[string]bool, len(s.taxEntries))
	for _, e := range s.taxEntries {
		taxIDs[e.ID] = true
	}
	for _, re := range remote.TaxEntries {
		if !taxIDs[re.ID] {
			s.taxEntries = append(s.taxEntries, cloneTaxEntry(re))
		}
	}

	for _, rs := range remote.Sales {
		local, ok := s.sales[rs.ID]
		if !ok || rs.UpdatedAt.After(local.UpdatedAt) {
			s.sales[rs.ID] = cloneSale(rs)
		}
	}
	saleLineIDs := make(map[string]bool)
	for _, lines := range s.saleLines {
		for _, l := range lines {
			saleLineIDs[l.ID] = true
		}
	}
	for _, rl := range remote.SaleLines {
		if !saleLineIDs[rl.ID] {
			s.saleLines[rl.SaleID] = append(s.saleLines[rl.SaleID], cloneSaleLine(rl))
		}
	}

	for _, rr := range remote.Returns {
		if _, ok := s.returns[rr.ID]; !ok {
			s.returns[rr.ID] = cloneReturn(rr)
		}
	}
	returnLineIDs := make(map[string]bool, len(s.returnLines))
	for _, l := range s.returnLines {
		returnLineIDs[l.ID] = true
	}
	for _, rl := range remote.ReturnLines {
		if !returnLineIDs[rl.ID] {
			s.returnLines = append(s.returnLines, cloneReturnLine(rl))
		}
	}

	paymentIDs := make(map[string]bool, len(s.payments))
	for _, p := range s.payments {
		paymentIDs[p.ID] = true
	}
	for _, rp := range remote.Payments {
		if !paymentIDs[rp.ID] {
			s.payments = append(s.payments, clonePayment(rp))
		}
	}
}
