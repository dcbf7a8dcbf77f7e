package sync_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-pro/internal/application/inventory"
	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/infrastructure/memory"
	"github.com/jhoicas/caja-pro/internal/infrastructure/sync"
	"github.com/jhoicas/caja-pro/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// seedReplica siembra el mismo producto y lote (mismos IDs) en una réplica,
// como si ambas cajas hubieran sincronizado el catálogo antes de divergir.
func seedReplica(t *testing.T, store *memory.Store, productID, lotID string, qty float64) {
	t.Helper()
	seeded := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, store.Products().Create(&entity.Product{
		ID:           productID,
		SKU:          "SKU-SYNC",
		Name:         "Producto sincronizado",
		Price:        decimal.NewFromInt(200),
		TaxRate:      decimal.NewFromFloat(0.18),
		CurrentStock: decimal.NewFromFloat(qty),
		UnitMeasure:  "UND",
		CreatedAt:    seeded,
		UpdatedAt:    seeded,
	}))
	q := decimal.NewFromFloat(qty)
	require.NoError(t, store.Lots().Create(&entity.InventoryLot{
		ID:                lotID,
		ProductID:         productID,
		ReceivedAt:        seeded,
		OriginalQuantity:  q,
		RemainingQuantity: q,
		UnitCost:          decimal.NewFromInt(100),
		Status:            entity.LotStatusActive,
		CreatedAt:         seeded,
		UpdatedAt:         seeded,
	}))
}

// vender consume stock en la réplica como lo haría una venta local.
func vender(t *testing.T, store *memory.Store, productID, saleID string, qty float64) {
	t.Helper()
	eng := inventory.NewEngine(store.Lots(), store.Products(), testLogger())
	p, err := store.Products().GetByID(productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	_, err = eng.ConsumeFIFOInTx(
		store.Lots(), store.Consumptions(), store.Movements(), store.Products(),
		p, saleID, "user-1", decimal.NewFromFloat(qty), time.Now(),
	)
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Convergencia
// ──────────────────────────────────────────────────────────────────────────────

// Una venta hecha en la caja B aparece en la caja A tras una ronda de
// sincronización: movimientos y registros de consumo viajan por unión.
func TestSyncOnce_PropagaVentasEntreReplicas(t *testing.T) {
	cajaA := memory.NewStore()
	cajaB := memory.NewStore()
	productID := uuid.New().String()
	lotID := uuid.New().String()
	seedReplica(t, cajaA, productID, lotID, 10)
	seedReplica(t, cajaB, productID, lotID, 10)

	vender(t, cajaB, productID, "sale-b1", 4)

	r := sync.NewReplicator(cajaA, []sync.Peer{cajaB}, time.Minute, testLogger())
	r.SyncOnce()

	movsA, err := cajaA.Movements().ListBySale("sale-b1")
	require.NoError(t, err)
	require.Len(t, movsA, 1, "el movimiento de la caja B debe llegar a la A")

	recordsA, err := cajaA.Consumptions().ListBySaleAndProduct("sale-b1", productID)
	require.NoError(t, err)
	require.Len(t, recordsA, 1)

	lotA, err := cajaA.Lots().GetByID(lotID)
	require.NoError(t, err)
	assert.True(t, lotA.RemainingQuantity.Equal(decimal.NewFromInt(6)),
		"el lote de la caja A adopta el estado más reciente")
}

// ──────────────────────────────────────────────────────────────────────────────
// Sobreventa entre dispositivos
// ──────────────────────────────────────────────────────────────────────────────

// Dos cajas venden el mismo stock durante la ventana de sincronización. El
// merge last-writer-wins NO lo previene: el lote converge al estado de un solo
// escritor, pero la bitácora conserva ambas salidas, así que el conflicto
// queda detectable (consumo total según movimientos > consumo según el lote).
func TestSyncOnce_SobreventaQuedaEnLaBitacora(t *testing.T) {
	cajaA := memory.NewStore()
	cajaB := memory.NewStore()
	productID := uuid.New().String()
	lotID := uuid.New().String()
	seedReplica(t, cajaA, productID, lotID, 10)
	seedReplica(t, cajaB, productID, lotID, 10)

	// Ambas cajas venden 7 de las 10 unidades sin haber sincronizado.
	vender(t, cajaA, productID, "sale-a1", 7)
	vender(t, cajaB, productID, "sale-b1", 7)

	r := sync.NewReplicator(cajaA, []sync.Peer{cajaB}, time.Minute, testLogger())
	r.SyncOnce()

	// El lote converge al remanente de un solo escritor (3), no al real (-4).
	lotA, err := cajaA.Lots().GetByID(lotID)
	require.NoError(t, err)
	assert.True(t, lotA.RemainingQuantity.Equal(decimal.NewFromInt(3)),
		"last-writer-wins pierde uno de los consumos en el lote")

	// La bitácora no miente: las dos salidas sobreviven al merge.
	movements, err := cajaA.Movements().ListByProduct(productID, nil, nil, 10, 0)
	require.NoError(t, err)
	totalOut := decimal.Zero
	for _, m := range movements {
		if m.Type == entity.MovementTypeOUT {
			totalOut = totalOut.Add(m.Quantity.Neg())
		}
	}
	assert.True(t, totalOut.Equal(decimal.NewFromInt(14)),
		"la unión conserva ambas ventas: 7+7")

	// Consumo según el lote vs. según la bitácora: la diferencia delata la
	// sobreventa para una conciliación posterior.
	consumedPorLote := lotA.OriginalQuantity.Sub(lotA.RemainingQuantity)
	assert.True(t, totalOut.GreaterThan(consumedPorLote),
		"la divergencia bitácora/lote es la evidencia de la sobreventa")
}

// Tras la ronda ambas réplicas quedan iguales en lo que el merge cubre.
func TestSyncOnce_ReplicasConvergen(t *testing.T) {
	cajaA := memory.NewStore()
	cajaB := memory.NewStore()
	productID := uuid.New().String()
	lotID := uuid.New().String()
	seedReplica(t, cajaA, productID, lotID, 10)
	seedReplica(t, cajaB, productID, lotID, 10)

	vender(t, cajaA, productID, "sale-a1", 2)
	vender(t, cajaB, productID, "sale-b1", 3)

	r := sync.NewReplicator(cajaA, []sync.Peer{cajaB}, time.Minute, testLogger())
	r.SyncOnce()

	movsA, err := cajaA.Movements().ListByProduct(productID, nil, nil, 100, 0)
	require.NoError(t, err)
	movsB, err := cajaB.Movements().ListByProduct(productID, nil, nil, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, len(movsA), len(movsB), "ambas bitácoras ven los mismos movimientos")

	lotA, _ := cajaA.Lots().GetByID(lotID)
	lotB, _ := cajaB.Lots().GetByID(lotID)
	assert.True(t, lotA.RemainingQuantity.Equal(lotB.RemainingQuantity),
		"el lote converge al mismo remanente en ambas réplicas")
}
