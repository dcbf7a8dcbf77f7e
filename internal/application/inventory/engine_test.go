package inventory_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-pro/internal/application/inventory"
	"github.com/jhoicas/caja-pro/internal/domain"
	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/infrastructure/memory"
	"github.com/jhoicas/caja-pro/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func newEngine(store *memory.Store) *inventory.Engine {
	return inventory.NewEngine(store.Lots(), store.Products(), testLogger())
}

func seedProduct(t *testing.T, store *memory.Store, stock, cost float64) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:           uuid.New().String(),
		SKU:          "SKU-" + uuid.New().String()[:8],
		Name:         "Producto de prueba",
		Price:        decimal.NewFromInt(200),
		Cost:         decimal.NewFromFloat(cost),
		TaxRate:      decimal.NewFromFloat(0.18),
		CurrentStock: decimal.NewFromFloat(stock),
		UnitMeasure:  "UND",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, store.Products().Create(p))
	return p
}

func seedLot(t *testing.T, store *memory.Store, productID string, receivedAt time.Time, qty, unitCost float64) *entity.InventoryLot {
	t.Helper()
	q := decimal.NewFromFloat(qty)
	l := &entity.InventoryLot{
		ID:                uuid.New().String(),
		ProductID:         productID,
		ReceivedAt:        receivedAt,
		OriginalQuantity:  q,
		RemainingQuantity: q,
		UnitCost:          decimal.NewFromFloat(unitCost),
		Status:            entity.LotStatusActive,
		CreatedAt:         receivedAt,
		UpdatedAt:         receivedAt,
	}
	require.NoError(t, store.Lots().Create(l))
	return l
}

// consume ejecuta ConsumeFIFOInTx con los repositorios del almacén.
func consume(t *testing.T, store *memory.Store, eng *inventory.Engine, p *entity.Product, saleID string, qty float64) (*inventory.ConsumeResult, error) {
	t.Helper()
	return eng.ConsumeFIFOInTx(
		store.Lots(), store.Consumptions(), store.Movements(), store.Products(),
		p, saleID, "user-1", decimal.NewFromFloat(qty), time.Now(),
	)
}

func restore(t *testing.T, store *memory.Store, eng *inventory.Engine, p *entity.Product, saleID, returnID string, qty float64) (*inventory.RestoreResult, error) {
	t.Helper()
	return eng.RestoreForReturnInTx(
		store.Lots(), store.Consumptions(), store.Movements(), store.Products(),
		p, saleID, returnID, "user-1", decimal.NewFromFloat(qty), time.Now(),
	)
}

// assertConservacion verifica el invariante: con lotes presentes, la caché
// CurrentStock es igual a la suma de RemainingQuantity de los lotes activos.
func assertConservacion(t *testing.T, store *memory.Store, productID string) {
	t.Helper()
	p, err := store.Products().GetByID(productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	lots, err := store.Lots().ListActiveByProduct(productID)
	require.NoError(t, err)
	sum := decimal.Zero
	for _, l := range lots {
		sum = sum.Add(l.RemainingQuantity)
	}
	assert.True(t, p.CurrentStock.Equal(sum),
		"conservación rota: CurrentStock=%s, Σ lotes=%s", p.CurrentStock, sum)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consumo FIFO
// ──────────────────────────────────────────────────────────────────────────────

func TestConsumeFIFO_EjemploReferencia(t *testing.T) {
	store := memory.NewStore()
	eng := newEngine(store)
	p := seedProduct(t, store, 10, 0)
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	lotA := seedLot(t, store, p.ID, base, 5, 100)
	lotB := seedLot(t, store, p.ID, base.Add(time.Hour), 5, 120)

	res, err := consume(t, store, eng, p, "sale-1", 7)
	require.NoError(t, err)

	assert.True(t, res.TotalCost.Equal(decimal.NewFromInt(740)),
		"COGS esperado 740, obtuve %s", res.TotalCost)
	assert.False(t, res.Degraded)
	assert.True(t, res.NewStock.Equal(decimal.NewFromInt(3)))
	require.Len(t, res.Allocations, 2, "dos lotes consumidos, dos registros")

	// Lote A agotado, lote B parcial.
	a, err := store.Lots().GetByID(lotA.ID)
	require.NoError(t, err)
	assert.True(t, a.RemainingQuantity.IsZero())
	assert.Equal(t, entity.LotStatusExhausted, a.Status, "lote agotado pasa a EXHAUSTED, no se borra")

	b, err := store.Lots().GetByID(lotB.ID)
	require.NoError(t, err)
	assert.True(t, b.RemainingQuantity.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, entity.LotStatusActive, b.Status)

	// Registros de consumo: 5 del lote A (seq 0) y 2 del B (seq 1).
	records, err := store.Consumptions().ListBySaleAndProduct("sale-1", p.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Bitácora: un movimiento OUT con cantidad negativa.
	movements, err := store.Movements().ListBySale("sale-1")
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, entity.MovementTypeOUT, movements[0].Type)
	assert.True(t, movements[0].Quantity.Equal(decimal.NewFromInt(-7)))
	assert.True(t, movements[0].TotalCost.Equal(decimal.NewFromInt(-740)))

	assertConservacion(t, store, p.ID)
}

func TestConsumeFIFO_InsuficienteNoMutaNada(t *testing.T) {
	store := memory.NewStore()
	eng := newEngine(store)
	p := seedProduct(t, store, 5, 0)
	lotA := seedLot(t, store, p.ID, time.Now(), 5, 100)

	_, err := consume(t, store, eng, p, "sale-1", 8)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	a, err := store.Lots().GetByID(lotA.ID)
	require.NoError(t, err)
	assert.True(t, a.RemainingQuantity.Equal(decimal.NewFromInt(5)),
		"el lote no debe tocarse si el plan no alcanza")

	records, err := store.Consumptions().ListBySaleAndProduct("sale-1", p.ID)
	require.NoError(t, err)
	assert.Empty(t, records, "no deben quedar registros de un consumo abortado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reversión
// ──────────────────────────────────────────────────────────────────────────────

// Ida y vuelta exacta: consumir 7 y devolver 7 deja los lotes, la caché y los
// registros como al inicio (RestoredQuantity == QuantityConsumed).
func TestRestore_IdaYVueltaExacta(t *testing.T) {
	store := memory.NewStore()
	eng := newEngine(store)
	p := seedProduct(t, store, 10, 0)
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	lotA := seedLot(t, store, p.ID, base, 5, 100)
	lotB := seedLot(t, store, p.ID, base.Add(time.Hour), 5, 120)

	resC, err := consume(t, store, eng, p, "sale-1", 7)
	require.NoError(t, err)

	resR, err := restore(t, store, eng, p, "sale-1", "ret-1", 7)
	require.NoError(t, err)

	assert.True(t, resR.RestoredQuantity.Equal(decimal.NewFromInt(7)))
	assert.True(t, resR.TotalCost.Equal(resC.TotalCost),
		"el costo restaurado debe igualar el COGS original: %s vs %s", resR.TotalCost, resC.TotalCost)
	assert.True(t, resR.NewStock.Equal(decimal.NewFromInt(10)))

	a, _ := store.Lots().GetByID(lotA.ID)
	b, _ := store.Lots().GetByID(lotB.ID)
	assert.True(t, a.RemainingQuantity.Equal(decimal.NewFromInt(5)), "lote A restaurado por completo")
	assert.Equal(t, entity.LotStatusActive, a.Status, "el lote agotado vuelve a ACTIVE")
	assert.True(t, b.RemainingQuantity.Equal(decimal.NewFromInt(5)))

	records, err := store.Consumptions().ListBySaleAndProduct("sale-1", p.ID)
	require.NoError(t, err)
	for _, rec := range records {
		assert.True(t, rec.Unrestored().IsZero(),
			"todo registro debe quedar totalmente restaurado")
	}
	assertConservacion(t, store, p.ID)
}

// Devolución parcial: tras consumir 5@100 + 2@120, devolver 3 deshace primero
// el lote B (2) y luego 1 del A. Costo restaurado: 2*120 + 1*100 = 340.
func TestRestore_ParcialDeshaceLoUltimoPrimero(t *testing.T) {
	store := memory.NewStore()
	eng := newEngine(store)
	p := seedProduct(t, store, 10, 0)
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	lotA := seedLot(t, store, p.ID, base, 5, 100)
	lotB := seedLot(t, store, p.ID, base.Add(time.Hour), 5, 120)

	_, err := consume(t, store, eng, p, "sale-1", 7)
	require.NoError(t, err)

	res, err := restore(t, store, eng, p, "sale-1", "ret-1", 3)
	require.NoError(t, err)

	assert.True(t, res.RestoredQuantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, res.TotalCost.Equal(decimal.NewFromInt(340)),
		"costo restaurado esperado 340, obtuve %s", res.TotalCost)

	a, _ := store.Lots().GetByID(lotA.ID)
	b, _ := store.Lots().GetByID(lotB.ID)
	assert.True(t, b.RemainingQuantity.Equal(decimal.NewFromInt(5)),
		"el lote B recupera sus 2 unidades primero")
	assert.True(t, a.RemainingQuantity.Equal(decimal.NewFromInt(1)),
		"el lote A recupera la unidad restante")
	assertConservacion(t, store, p.ID)
}

// Segundo retorno sobre historial agotado: restauración cero, sin mutación.
func TestRestore_HistorialAgotadoRestauraCero(t *testing.T) {
	store := memory.NewStore()
	eng := newEngine(store)
	p := seedProduct(t, store, 5, 0)
	seedLot(t, store, p.ID, time.Now(), 5, 100)

	_, err := consume(t, store, eng, p, "sale-1", 4)
	require.NoError(t, err)
	_, err = restore(t, store, eng, p, "sale-1", "ret-1", 4)
	require.NoError(t, err)

	res, err := restore(t, store, eng, p, "sale-1", "ret-2", 2)
	require.NoError(t, err)
	assert.True(t, res.RestoredQuantity.IsZero(),
		"sin historial reversible no debe restaurarse nada")

	p2, _ := store.Products().GetByID(p.ID)
	assert.True(t, p2.CurrentStock.Equal(decimal.NewFromInt(5)),
		"el stock no debe cambiar en un retorno vacío")
}

// ──────────────────────────────────────────────────────────────────────────────
// Modo degradado (producto sin lotes)
// ──────────────────────────────────────────────────────────────────────────────

func TestConsumeDegradado_UsaCacheYCostoPromedio(t *testing.T) {
	store := memory.NewStore()
	eng := newEngine(store)
	p := seedProduct(t, store, 10, 50) // sin lotes, costo promedio 50

	res, err := consume(t, store, eng, p, "sale-1", 4)
	require.NoError(t, err)

	assert.True(t, res.Degraded, "el resultado debe marcar el modo degradado")
	assert.True(t, res.TotalCost.Equal(decimal.NewFromInt(200)), "COGS al costo promedio: 4*50")
	assert.True(t, res.NewStock.Equal(decimal.NewFromInt(6)))

	records, err := store.Consumptions().ListBySaleAndProduct("sale-1", p.ID)
	require.NoError(t, err)
	assert.Empty(t, records, "el modo degradado no produce registros de consumo")

	movements, err := store.Movements().ListBySale("sale-1")
	require.NoError(t, err)
	require.Len(t, movements, 1, "la bitácora registra la salida igual")
}

func TestConsumeDegradado_InsuficienteRechaza(t *testing.T) {
	store := memory.NewStore()
	eng := newEngine(store)
	p := seedProduct(t, store, 3, 50)

	_, err := consume(t, store, eng, p, "sale-1", 5)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestRestoreDegradado_IncrementaCache(t *testing.T) {
	store := memory.NewStore()
	eng := newEngine(store)
	p := seedProduct(t, store, 6, 50)

	res, err := restore(t, store, eng, p, "sale-1", "ret-1", 4)
	require.NoError(t, err)

	assert.True(t, res.Degraded)
	assert.True(t, res.NewStock.Equal(decimal.NewFromInt(10)))
	assert.True(t, res.RestoredQuantity.Equal(decimal.NewFromInt(4)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Disponibilidad
// ──────────────────────────────────────────────────────────────────────────────

func TestGetAvailableQuantity_ConYSinLotes(t *testing.T) {
	store := memory.NewStore()
	eng := newEngine(store)

	// Con lotes: suma de remanentes, la caché es irrelevante.
	conLotes := seedProduct(t, store, 99, 0)
	base := time.Now()
	seedLot(t, store, conLotes.ID, base, 5, 100)
	seedLot(t, store, conLotes.ID, base.Add(time.Hour), 3, 120)

	available, err := eng.GetAvailableQuantity(conLotes.ID)
	require.NoError(t, err)
	assert.True(t, available.Equal(decimal.NewFromInt(8)),
		"con lotes manda la suma de remanentes, no la caché")

	// Sin lotes: manda CurrentStock.
	sinLotes := seedProduct(t, store, 7, 50)
	available, err = eng.GetAvailableQuantity(sinLotes.ID)
	require.NoError(t, err)
	assert.True(t, available.Equal(decimal.NewFromInt(7)))
}
