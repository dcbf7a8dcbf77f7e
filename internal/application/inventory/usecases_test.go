package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/caja-pro/internal/application/dto"
	"github.com/jhoicas/caja-pro/internal/application/inventory"
	"github.com/jhoicas/caja-pro/internal/cache"
	"github.com/jhoicas/caja-pro/internal/domain"
	"github.com/jhoicas/caja-pro/internal/domain/entity"
	"github.com/jhoicas/caja-pro/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Recepciones
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_CreaLoteYActualizaCostoPromedio(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewReceiveStockUseCase(memory.NewTxRunner(store), store.Products())

	// Producto con 10 unidades a costo promedio 100.
	p := seedProduct(t, store, 10, 100)

	receivedAt := time.Date(2026, 8, 15, 8, 0, 0, 0, time.UTC)
	res, err := uc.Receive(context.Background(), "user-1", dto.ReceiveStockRequest{
		ProductID:  p.ID,
		Quantity:   decimal.NewFromInt(5),
		UnitCost:   decimal.NewFromInt(160),
		SourceRef:  "FC-00123",
		ReceivedAt: &receivedAt,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.LotStatusActive, res.Status)
	assert.True(t, res.RemainingQuantity.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "FC-00123", res.SourceRef)
	assert.True(t, res.ReceivedAt.Equal(receivedAt), "ReceivedAt manda el orden FIFO y se respeta")

	// Promedio ponderado: (10*100 + 5*160) / 15 = 120.
	p2, err := store.Products().GetByID(p.ID)
	require.NoError(t, err)
	assert.True(t, p2.Cost.Equal(decimal.NewFromInt(120)),
		"costo promedio esperado 120, obtuve %s", p2.Cost)
	assert.True(t, p2.CurrentStock.Equal(decimal.NewFromInt(15)))

	// Movimiento IN en la bitácora.
	movements, err := store.Movements().ListByProduct(p.ID, nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, entity.MovementTypeIN, movements[0].Type)
	assert.True(t, movements[0].TotalCost.Equal(decimal.NewFromInt(800)))
}

func TestReceive_DosRecepcionesSonDosLotes(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewReceiveStockUseCase(memory.NewTxRunner(store), store.Products())
	p := seedProduct(t, store, 0, 0)

	for _, cost := range []int64{100, 120} {
		_, err := uc.Receive(context.Background(), "user-1", dto.ReceiveStockRequest{
			ProductID: p.ID,
			Quantity:  decimal.NewFromInt(5),
			UnitCost:  decimal.NewFromInt(cost),
		})
		require.NoError(t, err)
	}

	lots, err := store.Lots().ListActiveByProduct(p.ID)
	require.NoError(t, err)
	require.Len(t, lots, 2, "una compra = un lote; nunca se funden")
	assert.False(t, lots[0].UnitCost.Equal(lots[1].UnitCost))
}

func TestReceive_EntradaInvalida(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewReceiveStockUseCase(memory.NewTxRunner(store), store.Products())
	p := seedProduct(t, store, 0, 0)

	_, err := uc.Receive(context.Background(), "user-1", dto.ReceiveStockRequest{
		ProductID: p.ID,
		Quantity:  decimal.Zero,
		UnitCost:  decimal.NewFromInt(100),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Receive(context.Background(), "user-1", dto.ReceiveStockRequest{
		ProductID: "no-existe",
		Quantity:  decimal.NewFromInt(1),
		UnitCost:  decimal.NewFromInt(100),
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_PositivoCreaLoteDeAjuste(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewAdjustStockUseCase(memory.NewTxRunner(store), store.Products())
	p := seedProduct(t, store, 10, 80)

	err := uc.Adjust(context.Background(), "user-1", dto.AdjustStockRequest{
		ProductID: p.ID,
		Quantity:  decimal.NewFromInt(3),
		Notes:     "conteo físico",
	})
	require.NoError(t, err)

	lots, err := store.Lots().ListActiveByProduct(p.ID)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, "AJUSTE", lots[0].SourceRef)
	assert.True(t, lots[0].UnitCost.Equal(decimal.NewFromInt(80)),
		"sin costo explícito se usa el promedio de referencia")

	p2, _ := store.Products().GetByID(p.ID)
	assert.True(t, p2.CurrentStock.Equal(decimal.NewFromInt(13)))
}

func TestAdjust_NegativoConsumeFIFOSinRegistros(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewAdjustStockUseCase(memory.NewTxRunner(store), store.Products())
	p := seedProduct(t, store, 10, 0)
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	lotA := seedLot(t, store, p.ID, base, 5, 100)
	seedLot(t, store, p.ID, base.Add(time.Hour), 5, 120)

	err := uc.Adjust(context.Background(), "user-1", dto.AdjustStockRequest{
		ProductID: p.ID,
		Quantity:  decimal.NewFromInt(-6),
		Notes:     "merma",
	})
	require.NoError(t, err)

	a, _ := store.Lots().GetByID(lotA.ID)
	assert.Equal(t, entity.LotStatusExhausted, a.Status, "el lote más viejo se agota primero")

	p2, _ := store.Products().GetByID(p.ID)
	assert.True(t, p2.CurrentStock.Equal(decimal.NewFromInt(4)))

	// El ajuste no deja registros de consumo: no es reversible.
	records, err := store.Consumptions().ListBySaleAndProduct("", p.ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	movements, _ := store.Movements().ListByProduct(p.ID, nil, nil, 10, 0)
	require.Len(t, movements, 1)
	assert.Equal(t, entity.MovementTypeADJUSTMENT, movements[0].Type)
	assert.True(t, movements[0].Quantity.Equal(decimal.NewFromInt(-6)))
	assert.True(t, movements[0].TotalCost.Equal(decimal.NewFromInt(-620)), "5*100 + 1*120")
}

func TestAdjust_NegativoInsuficiente(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewAdjustStockUseCase(memory.NewTxRunner(store), store.Products())
	p := seedProduct(t, store, 3, 50) // sin lotes

	err := uc.Adjust(context.Background(), "user-1", dto.AdjustStockRequest{
		ProductID: p.ID,
		Quantity:  decimal.NewFromInt(-5),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestAdjust_CantidadCeroRechaza(t *testing.T) {
	store := memory.NewStore()
	uc := inventory.NewAdjustStockUseCase(memory.NewTxRunner(store), store.Products())
	p := seedProduct(t, store, 3, 50)

	err := uc.Adjust(context.Background(), "user-1", dto.AdjustStockRequest{
		ProductID: p.ID,
		Quantity:  decimal.Zero,
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Bajo stock
// ──────────────────────────────────────────────────────────────────────────────

// cacheEspía cuenta lecturas y escrituras, sirviendo el valor cacheado.
type cacheEspia struct {
	items []dto.LowStockItemDTO
	hits  int
	sets  int
}

var _ cache.LowStockCache = (*cacheEspia)(nil)

func (c *cacheEspia) Get(_ context.Context, _ string) ([]dto.LowStockItemDTO, bool, error) {
	if c.items == nil {
		return nil, false, nil
	}
	c.hits++
	return c.items, true, nil
}

func (c *cacheEspia) Set(_ context.Context, _ string, items []dto.LowStockItemDTO, _ time.Duration) error {
	c.sets++
	c.items = items
	return nil
}

func TestLowStock_SugiereCantidadYCachea(t *testing.T) {
	store := memory.NewStore()
	espia := &cacheEspia{}
	uc := inventory.NewLowStockUseCase(store.Products(), espia)

	bajo := seedProduct(t, store, 4, 0)
	bajo.ReorderPoint = decimal.NewFromInt(10)
	require.NoError(t, store.Products().Update(bajo))

	sano := seedProduct(t, store, 50, 0)
	sano.ReorderPoint = decimal.NewFromInt(10)
	require.NoError(t, store.Products().Update(sano))

	items, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1, "solo el producto bajo punto de reorden")
	assert.Equal(t, bajo.ID, items[0].ProductID)
	// Sugerido: 1.5*10 - 4 = 11.
	assert.True(t, items[0].SuggestedQty.Equal(decimal.NewFromInt(11)),
		"sugerido esperado 11, obtuve %s", items[0].SuggestedQty)
	assert.Equal(t, 1, espia.sets)

	// Segunda consulta sale de la caché.
	_, err = uc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, espia.hits)
	assert.Equal(t, 1, espia.sets, "no debe recalcular con caché caliente")
}
