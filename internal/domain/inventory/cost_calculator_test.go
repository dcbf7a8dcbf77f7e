package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/caja-pro/internal/domain/inventory"
)

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// (10*100 + 5*160) / 15 = 120
	got := inventory.CostCalculator(
		decimal.NewFromInt(10), decimal.NewFromInt(100),
		decimal.NewFromInt(5), decimal.NewFromInt(160),
	)
	assert.True(t, got.Equal(decimal.NewFromInt(120)), "esperado 120, obtuve %s", got)
}

func TestCostCalculator_StockInicialCero(t *testing.T) {
	got := inventory.CostCalculator(
		decimal.Zero, decimal.Zero,
		decimal.NewFromInt(5), decimal.NewFromInt(80),
	)
	assert.True(t, got.Equal(decimal.NewFromInt(80)), "sin stock previo manda el costo de entrada")
}

func TestCostCalculator_SumaNoPositiva(t *testing.T) {
	got := inventory.CostCalculator(
		decimal.NewFromInt(-5), decimal.NewFromInt(100),
		decimal.NewFromInt(5), decimal.NewFromInt(80),
	)
	assert.True(t, got.IsZero(), "con denominador no positivo el costo es cero")
}
