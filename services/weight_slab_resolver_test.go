package services

import (
	"testing"

	"backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLadder() []models.WeightSlab {
	return []models.WeightSlab{
		{ID: 1, CourierName: "standard", BaseWeight: 0.5},
		{ID: 2, CourierName: "standard", BaseWeight: 1.0},
		{ID: 3, CourierName: "standard", BaseWeight: 2.0},
		{ID: 4, CourierName: "standard", BaseWeight: 5.0, OveragePerKg: 40},
	}
}

func TestResolveSlabCeilingSelection(t *testing.T) {
	cases := []struct {
		weight   float64
		wantSlab uint
	}{
		{0.3, 1},
		{0.5, 1}, // boundary maps to the boundary slab
		{0.51, 2},
		{1.0, 2},
		{1.2, 3},
		{5.0, 4},
	}

	for _, tc := range cases {
		slab, overage, err := ResolveSlab(testLadder(), tc.weight)
		require.NoError(t, err, "weight %.2f", tc.weight)
		assert.Equal(t, tc.wantSlab, slab.ID, "weight %.2f", tc.weight)
		assert.Zero(t, overage, "weight %.2f", tc.weight)
	}
}

func TestResolveSlabUnsortedInput(t *testing.T) {
	ladder := []models.WeightSlab{
		{ID: 3, BaseWeight: 2.0},
		{ID: 1, BaseWeight: 0.5},
		{ID: 2, BaseWeight: 1.0},
	}

	slab, _, err := ResolveSlab(ladder, 0.8)
	require.NoError(t, err)
	assert.Equal(t, uint(2), slab.ID)
}

func TestResolveSlabOverage(t *testing.T) {
	slab, overage, err := ResolveSlab(testLadder(), 7.0)
	require.NoError(t, err)
	assert.Equal(t, uint(4), slab.ID)
	assert.InDelta(t, 2.0, overage, 1e-9)
}

func TestResolveSlabEmptyLadder(t *testing.T) {
	_, _, err := ResolveSlab(nil, 1.0)
	assert.ErrorIs(t, err, ErrNoSlabsConfigured)
	assert.True(t, IsConfigurationMissing(err))
}

func TestSlabBasePriceNoOverage(t *testing.T) {
	price, err := SlabBasePrice(55, testLadder()[1], 0)
	require.NoError(t, err)
	assert.Equal(t, 55.0, price)
}

func TestSlabBasePriceOverageRoundsUpPerStartedKg(t *testing.T) {
	top := testLadder()[3]

	price, err := SlabBasePrice(100, top, 2.0)
	require.NoError(t, err)
	assert.Equal(t, 180.0, price)

	// 1.5 kg excess bills as 2 started kg
	price, err = SlabBasePrice(100, top, 1.5)
	require.NoError(t, err)
	assert.Equal(t, 180.0, price)

	price, err = SlabBasePrice(100, top, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 140.0, price)
}

func TestSlabBasePriceOverageNotConfigured(t *testing.T) {
	top := models.WeightSlab{ID: 9, BaseWeight: 5.0}

	_, err := SlabBasePrice(100, top, 1.0)
	assert.ErrorIs(t, err, ErrOverageNotConfigured)
	assert.True(t, IsConfigurationMissing(err))
}

func TestSlabPriceMonotonicOverWeight(t *testing.T) {
	// With a non-decreasing rate ladder, heavier never prices cheaper
	rates := map[uint]float64{1: 30, 2: 55, 3: 80, 4: 120}

	prev := 0.0
	for _, w := range []float64{0.2, 0.5, 0.9, 1.5, 3.0, 5.0, 6.2, 8.0} {
		slab, overage, err := ResolveSlab(testLadder(), w)
		require.NoError(t, err)
		price, err := SlabBasePrice(rates[slab.ID], slab, overage)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, price, prev, "weight %.2f", w)
		prev = price
	}
}
