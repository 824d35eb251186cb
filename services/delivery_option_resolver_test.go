package services

import (
	"testing"
	"time"

	"backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func activeOption() models.DeliveryOption {
	return models.DeliveryOption{
		ID:              1,
		Code:            "express",
		Name:            "Express Delivery",
		DeliveryDaysMin: 1,
		DeliveryDaysMax: 2,
		PriceMultiplier: 1.5,
		FixedSurcharge:  20,
		IsActive:        true,
	}
}

// Monday 2025-06-02 13:30
func monday1330() time.Time {
	return time.Date(2025, 6, 2, 13, 30, 0, 0, time.UTC)
}

func TestOptionInactiveFails(t *testing.T) {
	opt := activeOption()
	opt.IsActive = false

	ok, reason := IsOptionAvailable(opt, QuoteContext{Zone: "B", OrderedAt: monday1330()})
	assert.False(t, ok)
	assert.Equal(t, "option is not active", reason)
}

func TestOptionZoneAllowList(t *testing.T) {
	opt := activeOption()
	opt.AvailabilityZones = []string{"A", "B"}

	ok, _ := IsOptionAvailable(opt, QuoteContext{Zone: "B", OrderedAt: monday1330()})
	assert.True(t, ok)

	ok, reason := IsOptionAvailable(opt, QuoteContext{Zone: "D", OrderedAt: monday1330()})
	assert.False(t, ok)
	assert.Contains(t, reason, "zone D")
}

func TestOptionEmptyZoneListMeansEverywhere(t *testing.T) {
	opt := activeOption()
	opt.AvailabilityZones = nil

	for _, zone := range ValidZones {
		ok, _ := IsOptionAvailable(opt, QuoteContext{Zone: zone, OrderedAt: monday1330()})
		assert.True(t, ok, "zone %s", zone)
	}
}

func TestOptionMinOrderValue(t *testing.T) {
	opt := activeOption()
	opt.MinOrderValue = floatPtr(500)

	ok, reason := IsOptionAvailable(opt, QuoteContext{Zone: "B", OrderValue: 499.99, OrderedAt: monday1330()})
	assert.False(t, ok)
	assert.Equal(t, "order value below minimum", reason)

	// Exactly at the minimum qualifies
	ok, _ = IsOptionAvailable(opt, QuoteContext{Zone: "B", OrderValue: 500, OrderedAt: monday1330()})
	assert.True(t, ok)
}

func TestOptionRestrictedDays(t *testing.T) {
	opt := activeOption()
	opt.RestrictedDays = []int{0, 6} // weekend

	sunday := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	ok, reason := IsOptionAvailable(opt, QuoteContext{Zone: "B", OrderedAt: sunday})
	assert.False(t, ok)
	assert.Equal(t, "not available on this day", reason)

	ok, _ = IsOptionAvailable(opt, QuoteContext{Zone: "B", OrderedAt: monday1330()})
	assert.True(t, ok)
}

func TestOptionCutoffTime(t *testing.T) {
	opt := activeOption()
	opt.CutoffTime = strPtr("14:00")

	ok, _ := IsOptionAvailable(opt, QuoteContext{Zone: "B", OrderedAt: monday1330()})
	assert.True(t, ok)

	// Exactly at the cutoff still qualifies
	atCutoff := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)
	ok, _ = IsOptionAvailable(opt, QuoteContext{Zone: "B", OrderedAt: atCutoff})
	assert.True(t, ok)

	afterCutoff := time.Date(2025, 6, 2, 14, 1, 0, 0, time.UTC)
	ok, reason := IsOptionAvailable(opt, QuoteContext{Zone: "B", OrderedAt: afterCutoff})
	assert.False(t, ok)
	assert.Equal(t, "order placed after cutoff time", reason)
}

func TestOptionConditions(t *testing.T) {
	cases := []struct {
		condType string
		ctx      QuoteContext
		want     bool
	}{
		{models.ConditionMetroOnly, QuoteContext{IsMetro: true}, true},
		{models.ConditionMetroOnly, QuoteContext{IsMetro: false}, false},
		{models.ConditionExcludeMetro, QuoteContext{IsMetro: false}, true},
		{models.ConditionExcludeMetro, QuoteContext{IsMetro: true}, false},
		{models.ConditionRemoteOnly, QuoteContext{IsRemote: true}, true},
		{models.ConditionRemoteOnly, QuoteContext{IsRemote: false}, false},
		{models.ConditionExcludeRemote, QuoteContext{IsRemote: false}, true},
		{models.ConditionExcludeRemote, QuoteContext{IsRemote: true}, false},
		{models.ConditionCodRequired, QuoteContext{CodZone: true}, true},
		{models.ConditionCodRequired, QuoteContext{CodZone: false}, false},
	}

	for _, tc := range cases {
		opt := activeOption()
		opt.AvailabilityConditions = []models.AvailabilityCondition{{Type: tc.condType}}
		ctx := tc.ctx
		ctx.Zone = "B"
		ctx.OrderedAt = monday1330()

		ok, _ := IsOptionAvailable(opt, ctx)
		assert.Equal(t, tc.want, ok, "%s %+v", tc.condType, tc.ctx)
	}
}

func TestOptionUnknownConditionFailsClosed(t *testing.T) {
	opt := activeOption()
	opt.AvailabilityConditions = []models.AvailabilityCondition{{Type: "drone_only"}}

	ok, reason := IsOptionAvailable(opt, QuoteContext{Zone: "B", OrderedAt: monday1330()})
	assert.False(t, ok)
	assert.Contains(t, reason, "unknown availability condition")
}

func TestOptionCostBreakdown(t *testing.T) {
	opt := activeOption() // 1.5x + 20

	cost := OptionCost(opt, 100)
	assert.Equal(t, 100.0, cost.BaseCost)
	assert.Equal(t, 150.0, cost.MultiplierAdjustedCost)
	assert.Equal(t, 20.0, cost.Surcharge)
	assert.Equal(t, 170.0, cost.TotalCost)
}

func TestOptionCostRoundsToTwoDecimals(t *testing.T) {
	opt := activeOption()
	opt.PriceMultiplier = 1.33
	opt.FixedSurcharge = 0

	cost := OptionCost(opt, 66)
	assert.Equal(t, 87.78, cost.TotalCost)
}

func TestOptionWindowBoundedByZone(t *testing.T) {
	opt := activeOption() // promises 1-2 days

	fast := models.ZoneEntry{Zone: "A", ExpectedDeliveryDays: 1}
	window := OptionWindow(opt, fast)
	assert.Equal(t, models.DeliveryWindow{MinDays: 1, MaxDays: 2}, window)

	// A slow zone drags both ends of the window up
	slow := models.ZoneEntry{Zone: "E", ExpectedDeliveryDays: 5}
	window = OptionWindow(opt, slow)
	assert.Equal(t, models.DeliveryWindow{MinDays: 5, MaxDays: 5}, window)
}

func TestAvailableOptionsSortedByAdminOrder(t *testing.T) {
	cheap := activeOption()
	cheap.ID = 1
	cheap.Code = "standard"
	cheap.PriceMultiplier = 1.0
	cheap.FixedSurcharge = 0
	cheap.SortOrder = 20

	fast := activeOption()
	fast.ID = 2
	fast.SortOrder = 10

	zone := models.ZoneEntry{Zone: "B", ExpectedDeliveryDays: 1, CodAvailable: true}
	ctx := QuoteContext{Zone: "B", OrderedAt: monday1330()}

	results := AvailableOptions([]models.DeliveryOption{cheap, fast}, zone, 100, ctx)
	require.Len(t, results, 2)
	// sort_order wins even though express is pricier
	assert.Equal(t, "express", results[0].Code)
	assert.Equal(t, "standard", results[1].Code)
	assert.True(t, results[0].CodAvailable)
}

func TestAvailableOptionsFiltersIneligible(t *testing.T) {
	eligible := activeOption()
	blocked := activeOption()
	blocked.ID = 2
	blocked.Code = "metro-express"
	blocked.AvailabilityConditions = []models.AvailabilityCondition{{Type: models.ConditionMetroOnly}}

	zone := models.ZoneEntry{Zone: "C", ExpectedDeliveryDays: 2}
	ctx := QuoteContext{Zone: "C", IsMetro: false, OrderedAt: monday1330()}

	results := AvailableOptions([]models.DeliveryOption{eligible, blocked}, zone, 80, ctx)
	require.Len(t, results, 1)
	assert.Equal(t, "express", results[0].Code)
}

func TestParseClockTime(t *testing.T) {
	mins, err := ParseClockTime("14:00")
	require.NoError(t, err)
	assert.Equal(t, 840, mins)

	mins, err = ParseClockTime("00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, mins)

	for _, bad := range []string{"", "14", "25:00", "14:60", "2pm", "14:00:00"} {
		_, err := ParseClockTime(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestTestOptionEvaluatesSyntheticContext(t *testing.T) {
	req := models.OptionTestRequest{
		Option:     activeOption(),
		Zone:       "B",
		OrderValue: 750,
		BaseCost:   100,
		CodZone:    true,
		OrderDate:  "2025-06-02",
		OrderTime:  "13:30",
	}

	result, err := TestOption(req, time.Now())
	require.NoError(t, err)
	assert.True(t, result.Available)
	require.NotNil(t, result.Cost)
	assert.Equal(t, 170.0, result.Cost.TotalCost)
	require.NotNil(t, result.Window)

	req.Option.MinOrderValue = floatPtr(1000)
	result, err = TestOption(req, time.Now())
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, "order value below minimum", result.Reason)
	assert.Nil(t, result.Cost)
}
