package services

import (
	"context"
	"testing"
	"time"

	"backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConfigStore serves quote resolutions from fixture maps
type fakeConfigStore struct {
	zones   map[string]models.ZoneEntry
	slabs   map[string][]models.WeightSlab
	rates   map[string]float64
	options []models.DeliveryOption

	zoneLoads int
	slabLoads int
	rateLoads int
	optLoads  int
}

func (f *fakeConfigStore) GetZoneEntry(_ context.Context, pincode string) (*models.ZoneEntry, error) {
	f.zoneLoads++
	entry, ok := f.zones[pincode]
	if !ok {
		return nil, ErrZoneNotFound
	}
	return &entry, nil
}

func (f *fakeConfigStore) GetWeightSlabs(_ context.Context, courier string) ([]models.WeightSlab, error) {
	f.slabLoads++
	return f.slabs[courier], nil
}

func (f *fakeConfigStore) GetZoneRate(_ context.Context, courier string, weightSlabID uint, zone string) (float64, error) {
	f.rateLoads++
	price, ok := f.rates[rateKey(courier, weightSlabID, zone)]
	if !ok {
		return 0, ErrRateNotFound
	}
	return price, nil
}

func (f *fakeConfigStore) GetActiveDeliveryOptions(_ context.Context) ([]models.DeliveryOption, error) {
	f.optLoads++
	return f.options, nil
}

func fixtureStore() *fakeConfigStore {
	cutoff := "14:00"
	return &fakeConfigStore{
		zones: map[string]models.ZoneEntry{
			"560001": {
				ID: 1, Pincode: "560001", Zone: "B", City: "Bengaluru", State: "Karnataka",
				IsMetro: true, CodAvailable: true, ExpectedDeliveryDays: 2, ZoneMultiplier: 1.2,
			},
			"831001": {
				ID: 2, Pincode: "831001", Zone: "E", IsRemote: true,
				CodAvailable: false, ExpectedDeliveryDays: 6, ZoneMultiplier: 1.8,
			},
		},
		slabs: map[string][]models.WeightSlab{
			"standard": {
				{ID: 1, CourierName: "standard", BaseWeight: 0.5},
				{ID: 2, CourierName: "standard", BaseWeight: 1.0},
				{ID: 3, CourierName: "standard", BaseWeight: 2.0},
				{ID: 4, CourierName: "standard", BaseWeight: 5.0, OveragePerKg: 40},
			},
		},
		rates: map[string]float64{
			rateKey("standard", 2, "B"): 55,
			rateKey("standard", 3, "B"): 80,
			rateKey("standard", 4, "B"): 120,
			rateKey("standard", 2, "E"): 95,
		},
		options: []models.DeliveryOption{
			{
				ID: 1, Code: "standard", Name: "Standard Delivery",
				DeliveryDaysMin: 2, DeliveryDaysMax: 4,
				PriceMultiplier: 1.0, SortOrder: 10, IsActive: true,
			},
			{
				ID: 2, Code: "express", Name: "Express Delivery",
				DeliveryDaysMin: 1, DeliveryDaysMax: 2,
				PriceMultiplier: 1.5, FixedSurcharge: 20,
				AvailabilityZones: []string{"A", "B"},
				CutoffTime:        &cutoff,
				SortOrder:         20, IsActive: true,
			},
		},
	}
}

func newTestService(store ConfigStore) *ShippingQuoteService {
	return &ShippingQuoteService{store: store, dimDivisor: DefaultDimDivisor, defaultCourier: DefaultCourier}
}

func oneKgCart() []models.QuoteItem {
	return []models.QuoteItem{{Weight: 1.0, Quantity: 1}}
}

func TestQuoteHappyPath(t *testing.T) {
	svc := newTestService(fixtureStore())

	req := models.QuoteRequest{
		DeliveryPincode: "560001",
		Items:           oneKgCart(),
		OrderValue:      1250,
		OrderDate:       "2025-06-02",
		OrderTime:       "13:30",
	}

	result, err := svc.Quote(context.Background(), req, time.Now())
	require.NoError(t, err)

	assert.True(t, result.Deliverable)
	assert.Equal(t, "B", result.Zone)
	assert.Equal(t, 1.0, result.ChargeableWeight)
	// 55 slab rate x 1.2 zone multiplier
	assert.Equal(t, 66.0, result.BaseShippingCost)

	require.Len(t, result.AvailableOptions, 2)
	assert.Equal(t, "standard", result.AvailableOptions[0].Code)
	assert.Equal(t, 66.0, result.AvailableOptions[0].Cost.TotalCost)
	assert.Equal(t, "express", result.AvailableOptions[1].Code)
	assert.Equal(t, 119.0, result.AvailableOptions[1].Cost.TotalCost)
	assert.True(t, result.AvailableOptions[0].CodAvailable)

	// Zone baseline raises the standard window floor to 2 days
	assert.Equal(t, 2, result.AvailableOptions[0].DeliveryWindow.MinDays)
}

func TestQuoteIsDeterministic(t *testing.T) {
	svc := newTestService(fixtureStore())

	req := models.QuoteRequest{
		DeliveryPincode: "560001",
		Items:           oneKgCart(),
		OrderValue:      1250,
		OrderDate:       "2025-06-02",
		OrderTime:       "13:30",
	}

	first, err := svc.Quote(context.Background(), req, time.Now())
	require.NoError(t, err)
	second, err := svc.Quote(context.Background(), req, time.Now())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestQuoteAfterCutoffDropsExpress(t *testing.T) {
	svc := newTestService(fixtureStore())

	req := models.QuoteRequest{
		DeliveryPincode: "560001",
		Items:           oneKgCart(),
		OrderDate:       "2025-06-02",
		OrderTime:       "15:30",
	}

	result, err := svc.Quote(context.Background(), req, time.Now())
	require.NoError(t, err)
	require.Len(t, result.AvailableOptions, 1)
	assert.Equal(t, "standard", result.AvailableOptions[0].Code)
}

func TestQuoteUnknownPincodeNotDeliverable(t *testing.T) {
	svc := newTestService(fixtureStore())

	req := models.QuoteRequest{DeliveryPincode: "999999", Items: oneKgCart()}

	result, err := svc.Quote(context.Background(), req, time.Now())
	require.NoError(t, err)
	assert.False(t, result.Deliverable)
	assert.Contains(t, result.FailureReason, "not serviceable")
	assert.Empty(t, result.AvailableOptions)
}

func TestQuoteMissingRateNotDeliverable(t *testing.T) {
	store := fixtureStore()
	delete(store.rates, rateKey("standard", 2, "B"))
	svc := newTestService(store)

	req := models.QuoteRequest{DeliveryPincode: "560001", Items: oneKgCart()}

	result, err := svc.Quote(context.Background(), req, time.Now())
	require.NoError(t, err)
	assert.False(t, result.Deliverable)
	assert.Contains(t, result.FailureReason, "no rate configured")
}

func TestQuoteNoSlabsNotDeliverable(t *testing.T) {
	store := fixtureStore()
	store.slabs = map[string][]models.WeightSlab{}
	svc := newTestService(store)

	req := models.QuoteRequest{DeliveryPincode: "560001", Items: oneKgCart()}

	result, err := svc.Quote(context.Background(), req, time.Now())
	require.NoError(t, err)
	assert.False(t, result.Deliverable)
	assert.Contains(t, result.FailureReason, "no weight slabs configured")
}

func TestQuoteOverageBeyondTopSlab(t *testing.T) {
	svc := newTestService(fixtureStore())

	req := models.QuoteRequest{
		DeliveryPincode: "560001",
		Items:           []models.QuoteItem{{Weight: 7.0}},
		OrderDate:       "2025-06-02",
		OrderTime:       "10:00",
	}

	result, err := svc.Quote(context.Background(), req, time.Now())
	require.NoError(t, err)
	require.True(t, result.Deliverable)
	// (120 + 2x40) x 1.2
	assert.Equal(t, 240.0, result.BaseShippingCost)
}

func TestQuoteOverageWithoutRateNotDeliverable(t *testing.T) {
	store := fixtureStore()
	store.slabs["standard"][3].OveragePerKg = 0
	svc := newTestService(store)

	req := models.QuoteRequest{
		DeliveryPincode: "560001",
		Items:           []models.QuoteItem{{Weight: 7.0}},
	}

	result, err := svc.Quote(context.Background(), req, time.Now())
	require.NoError(t, err)
	assert.False(t, result.Deliverable)
	assert.Contains(t, result.FailureReason, "exceeds the configured slabs")
}

func TestQuoteRemoteZoneConditionChain(t *testing.T) {
	store := fixtureStore()
	store.options = append(store.options, models.DeliveryOption{
		ID: 3, Code: "same-day", Name: "Same Day",
		PriceMultiplier: 2.0, IsActive: true, SortOrder: 5,
		AvailabilityConditions: []models.AvailabilityCondition{{Type: models.ConditionExcludeRemote}},
	})
	svc := newTestService(store)

	req := models.QuoteRequest{
		DeliveryPincode: "831001",
		Items:           oneKgCart(),
		OrderDate:       "2025-06-02",
		OrderTime:       "10:00",
	}

	result, err := svc.Quote(context.Background(), req, time.Now())
	require.NoError(t, err)
	require.True(t, result.Deliverable)
	// express is zone-restricted to A/B, same-day excludes remote
	require.Len(t, result.AvailableOptions, 1)
	assert.Equal(t, "standard", result.AvailableOptions[0].Code)
	assert.False(t, result.AvailableOptions[0].CodAvailable)
}

func TestQuoteValidationFailures(t *testing.T) {
	svc := newTestService(fixtureStore())

	cases := []struct {
		name string
		req  models.QuoteRequest
	}{
		{"short pincode", models.QuoteRequest{DeliveryPincode: "5600", Items: oneKgCart()}},
		{"alpha pincode", models.QuoteRequest{DeliveryPincode: "56000a", Items: oneKgCart()}},
		{"bad pickup pincode", models.QuoteRequest{DeliveryPincode: "560001", PickupPincode: "11", Items: oneKgCart()}},
		{"negative order value", models.QuoteRequest{DeliveryPincode: "560001", OrderValue: -1, Items: oneKgCart()}},
		{"empty cart", models.QuoteRequest{DeliveryPincode: "560001"}},
		{"bad order date", models.QuoteRequest{DeliveryPincode: "560001", Items: oneKgCart(), OrderDate: "02-06-2025"}},
		{"bad order time", models.QuoteRequest{DeliveryPincode: "560001", Items: oneKgCart(), OrderTime: "2pm"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Quote(context.Background(), tc.req, time.Now())
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestQuoteNoActiveOptionsNotDeliverable(t *testing.T) {
	store := fixtureStore()
	store.options = nil
	svc := newTestService(store)

	req := models.QuoteRequest{DeliveryPincode: "560001", Items: oneKgCart()}

	result, err := svc.Quote(context.Background(), req, time.Now())
	require.NoError(t, err)
	assert.False(t, result.Deliverable)
	assert.Equal(t, ErrNoOptionsAvailable.Error(), result.FailureReason)
	// Resolution still got far enough to price the shipment
	assert.Equal(t, "B", result.Zone)
	assert.Equal(t, 66.0, result.BaseShippingCost)
}

func TestQuoteCourierNameIsCaseInsensitive(t *testing.T) {
	svc := newTestService(fixtureStore())

	req := models.QuoteRequest{
		DeliveryPincode: "560001",
		Items:           oneKgCart(),
		Courier:         "  Standard ",
	}

	result, err := svc.Quote(context.Background(), req, time.Now())
	require.NoError(t, err)
	assert.True(t, result.Deliverable)
}
