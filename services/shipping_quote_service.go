package services

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"backend/models"
)

var pincodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// DefaultCourier is used when a quote request does not name a courier
const DefaultCourier = "standard"

// ShippingQuoteService composes zone resolution, chargeable weight,
// slab/rate pricing and option eligibility into one quote per request.
// Every call is a pure function of current configuration plus input;
// nothing is persisted.
type ShippingQuoteService struct {
	store          ConfigStore
	dimDivisor     float64
	defaultCourier string
}

// NewShippingQuoteService builds a quote service over the given store
func NewShippingQuoteService(store ConfigStore) *ShippingQuoteService {
	courier := os.Getenv("DEFAULT_COURIER")
	if courier == "" {
		courier = DefaultCourier
	}
	return &ShippingQuoteService{
		store:          store,
		dimDivisor:     DimDivisorFromEnv(),
		defaultCourier: courier,
	}
}

func notDeliverable(reason string) models.QuoteResult {
	return models.QuoteResult{
		AvailableOptions: []models.OptionResult{},
		Deliverable:      false,
		FailureReason:    reason,
	}
}

// orderedAt resolves the request's order date/time against the server
// clock. Date and time may be supplied independently.
func orderedAt(req models.QuoteRequest, now time.Time) (time.Time, error) {
	result := now
	if req.OrderDate != "" {
		d, err := time.ParseInLocation("2006-01-02", req.OrderDate, now.Location())
		if err != nil {
			return time.Time{}, newValidationError("order_date", "expected YYYY-MM-DD")
		}
		result = time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), 0, 0, now.Location())
	}
	if req.OrderTime != "" {
		mins, err := ParseClockTime(req.OrderTime)
		if err != nil {
			return time.Time{}, newValidationError("order_time", "expected HH:MM")
		}
		result = time.Date(result.Year(), result.Month(), result.Day(), mins/60, mins%60, 0, 0, now.Location())
	}
	return result, nil
}

// Quote resolves a full shipping quote for a cart. Validation failures
// return a ValidationError; configuration gaps return a structured
// non-deliverable result with a nil error so checkout degrades gracefully.
func (s *ShippingQuoteService) Quote(ctx context.Context, req models.QuoteRequest, now time.Time) (models.QuoteResult, error) {
	if !pincodePattern.MatchString(req.DeliveryPincode) {
		return models.QuoteResult{}, newValidationError("delivery_pincode", "must be a 6-digit pincode")
	}
	if req.PickupPincode != "" && !pincodePattern.MatchString(req.PickupPincode) {
		return models.QuoteResult{}, newValidationError("pickup_pincode", "must be a 6-digit pincode")
	}
	if req.OrderValue < 0 {
		return models.QuoteResult{}, newValidationError("order_value", "must not be negative")
	}

	chargeable, err := ChargeableWeight(req.Items, s.dimDivisor)
	if err != nil {
		return models.QuoteResult{}, err
	}

	placedAt, err := orderedAt(req, now)
	if err != nil {
		return models.QuoteResult{}, err
	}

	zone, err := s.store.GetZoneEntry(ctx, req.DeliveryPincode)
	if err != nil {
		if IsConfigurationMissing(err) {
			return notDeliverable(fmt.Sprintf("pincode %s is not serviceable", req.DeliveryPincode)), nil
		}
		return models.QuoteResult{}, err
	}

	courier := strings.ToLower(strings.TrimSpace(req.Courier))
	if courier == "" {
		courier = s.defaultCourier
	}

	slabs, err := s.store.GetWeightSlabs(ctx, courier)
	if err != nil {
		return models.QuoteResult{}, err
	}
	slab, overageKg, err := ResolveSlab(slabs, chargeable)
	if err != nil {
		if IsConfigurationMissing(err) {
			return notDeliverable(fmt.Sprintf("no weight slabs configured for courier %s", courier)), nil
		}
		return models.QuoteResult{}, err
	}

	rate, err := s.store.GetZoneRate(ctx, courier, slab.ID, zone.Zone)
	if err != nil {
		if IsConfigurationMissing(err) {
			return notDeliverable(fmt.Sprintf("no rate configured for courier %s in zone %s", courier, zone.Zone)), nil
		}
		return models.QuoteResult{}, err
	}

	basePrice, err := SlabBasePrice(rate, slab, overageKg)
	if err != nil {
		if IsConfigurationMissing(err) {
			return notDeliverable(fmt.Sprintf("shipment weight %.3f kg exceeds the configured slabs for courier %s", chargeable, courier)), nil
		}
		return models.QuoteResult{}, err
	}

	baseCost := round2(basePrice * zone.ZoneMultiplier)

	options, err := s.store.GetActiveDeliveryOptions(ctx)
	if err != nil {
		return models.QuoteResult{}, err
	}

	quoteCtx := QuoteContext{
		Zone:       zone.Zone,
		OrderValue: req.OrderValue,
		IsMetro:    zone.IsMetro,
		IsRemote:   zone.IsRemote,
		CodZone:    zone.CodAvailable,
		OrderedAt:  placedAt,
	}
	results := AvailableOptions(options, *zone, baseCost, quoteCtx)

	quote := models.QuoteResult{
		Zone:             zone.Zone,
		ChargeableWeight: chargeable,
		BaseShippingCost: baseCost,
		AvailableOptions: results,
		Deliverable:      len(results) > 0,
	}
	if len(results) == 0 {
		quote.FailureReason = ErrNoOptionsAvailable.Error()
	}
	return quote, nil
}

// ---------- package-level engine ----------

var (
	engineStore *CachedConfigStore
	quoteEngine *ShippingQuoteService
)

// InitQuoteEngine wires the engine over a backing store, wrapped in the
// partitioned cache. Called once from main after the database is up.
func InitQuoteEngine(store ConfigStore) *ShippingQuoteService {
	engineStore = NewCachedConfigStore(store)
	quoteEngine = NewShippingQuoteService(engineStore)
	return quoteEngine
}

// QuoteEngine returns the process-wide quote service
func QuoteEngine() *ShippingQuoteService {
	return quoteEngine
}

// ConfigCache returns the shared cache for stats reporting
func ConfigCache() *CachedConfigStore {
	return engineStore
}

// Targeted invalidation entry points for the admin write handlers. Each
// touches exactly one partition.
func InvalidateZoneCache() {
	if engineStore != nil {
		engineStore.InvalidateZones()
	}
}

func InvalidateSlabCache() {
	if engineStore != nil {
		engineStore.InvalidateSlabs()
	}
}

func InvalidateRateCache() {
	if engineStore != nil {
		engineStore.InvalidateRates()
	}
}

func InvalidateOptionCache() {
	if engineStore != nil {
		engineStore.InvalidateOptions()
	}
}
