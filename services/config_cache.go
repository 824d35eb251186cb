package services

import (
	"context"
	"fmt"
	"sync"

	"backend/models"
)

// CachedConfigStore serves quote-time reads from per-entity cache
// partitions over an underlying ConfigStore. Each partition carries its
// own generation counter; an admin write invalidates exactly one
// partition, so a zone import never evicts slabs, rates or options.
type CachedConfigStore struct {
	store ConfigStore

	zoneMu  sync.RWMutex
	zones   map[string]models.ZoneEntry
	zoneGen uint64

	slabMu  sync.RWMutex
	slabs   map[string][]models.WeightSlab
	slabGen uint64

	rateMu  sync.RWMutex
	rates   map[string]float64
	rateGen uint64

	optMu     sync.RWMutex
	options   []models.DeliveryOption
	optLoaded bool
	optGen    uint64
}

// NewCachedConfigStore wraps store with empty cache partitions
func NewCachedConfigStore(store ConfigStore) *CachedConfigStore {
	return &CachedConfigStore{
		store: store,
		zones: make(map[string]models.ZoneEntry),
		slabs: make(map[string][]models.WeightSlab),
		rates: make(map[string]float64),
	}
}

func (c *CachedConfigStore) GetZoneEntry(ctx context.Context, pincode string) (*models.ZoneEntry, error) {
	c.zoneMu.RLock()
	entry, ok := c.zones[pincode]
	gen := c.zoneGen
	c.zoneMu.RUnlock()
	if ok {
		return &entry, nil
	}

	fresh, err := c.store.GetZoneEntry(ctx, pincode)
	if err != nil {
		return nil, err
	}

	// A load that straddled an invalidation may carry the pre-write row;
	// discard the fill so the next request reloads.
	c.zoneMu.Lock()
	if c.zoneGen == gen {
		c.zones[pincode] = *fresh
	}
	c.zoneMu.Unlock()

	result := *fresh
	return &result, nil
}

func (c *CachedConfigStore) GetWeightSlabs(ctx context.Context, courier string) ([]models.WeightSlab, error) {
	c.slabMu.RLock()
	ladder, ok := c.slabs[courier]
	gen := c.slabGen
	c.slabMu.RUnlock()
	if ok {
		return append([]models.WeightSlab{}, ladder...), nil
	}

	fresh, err := c.store.GetWeightSlabs(ctx, courier)
	if err != nil {
		return nil, err
	}

	c.slabMu.Lock()
	if c.slabGen == gen {
		c.slabs[courier] = fresh
	}
	c.slabMu.Unlock()

	return append([]models.WeightSlab{}, fresh...), nil
}

func rateKey(courier string, weightSlabID uint, zone string) string {
	return fmt.Sprintf("%s|%d|%s", courier, weightSlabID, zone)
}

func (c *CachedConfigStore) GetZoneRate(ctx context.Context, courier string, weightSlabID uint, zone string) (float64, error) {
	key := rateKey(courier, weightSlabID, zone)

	c.rateMu.RLock()
	price, ok := c.rates[key]
	gen := c.rateGen
	c.rateMu.RUnlock()
	if ok {
		return price, nil
	}

	fresh, err := c.store.GetZoneRate(ctx, courier, weightSlabID, zone)
	if err != nil {
		return 0, err
	}

	c.rateMu.Lock()
	if c.rateGen == gen {
		c.rates[key] = fresh
	}
	c.rateMu.Unlock()

	return fresh, nil
}

func (c *CachedConfigStore) GetActiveDeliveryOptions(ctx context.Context) ([]models.DeliveryOption, error) {
	c.optMu.RLock()
	if c.optLoaded {
		opts := append([]models.DeliveryOption{}, c.options...)
		c.optMu.RUnlock()
		return opts, nil
	}
	gen := c.optGen
	c.optMu.RUnlock()

	fresh, err := c.store.GetActiveDeliveryOptions(ctx)
	if err != nil {
		return nil, err
	}

	c.optMu.Lock()
	if c.optGen == gen {
		c.options = fresh
		c.optLoaded = true
	}
	c.optMu.Unlock()

	return append([]models.DeliveryOption{}, fresh...), nil
}

// InvalidateZones drops the pincode partition after a zone write or import
func (c *CachedConfigStore) InvalidateZones() {
	c.zoneMu.Lock()
	c.zones = make(map[string]models.ZoneEntry)
	c.zoneGen++
	c.zoneMu.Unlock()
}

// InvalidateSlabs drops the slab ladders after a weight slab write
func (c *CachedConfigStore) InvalidateSlabs() {
	c.slabMu.Lock()
	c.slabs = make(map[string][]models.WeightSlab)
	c.slabGen++
	c.slabMu.Unlock()
}

// InvalidateRates drops the rate matrix partition after a rate write
func (c *CachedConfigStore) InvalidateRates() {
	c.rateMu.Lock()
	c.rates = make(map[string]float64)
	c.rateGen++
	c.rateMu.Unlock()
}

// InvalidateOptions drops the delivery option partition after an option write
func (c *CachedConfigStore) InvalidateOptions() {
	c.optMu.Lock()
	c.options = nil
	c.optLoaded = false
	c.optGen++
	c.optMu.Unlock()
}

// Generations reports the per-partition invalidation counters, keyed by
// partition name. Logged by the cache stats cron job.
func (c *CachedConfigStore) Generations() map[string]uint64 {
	gens := make(map[string]uint64, 4)
	c.zoneMu.RLock()
	gens["zones"] = c.zoneGen
	c.zoneMu.RUnlock()
	c.slabMu.RLock()
	gens["weight_slabs"] = c.slabGen
	c.slabMu.RUnlock()
	c.rateMu.RLock()
	gens["zone_rates"] = c.rateGen
	c.rateMu.RUnlock()
	c.optMu.RLock()
	gens["delivery_options"] = c.optGen
	c.optMu.RUnlock()
	return gens
}
