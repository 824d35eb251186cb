package services

import (
	"context"
	"sync"
	"testing"

	"backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cachedFixture() (*CachedConfigStore, *fakeConfigStore) {
	backing := fixtureStore()
	return NewCachedConfigStore(backing), backing
}

func TestCacheServesRepeatReadsFromMemory(t *testing.T) {
	cache, backing := cachedFixture()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		entry, err := cache.GetZoneEntry(ctx, "560001")
		require.NoError(t, err)
		assert.Equal(t, "B", entry.Zone)
	}
	assert.Equal(t, 1, backing.zoneLoads)

	for i := 0; i < 5; i++ {
		slabs, err := cache.GetWeightSlabs(ctx, "standard")
		require.NoError(t, err)
		assert.Len(t, slabs, 4)
	}
	assert.Equal(t, 1, backing.slabLoads)

	for i := 0; i < 5; i++ {
		price, err := cache.GetZoneRate(ctx, "standard", 2, "B")
		require.NoError(t, err)
		assert.Equal(t, 55.0, price)
	}
	assert.Equal(t, 1, backing.rateLoads)

	for i := 0; i < 5; i++ {
		opts, err := cache.GetActiveDeliveryOptions(ctx)
		require.NoError(t, err)
		assert.Len(t, opts, 2)
	}
	assert.Equal(t, 1, backing.optLoads)
}

func TestCacheMissesAreNotCached(t *testing.T) {
	cache, backing := cachedFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := cache.GetZoneEntry(ctx, "999999")
		require.ErrorIs(t, err, ErrZoneNotFound)
	}
	assert.Equal(t, 3, backing.zoneLoads)
}

func TestInvalidateZonesForcesReload(t *testing.T) {
	cache, backing := cachedFixture()
	ctx := context.Background()

	_, err := cache.GetZoneEntry(ctx, "560001")
	require.NoError(t, err)

	// Simulate an admin edit landing in the backing store
	updated := backing.zones["560001"]
	updated.Zone = "C"
	backing.zones["560001"] = updated

	entry, err := cache.GetZoneEntry(ctx, "560001")
	require.NoError(t, err)
	assert.Equal(t, "B", entry.Zone, "edit must not be visible until invalidation")

	cache.InvalidateZones()

	entry, err = cache.GetZoneEntry(ctx, "560001")
	require.NoError(t, err)
	assert.Equal(t, "C", entry.Zone)
	assert.Equal(t, 2, backing.zoneLoads)
}

func TestInvalidationTouchesOnlyItsPartition(t *testing.T) {
	cache, backing := cachedFixture()
	ctx := context.Background()

	_, err := cache.GetZoneEntry(ctx, "560001")
	require.NoError(t, err)
	_, err = cache.GetWeightSlabs(ctx, "standard")
	require.NoError(t, err)
	_, err = cache.GetZoneRate(ctx, "standard", 2, "B")
	require.NoError(t, err)
	_, err = cache.GetActiveDeliveryOptions(ctx)
	require.NoError(t, err)

	cache.InvalidateZones()

	_, err = cache.GetWeightSlabs(ctx, "standard")
	require.NoError(t, err)
	_, err = cache.GetZoneRate(ctx, "standard", 2, "B")
	require.NoError(t, err)
	_, err = cache.GetActiveDeliveryOptions(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, backing.slabLoads)
	assert.Equal(t, 1, backing.rateLoads)
	assert.Equal(t, 1, backing.optLoads)
}

// stallingStore pauses its first zone and option loads after reading the
// backing row, so a test can invalidate the cache mid-load.
type stallingStore struct {
	*fakeConfigStore

	mu          sync.Mutex
	zoneStalled bool
	optStalled  bool
	zoneLoading chan struct{}
	optLoading  chan struct{}
	resume      chan struct{}
}

func newStallingStore(backing *fakeConfigStore) *stallingStore {
	return &stallingStore{
		fakeConfigStore: backing,
		zoneLoading:     make(chan struct{}),
		optLoading:      make(chan struct{}),
		resume:          make(chan struct{}),
	}
}

func (s *stallingStore) GetZoneEntry(ctx context.Context, pincode string) (*models.ZoneEntry, error) {
	entry, err := s.fakeConfigStore.GetZoneEntry(ctx, pincode)
	s.mu.Lock()
	first := !s.zoneStalled
	s.zoneStalled = true
	s.mu.Unlock()
	if first {
		s.zoneLoading <- struct{}{}
		<-s.resume
	}
	return entry, err
}

func (s *stallingStore) GetActiveDeliveryOptions(ctx context.Context) ([]models.DeliveryOption, error) {
	opts, err := s.fakeConfigStore.GetActiveDeliveryOptions(ctx)
	s.mu.Lock()
	first := !s.optStalled
	s.optStalled = true
	s.mu.Unlock()
	if first {
		s.optLoading <- struct{}{}
		<-s.resume
	}
	return opts, err
}

func TestLoadStraddlingInvalidationIsNotCached(t *testing.T) {
	backing := fixtureStore()
	stalling := newStallingStore(backing)
	cache := NewCachedConfigStore(stalling)
	ctx := context.Background()

	loaded := make(chan struct{})
	go func() {
		defer close(loaded)
		// Holds the pre-write row while the admin edit lands below
		entry, err := cache.GetZoneEntry(ctx, "560001")
		assert.NoError(t, err)
		assert.Equal(t, "B", entry.Zone)
	}()

	<-stalling.zoneLoading
	updated := backing.zones["560001"]
	updated.Zone = "C"
	backing.zones["560001"] = updated
	cache.InvalidateZones()
	close(stalling.resume)
	<-loaded

	entry, err := cache.GetZoneEntry(ctx, "560001")
	require.NoError(t, err)
	assert.Equal(t, "C", entry.Zone, "next read after invalidation must see the new zone")
}

func TestOptionLoadStraddlingInvalidationIsNotCached(t *testing.T) {
	backing := fixtureStore()
	stalling := newStallingStore(backing)
	cache := NewCachedConfigStore(stalling)
	ctx := context.Background()

	loaded := make(chan struct{})
	go func() {
		defer close(loaded)
		opts, err := cache.GetActiveDeliveryOptions(ctx)
		assert.NoError(t, err)
		assert.Len(t, opts, 2)
	}()

	<-stalling.optLoading
	backing.options = backing.options[:1]
	cache.InvalidateOptions()
	close(stalling.resume)
	<-loaded

	opts, err := cache.GetActiveDeliveryOptions(ctx)
	require.NoError(t, err)
	assert.Len(t, opts, 1, "next read after invalidation must see the current option set")
}

func TestGenerationsCountPerPartition(t *testing.T) {
	cache, _ := cachedFixture()

	gens := cache.Generations()
	assert.Equal(t, map[string]uint64{
		"zones":            0,
		"weight_slabs":     0,
		"zone_rates":       0,
		"delivery_options": 0,
	}, gens)

	cache.InvalidateZones()
	cache.InvalidateZones()
	cache.InvalidateSlabs()
	cache.InvalidateRates()
	cache.InvalidateOptions()

	gens = cache.Generations()
	assert.Equal(t, uint64(2), gens["zones"])
	assert.Equal(t, uint64(1), gens["weight_slabs"])
	assert.Equal(t, uint64(1), gens["zone_rates"])
	assert.Equal(t, uint64(1), gens["delivery_options"])
}

func TestCachedEntriesAreCopies(t *testing.T) {
	cache, _ := cachedFixture()
	ctx := context.Background()

	entry, err := cache.GetZoneEntry(ctx, "560001")
	require.NoError(t, err)
	entry.Zone = "mutated"

	again, err := cache.GetZoneEntry(ctx, "560001")
	require.NoError(t, err)
	assert.Equal(t, "B", again.Zone)

	slabs, err := cache.GetWeightSlabs(ctx, "standard")
	require.NoError(t, err)
	slabs[0].BaseWeight = 99

	again2, err := cache.GetWeightSlabs(ctx, "standard")
	require.NoError(t, err)
	assert.Equal(t, 0.5, again2[0].BaseWeight)
}
