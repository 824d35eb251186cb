package services

import (
	"context"

	"backend/models"
)

// ConfigStore supplies the read-only configuration snapshot the quote
// engine computes against. The SQL implementation lives in storage; quote
// requests go through the cached wrapper in config_cache.go.
type ConfigStore interface {
	// GetZoneEntry resolves a pincode by exact match. Returns
	// ErrZoneNotFound when the pincode is absent.
	GetZoneEntry(ctx context.Context, pincode string) (*models.ZoneEntry, error)

	// GetWeightSlabs returns a courier's slab ladder in ascending
	// base_weight order. Empty slice when the courier has none.
	GetWeightSlabs(ctx context.Context, courier string) ([]models.WeightSlab, error)

	// GetZoneRate looks up one cell of the rate matrix. Returns
	// ErrRateNotFound when the triple has no configured price.
	GetZoneRate(ctx context.Context, courier string, weightSlabID uint, zone string) (float64, error)

	// GetActiveDeliveryOptions returns every active option.
	GetActiveDeliveryOptions(ctx context.Context) ([]models.DeliveryOption, error)
}
