package services

import (
	"math"
	"sort"

	"backend/models"
)

// ResolveSlab picks the smallest slab whose base_weight covers the
// chargeable weight (ceiling selection). When the weight exceeds every
// slab it returns the top slab plus the excess in kg; the caller prices
// that excess through SlabBasePrice.
func ResolveSlab(slabs []models.WeightSlab, chargeableWeight float64) (models.WeightSlab, float64, error) {
	if len(slabs) == 0 {
		return models.WeightSlab{}, 0, ErrNoSlabsConfigured
	}
	if chargeableWeight <= 0 {
		return models.WeightSlab{}, 0, newValidationError("chargeable_weight", "must be greater than zero")
	}

	ladder := append([]models.WeightSlab{}, slabs...)
	sort.SliceStable(ladder, func(i, j int) bool {
		return ladder[i].BaseWeight < ladder[j].BaseWeight
	})

	for _, slab := range ladder {
		if slab.BaseWeight >= chargeableWeight-1e-9 {
			return slab, 0, nil
		}
	}

	top := ladder[len(ladder)-1]
	return top, chargeableWeight - top.BaseWeight, nil
}

// SlabBasePrice prices a resolved slab. Overage beyond the top slab is
// linear: the top slab's rate plus overage_per_kg for each started kg of
// excess. A positive excess without a configured overage rate is a
// configuration gap, not a guessable price.
func SlabBasePrice(rate float64, slab models.WeightSlab, overageKg float64) (float64, error) {
	if overageKg <= 1e-9 {
		return round2(rate), nil
	}
	if slab.OveragePerKg <= 0 {
		return 0, ErrOverageNotConfigured
	}
	excessKg := math.Ceil(overageKg - 1e-9)
	return round2(rate + excessKg*slab.OveragePerKg), nil
}
