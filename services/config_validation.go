package services

import (
	"strings"

	"backend/models"
)

// ValidZones is the closed set of pricing zones
var ValidZones = []string{"A", "B", "C", "D", "E"}

// IsValidZone reports whether code is one of the configured pricing zones
func IsValidZone(code string) bool {
	for _, z := range ValidZones {
		if z == strings.ToUpper(code) {
			return true
		}
	}
	return false
}

// IsValidPincode reports whether s is a well-formed 6-digit pincode
func IsValidPincode(s string) bool {
	return pincodePattern.MatchString(s)
}

var knownConditions = map[string]bool{
	models.ConditionMetroOnly:     true,
	models.ConditionExcludeMetro:  true,
	models.ConditionRemoteOnly:    true,
	models.ConditionExcludeRemote: true,
	models.ConditionCodRequired:   true,
}

// ValidateZoneEntry rejects malformed zone rows at configuration-write
// time so they never reach quote time.
func ValidateZoneEntry(entry models.ZoneEntry) error {
	if !IsValidPincode(entry.Pincode) {
		return newValidationError("pincode", "must be a 6-digit pincode")
	}
	if !IsValidZone(entry.Zone) {
		return newValidationError("zone", "must be one of A, B, C, D, E")
	}
	if entry.ExpectedDeliveryDays < 1 {
		return newValidationError("expected_delivery_days", "must be at least 1")
	}
	if entry.ZoneMultiplier <= 0 {
		return newValidationError("zone_multiplier", "must be greater than zero")
	}
	return nil
}

// ValidateWeightSlab rejects malformed slab rows
func ValidateWeightSlab(slab models.WeightSlab) error {
	if strings.TrimSpace(slab.CourierName) == "" {
		return newValidationError("courier_name", "must not be empty")
	}
	if slab.BaseWeight <= 0 {
		return newValidationError("base_weight", "must be greater than zero")
	}
	if slab.OveragePerKg < 0 {
		return newValidationError("overage_per_kg", "must not be negative")
	}
	return nil
}

// ValidateZoneRate rejects malformed rate matrix rows
func ValidateZoneRate(rate models.ZoneRate) error {
	if strings.TrimSpace(rate.CourierName) == "" {
		return newValidationError("courier_name", "must not be empty")
	}
	if rate.WeightSlabID == 0 {
		return newValidationError("weight_slab_id", "must reference a weight slab")
	}
	if !IsValidZone(rate.Zone) {
		return newValidationError("zone", "must be one of A, B, C, D, E")
	}
	if rate.BasePrice < 0 {
		return newValidationError("base_price", "must not be negative")
	}
	return nil
}

// ValidateDeliveryOption rejects malformed option rows, including any
// availability condition outside the closed variant set.
func ValidateDeliveryOption(opt models.DeliveryOption) error {
	if strings.TrimSpace(opt.Code) == "" {
		return newValidationError("code", "must not be empty")
	}
	if strings.TrimSpace(opt.Name) == "" {
		return newValidationError("name", "must not be empty")
	}
	if opt.DeliveryDaysMin < 0 || opt.DeliveryDaysMax < opt.DeliveryDaysMin {
		return newValidationError("delivery_days", "max must be at least min, both non-negative")
	}
	if opt.PriceMultiplier <= 0 {
		return newValidationError("price_multiplier", "must be greater than zero")
	}
	if opt.FixedSurcharge < 0 {
		return newValidationError("fixed_surcharge", "must not be negative")
	}
	for _, z := range opt.AvailabilityZones {
		if !IsValidZone(z) {
			return newValidationError("availability_zones", "zone codes must be one of A, B, C, D, E")
		}
	}
	for _, cond := range opt.AvailabilityConditions {
		if !knownConditions[cond.Type] {
			return newValidationError("availability_conditions", "unknown condition type: "+cond.Type)
		}
	}
	if opt.CutoffTime != nil && *opt.CutoffTime != "" {
		if _, err := ParseClockTime(*opt.CutoffTime); err != nil {
			return newValidationError("cutoff_time", "expected HH:MM")
		}
	}
	for _, d := range opt.RestrictedDays {
		if d < 0 || d > 6 {
			return newValidationError("restricted_days", "weekdays must be 0 (Sunday) through 6 (Saturday)")
		}
	}
	if opt.MinOrderValue != nil && *opt.MinOrderValue < 0 {
		return newValidationError("min_order_value", "must not be negative")
	}
	return nil
}
