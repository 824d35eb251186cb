package services

import (
	"math"
	"os"
	"strconv"

	"backend/models"
)

// DefaultDimDivisor converts cm³ to volumetric kg. Overridable via the
// DIM_DIVISOR environment variable.
const DefaultDimDivisor = 5000.0

// ---------- Utility ----------
func round2(x float64) float64 { return math.Round(x*100) / 100.0 }
func round3(x float64) float64 { return math.Round(x*1000) / 1000.0 }

// DimDivisorFromEnv returns the configured dimensional divisor, falling
// back to the industry-standard 5000 cm³/kg.
func DimDivisorFromEnv() float64 {
	if v := os.Getenv("DIM_DIVISOR"); v != "" {
		if d, err := strconv.ParseFloat(v, 64); err == nil && d > 0 {
			return d
		}
	}
	return DefaultDimDivisor
}

// ChargeableWeight converts cart items into one billable weight: per item
// the greater of actual and volumetric weight, times quantity, summed.
// Items without complete dimensions bill on actual weight alone. A missing
// quantity defaults to 1.
func ChargeableWeight(items []models.QuoteItem, dimDivisor float64) (float64, error) {
	if len(items) == 0 {
		return 0, newValidationError("items", "at least one item is required")
	}
	if dimDivisor <= 0 {
		dimDivisor = DefaultDimDivisor
	}

	total := 0.0
	for _, item := range items {
		if item.Weight <= 0 {
			return 0, newValidationError("items", "item weight must be greater than zero")
		}
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			return 0, newValidationError("items", "item quantity must be at least 1")
		}

		itemWeight := item.Weight
		if d := item.Dimensions; d != nil {
			if d.Length < 0 || d.Width < 0 || d.Height < 0 {
				return 0, newValidationError("items", "item dimensions must not be negative")
			}
			if d.Length > 0 && d.Width > 0 && d.Height > 0 {
				volumetric := (d.Length * d.Width * d.Height) / dimDivisor
				itemWeight = math.Max(item.Weight, volumetric)
			}
		}
		total += itemWeight * float64(qty)
	}

	return round3(total), nil
}
