package repository

import (
	"backend/models"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GenerateSessionID returns a new opaque session identifier
func GenerateSessionID() string {
	return uuid.NewString()
}

var titleCaser = cases.Title(language.English)

// TitleCase normalizes free-text location names such as city and state.
// Import files arrive in mixed casing ("BENGALURU", "bengaluru").
func TitleCase(s string) string {
	return titleCaser.String(strings.TrimSpace(s))
}

// NormalizePincode strips surrounding whitespace from a pincode value
func NormalizePincode(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeCourier lowercases a courier name so rate lookups are
// case-insensitive across admin input and quote requests
func NormalizeCourier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FetchCouriers returns the distinct courier names that have at least one
// weight slab configured
func FetchCouriers(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT DISTINCT courier_name FROM weight_slabs
		WHERE deleted_at IS NULL
		ORDER BY courier_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch couriers: %w", err)
	}
	defer rows.Close()

	var couriers []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan courier name: %w", err)
		}
		couriers = append(couriers, name)
	}
	return couriers, rows.Err()
}

// FetchSlabsForCourier returns a courier's slabs in ascending weight order
func FetchSlabsForCourier(db *sql.DB, courier string) ([]models.WeightSlab, error) {
	rows, err := db.Query(`
		SELECT id, courier_name, base_weight, overage_per_kg
		FROM weight_slabs
		WHERE courier_name = $1 AND deleted_at IS NULL
		ORDER BY base_weight ASC
	`, courier)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slabs for courier %s: %w", courier, err)
	}
	defer rows.Close()

	var slabs []models.WeightSlab
	for rows.Next() {
		var slab models.WeightSlab
		if err := rows.Scan(&slab.ID, &slab.CourierName, &slab.BaseWeight, &slab.OveragePerKg); err != nil {
			return nil, fmt.Errorf("failed to scan weight slab: %w", err)
		}
		slabs = append(slabs, slab)
	}
	return slabs, rows.Err()
}

// FetchRateMatrix returns a courier's zone rates keyed by slab ID and zone.
// Used to render the rate card: matrix[slabID][zone] = base price.
func FetchRateMatrix(db *sql.DB, courier string) (map[uint]map[string]float64, error) {
	rows, err := db.Query(`
		SELECT weight_slab_id, zone, base_price
		FROM zone_rates
		WHERE courier_name = $1 AND deleted_at IS NULL
	`, courier)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rate matrix for courier %s: %w", courier, err)
	}
	defer rows.Close()

	matrix := make(map[uint]map[string]float64)
	for rows.Next() {
		var slabID uint
		var zone string
		var price float64
		if err := rows.Scan(&slabID, &zone, &price); err != nil {
			return nil, fmt.Errorf("failed to scan zone rate: %w", err)
		}
		if matrix[slabID] == nil {
			matrix[slabID] = make(map[string]float64)
		}
		matrix[slabID][zone] = price
	}
	return matrix, rows.Err()
}

// CountRatesForSlab reports how many zone rates reference a weight slab.
// Slab deletion is blocked while rates still point at it.
func CountRatesForSlab(db *sql.DB, slabID uint) (int, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM zone_rates
		WHERE weight_slab_id = $1 AND deleted_at IS NULL
	`, slabID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rates for slab %d: %w", slabID, err)
	}
	return count, nil
}
