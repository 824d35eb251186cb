package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"backend/models"
	"backend/services"
	"backend/utils"

	"github.com/lib/pq"
)

// SQLConfigStore is the Postgres-backed services.ConfigStore. Quote
// requests read it through the engine's cache, so every method here is a
// cold-path load.
type SQLConfigStore struct {
	db *sql.DB
}

// NewSQLConfigStore builds a config store over the shared database
func NewSQLConfigStore(db *sql.DB) *SQLConfigStore {
	return &SQLConfigStore{db: db}
}

func (s *SQLConfigStore) GetZoneEntry(ctx context.Context, pincode string) (*models.ZoneEntry, error) {
	queryCtx, cancel := utils.GetFastQueryContext(ctx)
	defer cancel()

	var entry models.ZoneEntry
	err := s.db.QueryRowContext(queryCtx, `
		SELECT id, pincode, zone, city, state, region, is_metro, is_remote,
		       cod_available, expected_delivery_days, zone_multiplier
		FROM zone_entries
		WHERE pincode = $1 AND deleted_at IS NULL
	`, pincode).Scan(
		&entry.ID, &entry.Pincode, &entry.Zone, &entry.City, &entry.State,
		&entry.Region, &entry.IsMetro, &entry.IsRemote, &entry.CodAvailable,
		&entry.ExpectedDeliveryDays, &entry.ZoneMultiplier,
	)
	if err == sql.ErrNoRows {
		return nil, services.ErrZoneNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load zone entry for %s: %w", pincode, err)
	}
	return &entry, nil
}

func (s *SQLConfigStore) GetWeightSlabs(ctx context.Context, courier string) ([]models.WeightSlab, error) {
	queryCtx, cancel := utils.GetFastQueryContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(queryCtx, `
		SELECT id, courier_name, base_weight, overage_per_kg
		FROM weight_slabs
		WHERE courier_name = $1 AND deleted_at IS NULL
		ORDER BY base_weight ASC
	`, courier)
	if err != nil {
		return nil, fmt.Errorf("failed to load weight slabs for %s: %w", courier, err)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating weight slabs: %w", err)
	}
	return slabs, nil
}

func (s *SQLConfigStore) GetZoneRate(ctx context.Context, courier string, weightSlabID uint, zone string) (float64, error) {
	queryCtx, cancel := utils.GetFastQueryContext(ctx)
	defer cancel()

	var price float64
	err := s.db.QueryRowContext(queryCtx, `
		SELECT base_price FROM zone_rates
		WHERE courier_name = $1 AND weight_slab_id = $2 AND zone = $3 AND deleted_at IS NULL
	`, courier, weightSlabID, zone).Scan(&price)
	if err == sql.ErrNoRows {
		return 0, services.ErrRateNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load zone rate: %w", err)
	}
	return price, nil
}

func (s *SQLConfigStore) GetActiveDeliveryOptions(ctx context.Context) ([]models.DeliveryOption, error) {
	queryCtx, cancel := utils.GetFastQueryContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(queryCtx, `
		SELECT id, code, name, delivery_days_min, delivery_days_max,
		       price_multiplier, fixed_surcharge, availability_zones,
		       availability_conditions, cutoff_time, restricted_days,
		       min_order_value, sort_order, is_active
		FROM delivery_options
		WHERE is_active = TRUE AND deleted_at IS NULL
		ORDER BY sort_order ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery options: %w", err)
	}
	defer rows.Close()

	var options []models.DeliveryOption
	for rows.Next() {
		opt, err := scanDeliveryOption(rows)
		if err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delivery options: %w", err)
	}
	return options, nil
}

// scanDeliveryOption maps one delivery_options row, decoding the pq
// arrays and the jsonb condition list.
func scanDeliveryOption(rows *sql.Rows) (models.DeliveryOption, error) {
	var opt models.DeliveryOption
	var zones pq.StringArray
	var days pq.Int64Array
	var conditions []byte
	var cutoff sql.NullString
	var minOrder sql.NullFloat64

	if err := rows.Scan(
		&opt.ID, &opt.Code, &opt.Name, &opt.DeliveryDaysMin, &opt.DeliveryDaysMax,
		&opt.PriceMultiplier, &opt.FixedSurcharge, &zones, &conditions,
		&cutoff, &days, &minOrder, &opt.SortOrder, &opt.IsActive,
	); err != nil {
		return opt, fmt.Errorf("failed to scan delivery option: %w", err)
	}

	opt.AvailabilityZones = []string(zones)
	opt.RestrictedDays = make([]int, 0, len(days))
	for _, d := range days {
		opt.RestrictedDays = append(opt.RestrictedDays, int(d))
	}
	if len(conditions) > 0 {
		if err := json.Unmarshal(conditions, &opt.AvailabilityConditions); err != nil {
			return opt, fmt.Errorf("failed to decode availability conditions for option %s: %w", opt.Code, err)
		}
	}
	if cutoff.Valid && cutoff.String != "" {
		value := cutoff.String
		opt.CutoffTime = &value
	}
	if minOrder.Valid {
		value := minOrder.Float64
		opt.MinOrderValue = &value
	}
	return opt, nil
}
