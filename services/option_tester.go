package services

import (
	"time"

	"backend/models"
)

// TestOption evaluates a single option payload against a synthetic
// context, for the admin pre-launch validation endpoint. Nothing is read
// from or written to configuration.
func TestOption(req models.OptionTestRequest, now time.Time) (models.OptionTestResult, error) {
	placedAt, err := orderedAt(models.QuoteRequest{
		OrderDate: req.OrderDate,
		OrderTime: req.OrderTime,
	}, now)
	if err != nil {
		return models.OptionTestResult{}, err
	}

	ctx := QuoteContext{
		Zone:       req.Zone,
		OrderValue: req.OrderValue,
		IsMetro:    req.IsMetro,
		IsRemote:   req.IsRemote,
		CodZone:    req.CodZone,
		OrderedAt:  placedAt,
	}

	available, reason := IsOptionAvailable(req.Option, ctx)
	result := models.OptionTestResult{Available: available, Reason: reason}
	if !available {
		return result, nil
	}

	cost := OptionCost(req.Option, req.BaseCost)
	window := OptionWindow(req.Option, models.ZoneEntry{Zone: req.Zone, CodAvailable: req.CodZone})
	result.Cost = &cost
	result.Window = &window
	return result, nil
}
