package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"backend/models"
)

// QuoteContext captures everything time- and geography-sensitive that the
// eligibility predicates evaluate against.
type QuoteContext struct {
	Zone       string
	OrderValue float64
	IsMetro    bool
	IsRemote   bool
	CodZone    bool
	OrderedAt  time.Time
}

// ParseClockTime parses "HH:MM" into minutes since midnight.
func ParseClockTime(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// IsOptionAvailable runs the eligibility chain in order and short-circuits
// on the first failing rule. The second return value names that rule.
func IsOptionAvailable(opt models.DeliveryOption, ctx QuoteContext) (bool, string) {
	if !opt.IsActive {
		return false, "option is not active"
	}

	if len(opt.AvailabilityZones) > 0 {
		found := false
		for _, z := range opt.AvailabilityZones {
			if strings.EqualFold(z, ctx.Zone) {
				found = true
				break
			}
		}
		if !found {
			return false, fmt.Sprintf("not available in zone %s", ctx.Zone)
		}
	}

	if opt.MinOrderValue != nil && ctx.OrderValue < *opt.MinOrderValue {
		return false, "order value below minimum"
	}

	if len(opt.RestrictedDays) > 0 {
		weekday := int(ctx.OrderedAt.Weekday())
		for _, d := range opt.RestrictedDays {
			if d == weekday {
				return false, "not available on this day"
			}
		}
	}

	if opt.CutoffTime != nil && *opt.CutoffTime != "" {
		cutoff, err := ParseClockTime(*opt.CutoffTime)
		if err != nil {
			return false, "invalid cutoff time configured"
		}
		if minutesOfDay(ctx.OrderedAt) > cutoff {
			return false, "order placed after cutoff time"
		}
	}

	for _, cond := range opt.AvailabilityConditions {
		if ok, reason := evalCondition(cond, ctx); !ok {
			return false, reason
		}
	}

	return true, ""
}

// evalCondition interprets one tagged condition. Unknown variants fail
// closed: an option carrying a condition this build cannot evaluate must
// not be offered.
func evalCondition(cond models.AvailabilityCondition, ctx QuoteContext) (bool, string) {
	switch cond.Type {
	case models.ConditionMetroOnly:
		if !ctx.IsMetro {
			return false, "only available in metro areas"
		}
	case models.ConditionExcludeMetro:
		if ctx.IsMetro {
			return false, "not available in metro areas"
		}
	case models.ConditionRemoteOnly:
		if !ctx.IsRemote {
			return false, "only available in remote areas"
		}
	case models.ConditionExcludeRemote:
		if ctx.IsRemote {
			return false, "not available in remote areas"
		}
	case models.ConditionCodRequired:
		if !ctx.CodZone {
			return false, "cash on delivery not available in this zone"
		}
	default:
		return false, fmt.Sprintf("unknown availability condition: %s", cond.Type)
	}
	return true, ""
}

// OptionCost prices an option against the zone-adjusted base cost:
// base × multiplier + surcharge, two decimal places.
func OptionCost(opt models.DeliveryOption, baseCost float64) models.CostBreakdown {
	multiplied := round2(baseCost * opt.PriceMultiplier)
	return models.CostBreakdown{
		BaseCost:               round2(baseCost),
		MultiplierAdjustedCost: multiplied,
		Surcharge:              round2(opt.FixedSurcharge),
		TotalCost:              round2(baseCost*opt.PriceMultiplier + opt.FixedSurcharge),
	}
}

// OptionWindow returns the option's promised window, bounded below by the
// zone's expected delivery days: a zone never promises faster delivery
// than its configured baseline.
func OptionWindow(opt models.DeliveryOption, zone models.ZoneEntry) models.DeliveryWindow {
	minDays := opt.DeliveryDaysMin
	if zone.ExpectedDeliveryDays > minDays {
		minDays = zone.ExpectedDeliveryDays
	}
	maxDays := opt.DeliveryDaysMax
	if minDays > maxDays {
		maxDays = minDays
	}
	return models.DeliveryWindow{MinDays: minDays, MaxDays: maxDays}
}

// AvailableOptions filters every configured option through the
// eligibility chain, prices the survivors, and orders them by the
// admin-controlled sort_order (not by price or speed).
func AvailableOptions(options []models.DeliveryOption, zone models.ZoneEntry, baseCost float64, ctx QuoteContext) []models.OptionResult {
	eligible := make([]models.DeliveryOption, 0, len(options))
	for _, opt := range options {
		if ok, _ := IsOptionAvailable(opt, ctx); ok {
			eligible = append(eligible, opt)
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].SortOrder < eligible[j].SortOrder
	})

	results := make([]models.OptionResult, 0, len(eligible))
	for _, opt := range eligible {
		results = append(results, models.OptionResult{
			Code:           opt.Code,
			Name:           opt.Name,
			DeliveryWindow: OptionWindow(opt, zone),
			Cost:           OptionCost(opt, baseCost),
			CodAvailable:   zone.CodAvailable,
		})
	}
	return results
}
