// Package rules holds the HOS Rule Table: pure numeric policy, keyed by
// rule-set tag, kept separate from the clock and planners so the constants
// stay testable in isolation (§4.1).
package rules

import (
	"github.com/fleetlogix/hos-planner/internal/apperr"
	"github.com/fleetlogix/hos-planner/internal/domain"
)

var table = map[domain.RuleSetTag]domain.RuleSet{
	domain.Interstate: {
		Tag:                     domain.Interstate,
		MaxDrivingHours:         11,
		MaxOnDutyWindowHours:    14,
		DrivingBeforeBreakHours: 8,
		MandatoryBreakHours:     0.5,
		MaxCycleHours:           70,
		MinRestHours:            10,
		RestartHours:            34,
		FuelIntervalMiles:       1000,
		FuelStopHours:           0.25,
		PickupActivityHours:     1,
		DropOffActivityHours:    1,
	},
}

// Get returns the RuleSet registered for tag, or UnknownRuleSet if tag was
// never registered.
func Get(tag domain.RuleSetTag) (domain.RuleSet, error) {
	rs, ok := table[tag]
	if !ok {
		return domain.RuleSet{}, apperr.UnknownRuleSet(string(tag))
	}
	return rs, nil
}
