package domain

import "time"

// RuleSetTag identifies a registered set of HOS constants.
type RuleSetTag string

// Interstate is the only rule-set tag accepted by the HOS Rule Table today.
const Interstate RuleSetTag = "INTERSTATE"

// RuleSet is an immutable record of FMCSA Hours-of-Service constants for a
// single jurisdiction/rule-set tag.
type RuleSet struct {
	Tag                     RuleSetTag
	MaxDrivingHours         float64
	MaxOnDutyWindowHours    float64
	DrivingBeforeBreakHours float64
	MandatoryBreakHours     float64
	MaxCycleHours           float64
	MinRestHours            float64
	RestartHours            float64
	FuelIntervalMiles       float64
	FuelStopHours           float64
	PickupActivityHours     float64
	DropOffActivityHours    float64
}

// Duration helpers convert the hour-denominated constants to time.Duration
// so planner arithmetic stays in a single high-resolution unit and never
// accumulates float rounding across many additions (see design notes on
// floating-point time arithmetic).

func (r RuleSet) MaxDriving() time.Duration         { return HoursToDuration(r.MaxDrivingHours) }
func (r RuleSet) MaxOnDutyWindow() time.Duration    { return HoursToDuration(r.MaxOnDutyWindowHours) }
func (r RuleSet) DrivingBeforeBreak() time.Duration { return HoursToDuration(r.DrivingBeforeBreakHours) }
func (r RuleSet) MandatoryBreak() time.Duration     { return HoursToDuration(r.MandatoryBreakHours) }
func (r RuleSet) MaxCycle() time.Duration           { return HoursToDuration(r.MaxCycleHours) }
func (r RuleSet) MinRest() time.Duration            { return HoursToDuration(r.MinRestHours) }
func (r RuleSet) Restart() time.Duration            { return HoursToDuration(r.RestartHours) }
func (r RuleSet) FuelStop() time.Duration           { return HoursToDuration(r.FuelStopHours) }
func (r RuleSet) PickupActivity() time.Duration     { return HoursToDuration(r.PickupActivityHours) }
func (r RuleSet) DropOffActivity() time.Duration    { return HoursToDuration(r.DropOffActivityHours) }

// HoursToDuration converts a real-valued hour quantity to a time.Duration
// at nanosecond resolution, the single conversion boundary between the
// rule table's real-hour constants and the clock's integer arithmetic.
func HoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

// DurationToHours is the inverse conversion, used only when a Segment or
// RoutePlan field (both expressed in hours per §3) is emitted.
func DurationToHours(d time.Duration) float64 {
	return d.Hours()
}
