// Package clock implements the DriverClock: the stateful HOS state machine
// that Segment and Activity planners mutate through a narrow interface
// (§3, §4.3, §4.4 of the HOS trip planner design). Exactly one Clock is
// created per trip request and is never shared across requests.
package clock

import (
	"time"

	"github.com/fleetlogix/hos-planner/internal/apperr"
	"github.com/fleetlogix/hos-planner/internal/domain"
)

// Clock is the mutable HOS state machine. No method is safe for concurrent
// use — exactly one planner touches a given Clock at a time (§5).
type Clock struct {
	rules domain.RuleSet

	drivingUsed time.Duration // driving_hours_used_in_shift
	onDutyUsed  time.Duration // on_duty_hours_used_in_shift
	sinceBreak  time.Duration // driving_since_last_break_hours
	cycleUsed   time.Duration // cycle_hours_used
	milesToFuel float64       // miles_since_last_fuel

	current time.Time
	status  domain.DutyStatus
}

// New creates a Clock for one trip request. cycleUsedHours is the driver's
// rolling 8-day total on entry (§4.5 step 1); all other counters start at
// zero.
func New(rs domain.RuleSet, cycleUsedHours float64, start time.Time) *Clock {
	return &Clock{
		rules:   rs,
		cycleUsed: domain.HoursToDuration(cycleUsedHours),
		current: start,
		status:  domain.StatusOffDuty,
	}
}

// CurrentTime is the clock's current wall-clock position.
func (c *Clock) CurrentTime() time.Time { return c.current }

// Status is the duty state following the most recent mutation.
func (c *Clock) Status() domain.DutyStatus { return c.status }

// MilesSinceFuel is the distance driven since the last fuel stop.
func (c *Clock) MilesSinceFuel() float64 { return c.milesToFuel }

// RemainingDriving is the driving time left before the 11-hour shift limit.
func (c *Clock) RemainingDriving() time.Duration {
	return clampNonNegative(c.rules.MaxDriving() - c.drivingUsed)
}

// RemainingWindow is the on-duty time left before the 14-hour window limit.
func (c *Clock) RemainingWindow() time.Duration {
	return clampNonNegative(c.rules.MaxOnDutyWindow() - c.onDutyUsed)
}

// RemainingBeforeBreak is the driving time left before a 30-minute break is
// mandated.
func (c *Clock) RemainingBeforeBreak() time.Duration {
	return clampNonNegative(c.rules.DrivingBeforeBreak() - c.sinceBreak)
}

// RemainingCycle is the on-duty time left before the rolling 70-hour/8-day
// cap.
func (c *Clock) RemainingCycle() time.Duration {
	return clampNonNegative(c.rules.MaxCycle() - c.cycleUsed)
}

// HoursToNextFuelStop returns the driving time remaining before the next
// 1000-mile fuel interval is reached, given averageSpeedMPH. Returns a very
// large duration (effectively "no fuel stop pending on this leg") when
// averageSpeedMPH is zero — callers must guard per §4.3 step 1.
func (c *Clock) HoursToNextFuelStop(averageSpeedMPH float64) time.Duration {
	if averageSpeedMPH <= 0 {
		return time.Duration(1<<62 - 1)
	}
	milesLeft := c.rules.FuelIntervalMiles - c.milesToFuel
	if milesLeft <= 0 {
		return 0
	}
	return domain.HoursToDuration(milesLeft / averageSpeedMPH)
}

// Drive advances the clock by d (a driving sub-interval chosen by the
// Segment Planner), covering milesDriven of ground. Returns the
// [start, end) wall-clock span of the resulting drive segment.
func (c *Clock) Drive(d time.Duration, milesDriven float64) (time.Time, time.Time, error) {
	start := c.current
	c.drivingUsed += d
	c.onDutyUsed += d
	c.sinceBreak += d
	c.cycleUsed += d
	c.milesToFuel += milesDriven
	c.current = c.current.Add(d)
	c.status = domain.StatusDriving
	if err := c.checkInvariants(); err != nil {
		return start, c.current, err
	}
	return start, c.current, nil
}

// TakeMandatoryBreak emits the 30-minute off-duty break required after 8
// cumulative driving hours. Resets only the since-last-break counter.
func (c *Clock) TakeMandatoryBreak() (time.Time, time.Time, error) {
	start := c.current
	d := c.rules.MandatoryBreak()
	c.current = c.current.Add(d)
	c.sinceBreak = 0
	c.status = domain.StatusOffDuty
	if err := c.checkInvariants(); err != nil {
		return start, c.current, err
	}
	return start, c.current, nil
}

// TakeDailyRest emits the 10-hour daily reset. Resets shift, window and
// break counters; the rolling cycle total is untouched and earns no
// additional on-duty hours from the rest itself.
func (c *Clock) TakeDailyRest() (time.Time, time.Time, error) {
	start := c.current
	d := c.rules.MinRest()
	c.current = c.current.Add(d)
	c.drivingUsed = 0
	c.onDutyUsed = 0
	c.sinceBreak = 0
	c.status = domain.StatusSleeperBerth
	if err := c.checkInvariants(); err != nil {
		return start, c.current, err
	}
	return start, c.current, nil
}

// TakeCycleRestart emits the 34-hour cycle restart. Resets cycle, shift and
// break counters.
func (c *Clock) TakeCycleRestart() (time.Time, time.Time, error) {
	start := c.current
	d := c.rules.Restart()
	c.current = c.current.Add(d)
	c.cycleUsed = 0
	c.drivingUsed = 0
	c.onDutyUsed = 0
	c.sinceBreak = 0
	c.status = domain.StatusOffDuty
	if err := c.checkInvariants(); err != nil {
		return start, c.current, err
	}
	return start, c.current, nil
}

// TakeFuelStop emits a 15-minute on-duty-not-driving fuel stop. Resets
// miles-since-fuel; consumes window and cycle time but not driving time.
func (c *Clock) TakeFuelStop() (time.Time, time.Time, error) {
	start := c.current
	d := c.rules.FuelStop()
	c.onDutyUsed += d
	c.cycleUsed += d
	c.current = c.current.Add(d)
	c.milesToFuel = 0
	c.status = domain.StatusOnDutyNotDriv
	if err := c.checkInvariants(); err != nil {
		return start, c.current, err
	}
	return start, c.current, nil
}

// TakeActivity emits an on-duty-not-driving activity (pickup or drop-off)
// of the given duration. Consumes window and cycle time but not driving or
// break-eligibility time.
func (c *Clock) TakeActivity(d time.Duration) (time.Time, time.Time, error) {
	start := c.current
	c.onDutyUsed += d
	c.cycleUsed += d
	c.current = c.current.Add(d)
	c.status = domain.StatusOnDutyNotDriv
	if err := c.checkInvariants(); err != nil {
		return start, c.current, err
	}
	return start, c.current, nil
}

// checkInvariants verifies the §3 DriverClock invariants after a mutation.
// A violation indicates the algorithm reached a state it was designed
// never to reach.
func (c *Clock) checkInvariants() error {
	switch {
	case c.drivingUsed < 0 || c.drivingUsed > c.rules.MaxDriving():
		return apperr.PlanInfeasible("driving_hours_used_in_shift out of bounds")
	case c.onDutyUsed < 0 || c.onDutyUsed > c.rules.MaxOnDutyWindow():
		return apperr.PlanInfeasible("on_duty_hours_used_in_shift out of bounds")
	case c.sinceBreak < 0 || c.sinceBreak > c.rules.DrivingBeforeBreak():
		return apperr.PlanInfeasible("driving_since_last_break_hours out of bounds")
	case c.cycleUsed < 0 || c.cycleUsed > c.rules.MaxCycle():
		return apperr.PlanInfeasible("cycle_hours_used out of bounds")
	}
	return nil
}

func clampNonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
