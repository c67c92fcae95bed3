// Package activity implements the Activity Planner (§4.4): pickup and
// drop-off, each a fixed-duration on-duty-not-driving segment, preceded by
// whatever rest the DriverClock requires so the activity never violates the
// on-duty window or the rolling cycle.
package activity

import (
	"time"

	"github.com/fleetlogix/hos-planner/internal/apperr"
	"github.com/fleetlogix/hos-planner/internal/clock"
	"github.com/fleetlogix/hos-planner/internal/domain"
)

const maxPreRestIterations = 8

// PlanPickup emits the pre-rest (if any) plus the one-hour pickup activity
// at loc.
func PlanPickup(clk *clock.Clock, rs domain.RuleSet, loc domain.Location) ([]domain.Segment, error) {
	return plan(clk, domain.SegmentPickup, rs.PickupActivity(), loc)
}

// PlanDropOff emits the pre-rest (if any) plus the one-hour drop-off
// activity at loc.
func PlanDropOff(clk *clock.Clock, rs domain.RuleSet, loc domain.Location) ([]domain.Segment, error) {
	return plan(clk, domain.SegmentDropOff, rs.DropOffActivity(), loc)
}

func plan(clk *clock.Clock, segType domain.SegmentType, activityDuration time.Duration, loc domain.Location) ([]domain.Segment, error) {
	var out []domain.Segment

	// Resolved in §9's Open Question: a rest needed before an activity is
	// chosen by the same cycle > daily > break > fuel hierarchy as §4.3,
	// restricted here to the two conditions an activity can ever trip:
	// the rolling cycle and the on-duty window. A break or fuel stop is
	// never owed by an on-duty-not-driving activity.
	for i := 0; ; i++ {
		if i >= maxPreRestIterations {
			return nil, apperr.PlanInfeasible("exceeded maximum pre-activity rest iterations")
		}
		switch {
		case clk.RemainingCycle() < activityDuration:
			start, end, err := clk.TakeCycleRestart()
			if err != nil {
				return nil, err
			}
			out = append(out, restSegment(domain.SegmentCycleRestart, domain.StatusOffDuty, start, end, loc))
			continue
		case clk.RemainingWindow() < activityDuration:
			start, end, err := clk.TakeDailyRest()
			if err != nil {
				return nil, err
			}
			out = append(out, restSegment(domain.SegmentDailyRest, domain.StatusSleeperBerth, start, end, loc))
			continue
		}
		break
	}

	start, end, err := clk.TakeActivity(activityDuration)
	if err != nil {
		return nil, err
	}
	out = append(out, domain.Segment{
		Type:             segType,
		Status:           domain.StatusOnDutyNotDriv,
		StartTime:        start,
		EndTime:          end,
		DurationHours:    end.Sub(start).Hours(),
		DistanceMiles:    0,
		StartCoordinates: loc,
		EndCoordinates:   loc,
		Label:            loc.Label,
	})
	return out, nil
}

func restSegment(t domain.SegmentType, status domain.DutyStatus, start, end time.Time, loc domain.Location) domain.Segment {
	return domain.Segment{
		Type:             t,
		Status:           status,
		StartTime:        start,
		EndTime:          end,
		DurationHours:    end.Sub(start).Hours(),
		DistanceMiles:    0,
		StartCoordinates: loc,
		EndCoordinates:   loc,
	}
}
