// Package segment implements the Segment Planner (§4.3): given a free-flowing
// driving leg and the current DriverClock, it emits an ordered list of
// segments — drives, breaks, rests, fuel stops — that cover the leg while
// keeping every DriverClock invariant intact.
package segment

import (
	"math"
	"time"

	"github.com/fleetlogix/hos-planner/internal/apperr"
	"github.com/fleetlogix/hos-planner/internal/clock"
	"github.com/fleetlogix/hos-planner/internal/domain"
)

// epsilon is the tolerance below which a remaining duration is treated as
// exhausted, guarding against float residue from proportional
// interpolation. Remaining distance uses epsilonMiles instead.
const epsilon = 10 * time.Microsecond

const maxIterations = 100000

// PlanLeg fractures one leg of distance/duration into driving and
// mandatory-rest sub-segments, mutating clk as it goes. origin and
// destination pin the first and last segment's coordinates exactly, per
// the geometry-endpoint-exactness property; leg.Geometry supplies the
// intermediate polyline used for proportional interpolation.
func PlanLeg(clk *clock.Clock, segType domain.SegmentType, leg domain.RouteInformation, origin, destination domain.Location) ([]domain.Segment, error) {
	if leg.DistanceMiles == 0 && leg.DurationHours == 0 {
		return nil, nil
	}

	var out []domain.Segment

	distanceRemaining := leg.DistanceMiles
	durationRemaining := domain.HoursToDuration(leg.DurationHours)
	traveled := 0.0
	avgSpeed := leg.AverageSpeedMPH()
	pos := origin

	for i := 0; ; i++ {
		if durationRemaining <= epsilon {
			break
		}
		if i >= maxIterations {
			return nil, apperr.PlanInfeasible("exceeded maximum segment-planning iterations")
		}

		d := minDuration(
			clk.RemainingDriving(),
			clk.RemainingWindow(),
			clk.RemainingBeforeBreak(),
			clk.RemainingCycle(),
			durationRemaining,
		)
		fuelPending := false
		if avgSpeed > 0 {
			fuelDue := clk.HoursToNextFuelStop(avgSpeed)
			if fuelDue < d {
				d = fuelDue
				fuelPending = true
			}
		}

		if d <= epsilon {
			seg, err := emitRest(clk, pos, fuelPending)
			if err != nil {
				return nil, err
			}
			out = append(out, seg)
			continue
		}

		milesDriven := distanceRemaining
		if durationRemaining > 0 {
			milesDriven = (d.Hours() / durationRemaining.Hours()) * distanceRemaining
		}

		start, end, err := clk.Drive(d, milesDriven)
		if err != nil {
			return nil, err
		}

		traveled += milesDriven
		distanceRemaining -= milesDriven
		durationRemaining -= d

		next := pos
		if distanceRemaining <= epsilonMiles {
			next = destination
		} else if leg.DistanceMiles > 0 {
			next = positionAtFraction(leg.Geometry, traveled/leg.DistanceMiles, origin, destination)
		}

		out = append(out, domain.Segment{
			Type:             segType,
			Status:           domain.StatusDriving,
			StartTime:        start,
			EndTime:          end,
			DurationHours:    end.Sub(start).Hours(),
			DistanceMiles:    milesDriven,
			StartCoordinates: pos,
			EndCoordinates:   next,
		})
		pos = next
	}

	if len(out) > 0 {
		last := out[len(out)-1]
		if last.Type == segType {
			last.EndCoordinates = destination
			out[len(out)-1] = last
		}
	}

	return out, nil
}

const epsilonMiles = 1e-9

// emitRest emits the single most-constraining rest per the §4.3 step 2
// tie-break hierarchy: cycle restart, then daily rest, then mandatory
// break, then fueling.
func emitRest(clk *clock.Clock, pos domain.Location, fuelPending bool) (domain.Segment, error) {
	switch {
	case clk.RemainingCycle() <= epsilon:
		start, end, err := clk.TakeCycleRestart()
		return restSegment(domain.SegmentCycleRestart, domain.StatusOffDuty, start, end, pos), err

	case clk.RemainingDriving() <= epsilon || clk.RemainingWindow() <= epsilon:
		start, end, err := clk.TakeDailyRest()
		return restSegment(domain.SegmentDailyRest, domain.StatusSleeperBerth, start, end, pos), err

	case clk.RemainingBeforeBreak() <= epsilon:
		start, end, err := clk.TakeMandatoryBreak()
		return restSegment(domain.SegmentMandatoryDrivingRest, domain.StatusOffDuty, start, end, pos), err

	case fuelPending:
		start, end, err := clk.TakeFuelStop()
		return restSegment(domain.SegmentFueling, domain.StatusOnDutyNotDriv, start, end, pos), err

	default:
		return domain.Segment{}, apperr.PlanInfeasible("no forward progress possible and no rest condition triggered")
	}
}

func restSegment(t domain.SegmentType, status domain.DutyStatus, start, end time.Time, pos domain.Location) domain.Segment {
	return domain.Segment{
		Type:             t,
		Status:           status,
		StartTime:        start,
		EndTime:          end,
		DurationHours:    end.Sub(start).Hours(),
		DistanceMiles:    0,
		StartCoordinates: pos,
		EndCoordinates:   pos,
	}
}

func minDuration(ds ...time.Duration) time.Duration {
	m := ds[0]
	for _, d := range ds[1:] {
		if d < m {
			m = d
		}
	}
	return m
}

// positionAtFraction selects the coordinate at cumulative fraction f along
// geometry by nearest-index lookup (§4.3). Falls back to a straight-line
// interpolation between origin and destination when no geometry is present.
func positionAtFraction(geometry []domain.Location, f float64, origin, destination domain.Location) domain.Location {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	if len(geometry) == 0 {
		return domain.Location{
			Latitude:  origin.Latitude + f*(destination.Latitude-origin.Latitude),
			Longitude: origin.Longitude + f*(destination.Longitude-origin.Longitude),
		}
	}
	idx := int(math.Round(f * float64(len(geometry)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(geometry) {
		idx = len(geometry) - 1
	}
	return geometry[idx]
}
