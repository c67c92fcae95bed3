// Package summary implements the Trip Summarizer (§4.6): a pure fold over
// a composed segment list into the final RoutePlan totals and merged
// geometry.
package summary

import (
	"github.com/fleetlogix/hos-planner/internal/domain"
)

// Summarize folds segs into a RoutePlan. segs must already be in
// chronological, gap-free order (the Coordinator's guarantee).
func Summarize(tripID string, segs []domain.Segment) domain.RoutePlan {
	if len(segs) == 0 {
		return domain.RoutePlan{TripID: tripID}
	}

	plan := domain.RoutePlan{
		TripID:    tripID,
		Segments:  segs,
		StartTime: segs[0].StartTime,
		EndTime:   segs[len(segs)-1].EndTime,
	}

	for _, s := range segs {
		plan.TotalDistanceMiles += s.DistanceMiles
		switch s.Status {
		case domain.StatusDriving:
			plan.DrivingTime += s.DurationHours
		case domain.StatusOffDuty, domain.StatusSleeperBerth:
			plan.RestingTime += s.DurationHours
		}
	}
	plan.TotalDurationHours = plan.EndTime.Sub(plan.StartTime).Hours()
	plan.RouteGeometry = mergeGeometry(segs)

	return plan
}

// mergeGeometry concatenates each segment's start/end coordinates into one
// ordered polyline, dropping duplicate junction points where one segment's
// end coincides with the next segment's start.
func mergeGeometry(segs []domain.Segment) []domain.Location {
	var geometry []domain.Location
	for _, s := range segs {
		appendUnlessDuplicate(&geometry, s.StartCoordinates)
		appendUnlessDuplicate(&geometry, s.EndCoordinates)
	}
	return geometry
}

func appendUnlessDuplicate(geometry *[]domain.Location, loc domain.Location) {
	if n := len(*geometry); n > 0 && (*geometry)[n-1].Equal(loc) {
		return
	}
	*geometry = append(*geometry, loc)
}
