// Package coordinator implements the Trip Coordinator (§4.5): it owns the
// DriverClock for one request, fetches both legs of the trip concurrently
// from the Routing Oracle, then plans and composes the full segment list
// strictly sequentially.
package coordinator

import (
	"context"
	"time"

	"github.com/fleetlogix/hos-planner/internal/apperr"
	"github.com/fleetlogix/hos-planner/internal/clock"
	"github.com/fleetlogix/hos-planner/internal/domain"
	"github.com/fleetlogix/hos-planner/internal/planner/activity"
	"github.com/fleetlogix/hos-planner/internal/planner/segment"
)

// RouteFetcher is the narrow surface the Coordinator needs from the
// Routing Oracle Client; satisfied by *routing.Client.
type RouteFetcher interface {
	FetchRoute(ctx context.Context, origin, destination domain.Location) (domain.RouteInformation, error)
}

// Request bundles the inputs to PlanTrip (§6 Planner API).
type Request struct {
	Current          domain.Location
	Pickup           domain.Location
	DropOff          domain.Location
	CurrentCycleUsed float64
	StartTime        time.Time
	RuleSet          domain.RuleSet
}

// PlanTrip executes §4.5 steps 1-6 and returns the composed segment list.
// Summarizing it into a RoutePlan is left to the caller.
func PlanTrip(ctx context.Context, fetcher RouteFetcher, req Request) ([]domain.Segment, error) {
	leg1Ch := make(chan fetchResult, 1)
	leg2Ch := make(chan fetchResult, 1)

	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		ri, err := fetcher.FetchRoute(fetchCtx, req.Current, req.Pickup)
		leg1Ch <- fetchResult{ri: ri, err: err}
	}()
	go func() {
		ri, err := fetcher.FetchRoute(fetchCtx, req.Pickup, req.DropOff)
		leg2Ch <- fetchResult{ri: ri, err: err}
	}()

	// Both must succeed; if either fails first, cancel the sibling fetch's
	// context immediately and fail the request without waiting for it
	// (§4.5 step 2). Only once both legs are in hand do we continue.
	var leg1Res, leg2Res fetchResult
	var leg1Done, leg2Done bool
	for !leg1Done || !leg2Done {
		select {
		case leg1Res = <-leg1Ch:
			leg1Done = true
		case leg2Res = <-leg2Ch:
			leg2Done = true
		}
		if (leg1Done && leg1Res.err != nil) || (leg2Done && leg2Res.err != nil) {
			cancel()
			break
		}
	}

	if leg1Done && leg1Res.err != nil {
		return nil, leg1Res.err
	}
	if leg2Done && leg2Res.err != nil {
		return nil, leg2Res.err
	}
	if !leg1Done {
		leg1Res = <-leg1Ch
	}
	if !leg2Done {
		leg2Res = <-leg2Ch
	}

	clk := clock.New(req.RuleSet, req.CurrentCycleUsed, req.StartTime)

	var out []domain.Segment

	leg1, err := segment.PlanLeg(clk, domain.SegmentDriveToPickup, leg1Res.ri, req.Current, req.Pickup)
	if err != nil {
		return nil, err
	}
	out = append(out, leg1...)

	pickupSegs, err := activity.PlanPickup(clk, req.RuleSet, req.Pickup)
	if err != nil {
		return nil, err
	}
	out = append(out, pickupSegs...)

	leg2, err := segment.PlanLeg(clk, domain.SegmentDriveToDropOff, leg2Res.ri, req.Pickup, req.DropOff)
	if err != nil {
		return nil, err
	}
	out = append(out, leg2...)

	dropOffSegs, err := activity.PlanDropOff(clk, req.RuleSet, req.DropOff)
	if err != nil {
		return nil, err
	}
	out = append(out, dropOffSegs...)

	if len(out) == 0 {
		return nil, apperr.PlanInfeasible("trip produced no segments")
	}

	return out, nil
}

type fetchResult struct {
	ri  domain.RouteInformation
	err error
}
