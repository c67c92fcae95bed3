package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fleetlogix/hos-planner/internal/apperr"
	"github.com/fleetlogix/hos-planner/internal/domain"
)

type stubFetcher struct {
	mu    sync.Mutex
	calls []domain.Location
	routes map[[2]domain.Location]domain.RouteInformation
	err    error
}

func (s *stubFetcher) FetchRoute(ctx context.Context, origin, destination domain.Location) (domain.RouteInformation, error) {
	s.mu.Lock()
	s.calls = append(s.calls, origin, destination)
	s.mu.Unlock()

	if s.err != nil {
		return domain.RouteInformation{}, s.err
	}
	return s.routes[[2]domain.Location{origin, destination}], nil
}

func testRuleSet() domain.RuleSet {
	return domain.RuleSet{
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
	}
}

func mustStart(t *testing.T) time.Time {
	t.Helper()
	start, err := time.Parse(time.RFC3339, "2025-01-01T08:00:00Z")
	if err != nil {
		t.Fatalf("failed to parse fixture start time: %v", err)
	}
	return start
}

func TestPlanTripComposesFourSegmentGroups(t *testing.T) {
	current := domain.Location{Latitude: 40.0, Longitude: -74.0}
	pickup := domain.Location{Latitude: 41.0, Longitude: -75.0}
	dropOff := domain.Location{Latitude: 42.0, Longitude: -76.0}

	fetcher := &stubFetcher{
		routes: map[[2]domain.Location]domain.RouteInformation{
			{current, pickup}: {DistanceMiles: 100, DurationHours: 2},
			{pickup, dropOff}: {DistanceMiles: 150, DurationHours: 3},
		},
	}

	segs, err := PlanTrip(context.Background(), fetcher, Request{
		Current:          current,
		Pickup:           pickup,
		DropOff:          dropOff,
		CurrentCycleUsed: 0,
		StartTime:        mustStart(t),
		RuleSet:          testRuleSet(),
	})
	if err != nil {
		t.Fatalf("PlanTrip() unexpected err = %v", err)
	}
	if len(segs) != 4 {
		t.Fatalf("len(segs) = %d, want 4 (drive, pickup, drive, drop_off)", len(segs))
	}

	wantTypes := []domain.SegmentType{
		domain.SegmentDriveToPickup, domain.SegmentPickup,
		domain.SegmentDriveToDropOff, domain.SegmentDropOff,
	}
	for i, want := range wantTypes {
		if segs[i].Type != want {
			t.Errorf("segs[%d].Type = %v, want %v", i, segs[i].Type, want)
		}
	}

	for i := 1; i < len(segs); i++ {
		if segs[i-1].EndTime != segs[i].StartTime {
			t.Errorf("gap between segment %d and %d", i-1, i)
		}
	}
}

func TestPlanTripFailsWhenEitherFetchFails(t *testing.T) {
	fetcher := &stubFetcher{err: apperr.RoutingUnavailable(errors.New("dial timeout"))}

	_, err := PlanTrip(context.Background(), fetcher, Request{
		Current:   domain.Location{Latitude: 40.0, Longitude: -74.0},
		Pickup:    domain.Location{Latitude: 41.0, Longitude: -75.0},
		DropOff:   domain.Location{Latitude: 42.0, Longitude: -76.0},
		StartTime: mustStart(t),
		RuleSet:   testRuleSet(),
	})
	appErr, ok := err.(*apperr.Error)
	if !ok || appErr.Code != apperr.CodeRoutingUnavailable {
		t.Fatalf("err = %v, want RoutingUnavailable", err)
	}
}

func TestPlanTripFetchesBothLegs(t *testing.T) {
	current := domain.Location{Latitude: 40.0, Longitude: -74.0}
	pickup := domain.Location{Latitude: 41.0, Longitude: -75.0}
	dropOff := domain.Location{Latitude: 42.0, Longitude: -76.0}

	fetcher := &stubFetcher{
		routes: map[[2]domain.Location]domain.RouteInformation{
			{current, pickup}: {DistanceMiles: 10, DurationHours: 1},
			{pickup, dropOff}: {DistanceMiles: 10, DurationHours: 1},
		},
	}

	if _, err := PlanTrip(context.Background(), fetcher, Request{
		Current: current, Pickup: pickup, DropOff: dropOff,
		StartTime: mustStart(t), RuleSet: testRuleSet(),
	}); err != nil {
		t.Fatalf("PlanTrip() unexpected err = %v", err)
	}
	if len(fetcher.calls) != 4 {
		t.Fatalf("len(calls) = %d, want 4 (2 locations per leg x 2 legs)", len(fetcher.calls))
	}
}

// slowFetcher fails fast for one leg and blocks on the other until its
// context is cancelled, so PlanTrip's return time demonstrates whether the
// sibling fetch was actually cancelled rather than waited out.
type slowFetcher struct {
	current, pickup, dropOff domain.Location
	slowLegCancelled         chan struct{}
}

func (s *slowFetcher) FetchRoute(ctx context.Context, origin, destination domain.Location) (domain.RouteInformation, error) {
	if origin == s.current && destination == s.pickup {
		return domain.RouteInformation{}, apperr.RoutingUnavailable(errors.New("dial timeout"))
	}
	<-ctx.Done()
	close(s.slowLegCancelled)
	return domain.RouteInformation{}, ctx.Err()
}

func TestPlanTripCancelsSiblingFetchOnFailure(t *testing.T) {
	current := domain.Location{Latitude: 40.0, Longitude: -74.0}
	pickup := domain.Location{Latitude: 41.0, Longitude: -75.0}
	dropOff := domain.Location{Latitude: 42.0, Longitude: -76.0}

	fetcher := &slowFetcher{
		current: current, pickup: pickup, dropOff: dropOff,
		slowLegCancelled: make(chan struct{}),
	}

	done := make(chan error, 1)
	go func() {
		_, err := PlanTrip(context.Background(), fetcher, Request{
			Current: current, Pickup: pickup, DropOff: dropOff,
			StartTime: mustStart(t), RuleSet: testRuleSet(),
		})
		done <- err
	}()

	select {
	case err := <-done:
		appErr, ok := err.(*apperr.Error)
		if !ok || appErr.Code != apperr.CodeRoutingUnavailable {
			t.Fatalf("err = %v, want RoutingUnavailable", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("PlanTrip() did not return promptly; sibling fetch was not cancelled")
	}

	select {
	case <-fetcher.slowLegCancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("sibling fetch's context was never cancelled")
	}
}
