package domain

// RouteInformation is the immutable result of one Routing Oracle fetch:
// distance and duration of a leg plus its geometry, in the oracle client's
// converted units (miles, hours). Read-only once constructed.
type RouteInformation struct {
	DistanceMiles float64
	DurationHours float64
	Geometry      []Location
}

// AverageSpeedMPH returns the leg's average speed, or 0 if the duration is
// zero (the caller must guard fuel scheduling against that case per §4.3).
func (r RouteInformation) AverageSpeedMPH() float64 {
	if r.DurationHours <= 0 {
		return 0
	}
	return r.DistanceMiles / r.DurationHours
}
