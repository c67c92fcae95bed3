package domain

import "math"

// Location is an immutable geographic coordinate pair, optionally labeled
// for display (e.g. "Pickup", "Drop-off").
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label,omitempty"`
}

// Equal reports coordinate equality. Labels are not part of identity.
func (l Location) Equal(other Location) bool {
	return l.Latitude == other.Latitude && l.Longitude == other.Longitude
}

// Near reports whether two locations are within tol degrees of each other
// in both axes, used to detect degenerate (zero-distance) legs.
func (l Location) Near(other Location, tol float64) bool {
	return math.Abs(l.Latitude-other.Latitude) <= tol && math.Abs(l.Longitude-other.Longitude) <= tol
}
