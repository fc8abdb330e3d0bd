package clearance

const (
	// VerticalSafetyMarginM is added to cargo height before judging a waypoint
	VerticalSafetyMarginM = 0.3

	// HorizontalSafetyMarginM is added to cargo width before judging a waypoint
	HorizontalSafetyMarginM = 0.5
)

// Cargo represents the outer dimensions of a load in meters
type Cargo struct {
	HeightM float64 `json:"height_m"`
	WidthM  float64 `json:"width_m"`
}

// Waypoint represents one clearance-limited point along a route
type Waypoint struct {
	Name       string  `json:"name"`
	MaxHeightM float64 `json:"max_height_m"`
	MaxWidthM  float64 `json:"max_width_m"`
}

// Assessment is the result of judging a route for a given cargo
type Assessment struct {
	Passable bool       `json:"passable"`
	Blocked  []Waypoint `json:"blocked,omitempty"`
}

// WaypointPassable reports whether the cargo plus safety margins fits both
// axes of the waypoint. A zero limit on an axis means the waypoint imposes
// no limit there.
func WaypointPassable(cargo Cargo, wp Waypoint) bool {
	if wp.MaxHeightM > 0 && cargo.HeightM+VerticalSafetyMarginM > wp.MaxHeightM {
		return false
	}
	if wp.MaxWidthM > 0 && cargo.WidthM+HorizontalSafetyMarginM > wp.MaxWidthM {
		return false
	}
	return true
}

// AssessRoute judges every waypoint and reports the blocking ones. A route
// is passable only when every waypoint passes; an empty route passes.
func AssessRoute(cargo Cargo, route []Waypoint) Assessment {
	assessment := Assessment{Passable: true}
	for _, wp := range route {
		if !WaypointPassable(cargo, wp) {
			assessment.Passable = false
			assessment.Blocked = append(assessment.Blocked, wp)
		}
	}
	return assessment
}
