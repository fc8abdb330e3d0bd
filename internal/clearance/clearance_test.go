package clearance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaypointPassable(t *testing.T) {
	cargo := Cargo{HeightM: 3.0, WidthM: 2.4}

	t.Run("Fits With Margin", func(t *testing.T) {
		assert.True(t, WaypointPassable(cargo, Waypoint{MaxHeightM: 3.4, MaxWidthM: 3.0}))
	})

	t.Run("Margin Pushes Over Height Limit", func(t *testing.T) {
		// 3.0 + 0.3 > 3.2 even though the bare cargo would fit
		assert.False(t, WaypointPassable(cargo, Waypoint{MaxHeightM: 3.2, MaxWidthM: 3.0}))
	})

	t.Run("Margin Pushes Over Width Limit", func(t *testing.T) {
		// 2.4 + 0.5 > 2.8
		assert.False(t, WaypointPassable(cargo, Waypoint{MaxHeightM: 4.0, MaxWidthM: 2.8}))
	})

	t.Run("Zero Limit Means No Limit", func(t *testing.T) {
		assert.True(t, WaypointPassable(cargo, Waypoint{}))
		assert.True(t, WaypointPassable(cargo, Waypoint{MaxHeightM: 3.4}))
	})
}

func TestAssessRoute(t *testing.T) {
	cargo := Cargo{HeightM: 3.0, WidthM: 2.4}
	low := Waypoint{Name: "Rail underpass", MaxHeightM: 3.1}
	narrow := Waypoint{Name: "Old market gate", MaxWidthM: 2.6}
	open := Waypoint{Name: "Toll gate", MaxHeightM: 4.5, MaxWidthM: 4.0}

	t.Run("Blocked Waypoints Reported", func(t *testing.T) {
		result := AssessRoute(cargo, []Waypoint{open, low, narrow})
		assert.False(t, result.Passable)
		require.Len(t, result.Blocked, 2)
		assert.Equal(t, "Rail underpass", result.Blocked[0].Name)
		assert.Equal(t, "Old market gate", result.Blocked[1].Name)
	})

	t.Run("All Clear", func(t *testing.T) {
		result := AssessRoute(cargo, []Waypoint{open})
		assert.True(t, result.Passable)
		assert.Empty(t, result.Blocked)
	})

	t.Run("Empty Route Passes", func(t *testing.T) {
		assert.True(t, AssessRoute(cargo, nil).Passable)
	})
}
