package glare

import "github.com/chrissnell/glarecontrol/pkg/solar"

// NotEnteringAngle is reported as the entry angle when the Sun is below
// the horizon.
const NotEnteringAngle = 180

// CanEnterWindow reports whether direct sunlight can pass through the window
// and the angle between the Sun's azimuth and the window's facing.
func CanEnterWindow(sunAzimuth, sunAltitude float64, w Window) (bool, float64) {
	if sunAltitude <= 0 {
		return false, NotEnteringAngle
	}

	entry := solar.AngleDifference(sunAzimuth, w.Azimuth)
	return entry <= w.fov()/2, entry
}
