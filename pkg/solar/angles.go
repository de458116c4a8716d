package solar

import "math"

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW",
}

// normalizeAngle wraps an angle to the range [0, 360)
func normalizeAngle(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle < 0 {
		angle += 360
	}
	// math.Mod can hand back -0 or a value that rounds up to 360 after the add
	if angle >= 360 {
		angle = 0
	}
	return angle + 0
}

// NormalizeAngle wraps an angle in degrees to the range [0, 360).
func NormalizeAngle(angle float64) float64 {
	return normalizeAngle(angle)
}

// AngleDifference returns the shortest arc in degrees between two azimuths.
// The result is symmetric and lies in [0, 180].
func AngleDifference(a, b float64) float64 {
	diff := math.Mod(math.Abs(a-b), 360)
	return math.Min(diff, 360-diff)
}

// CompassDirection converts an azimuth to one of 16 compass points.
// Halfway cases round to even, so the mapping is periodic in 360 degrees.
func CompassDirection(azimuth float64) string {
	idx := int(math.RoundToEven(azimuth/22.5)) % 16
	if idx < 0 {
		idx += 16
	}
	return compassPoints[idx]
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func radToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
