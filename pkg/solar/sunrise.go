package solar

import (
	"math"
	"time"
)

// hourAngleRate is the mean advance of the Sun's hour angle in degrees per day.
const hourAngleRate = 360.0

// Transit returns the time of solar noon nearest to 12:00 UTC shifted by the
// observer's longitude on day's calendar date.
func Transit(day time.Time, longitude float64) time.Time {
	y, m, d := day.Date()
	guess := time.Date(y, m, d, 12, 0, 0, 0, time.UTC).
		Add(-time.Duration(longitude / 15 * float64(time.Hour)))

	eq := ApparentEquatorial(JulianDay(guess))
	ha := signedAngle(eq.GMST + longitude - radToDeg(eq.RightAscension))
	return guess.Add(-time.Duration(ha / hourAngleRate * 24 * float64(time.Hour)))
}

// SunriseSunset returns the times the Sun's centre crosses the geometric
// horizon on day's calendar date. ok is false during polar day or polar night.
func SunriseSunset(day time.Time, latitude, longitude float64) (sunrise, sunset time.Time, ok bool) {
	noon := Transit(day, longitude)
	eq := ApparentEquatorial(JulianDay(noon))

	lat := degToRad(latitude)
	// At sunrise/sunset the altitude is zero:
	// cos(H) = -tan(lat) * tan(declination)
	cosH := -math.Tan(lat) * math.Tan(eq.Declination)
	if cosH < -1 || cosH > 1 || math.IsNaN(cosH) {
		return time.Time{}, time.Time{}, false
	}

	h0 := radToDeg(math.Acos(cosH))
	half := time.Duration(h0 / hourAngleRate * 24 * float64(time.Hour))

	loc := day.Location()
	return noon.Add(-half).In(loc), noon.Add(half).In(loc), true
}

// signedAngle wraps an angle to the range [-180, 180)
func signedAngle(angle float64) float64 {
	return normalizeAngle(angle+180) - 180
}
