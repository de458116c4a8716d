// Package solar computes the apparent position of the Sun for an observer
// using the low-order series from Meeus, "Astronomical Algorithms", ch. 25.
// Positions are good to roughly 0.01 degrees for dates near J2000.
package solar

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// ErrMalformedInput is returned for coordinates or timestamps outside the
// domain of the ephemeris.
var ErrMalformedInput = errors.New("malformed input")

// polarEpsilon bounds cos(lat)*cos(alt) below which the azimuth formula
// divides by (almost) zero.
const polarEpsilon = 1e-12

// Position is the topocentric position of the Sun.
type Position struct {
	Azimuth  float64 `json:"azimuth"`  // degrees [0,360), 0=N, 90=E
	Altitude float64 `json:"altitude"` // degrees above the horizon
}

// Equatorial holds the Sun's apparent equatorial coordinates for an instant.
type Equatorial struct {
	RightAscension float64 // radians (-π, π]
	Declination    float64 // radians
	GMST           float64 // Greenwich mean sidereal time, degrees [0,360)
}

// JulianDay returns the Julian Day for t. The fractional day is built from
// whole seconds of the UTC clock time.
func JulianDay(t time.Time) float64 {
	u := t.UTC()
	y, m, d := u.Date()
	day := float64(d) +
		float64(u.Hour())/24 +
		float64(u.Minute())/1440 +
		float64(u.Second())/86400
	return julian.CalendarGregorianToJD(y, int(m), day)
}

// julianCenturies returns Julian centuries since J2000.0
func julianCenturies(jd float64) float64 {
	return (jd - 2451545.0) / 36525.0
}

// ApparentEquatorial computes the Sun's apparent right ascension and
// declination plus GMST for the Julian Day jd.
func ApparentEquatorial(jd float64) Equatorial {
	T := julianCenturies(jd)

	// Mean longitude and mean anomaly
	L0 := normalizeAngle(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := normalizeAngle(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := degToRad(M)

	// Equation of center
	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(Mrad) +
		(0.019993-0.000101*T)*math.Sin(2*Mrad) +
		0.000289*math.Sin(3*Mrad)

	// Apparent longitude, corrected for nutation and aberration
	omega := 125.04 - 1934.136*T
	lambda := degToRad(L0 + C - 0.00569 - 0.00478*math.Sin(degToRad(omega)))

	epsilon := degToRad(23.439291 - 0.0130042*T)

	ra := math.Atan2(math.Cos(epsilon)*math.Sin(lambda), math.Cos(lambda))
	dec := math.Asin(clamp(math.Sin(epsilon)*math.Sin(lambda), -1, 1))

	gmst := normalizeAngle(280.46061837 +
		360.98564736629*(jd-2451545.0) +
		0.000387933*T*T -
		T*T*T/38710000)

	return Equatorial{RightAscension: ra, Declination: dec, GMST: gmst}
}

// Calculate returns the Sun's azimuth and altitude at t for an observer at
// latitude/longitude in degrees.
func Calculate(t time.Time, latitude, longitude float64) (Position, error) {
	if err := validate(t, latitude, longitude); err != nil {
		return Position{}, err
	}

	eq := ApparentEquatorial(JulianDay(t))

	lst := degToRad(normalizeAngle(eq.GMST + longitude))
	ha := lst - eq.RightAscension
	lat := degToRad(latitude)

	sinAlt := math.Sin(lat)*math.Sin(eq.Declination) +
		math.Cos(lat)*math.Cos(eq.Declination)*math.Cos(ha)
	alt := math.Asin(clamp(sinAlt, -1, 1))

	den := math.Cos(lat) * math.Cos(alt)
	var az float64
	if math.Abs(den) < polarEpsilon {
		// Due south from the north pole, due north from the south pole.
		if latitude >= 0 {
			az = 180
		}
	} else {
		cosAz := clamp((math.Sin(eq.Declination)-math.Sin(lat)*sinAlt)/den, -1, 1)
		az = radToDeg(math.Acos(cosAz))
		if math.Sin(ha) > 0 {
			az = 360 - az
		}
	}

	return Position{
		Azimuth:  normalizeAngle(az),
		Altitude: radToDeg(alt),
	}, nil
}

func validate(t time.Time, latitude, longitude float64) error {
	switch {
	case t.IsZero():
		return fmt.Errorf("%w: zero timestamp", ErrMalformedInput)
	case math.IsNaN(latitude) || latitude < -90 || latitude > 90:
		return fmt.Errorf("%w: latitude %v outside [-90,90]", ErrMalformedInput, latitude)
	case math.IsNaN(longitude) || longitude < -180 || longitude > 180:
		return fmt.Errorf("%w: longitude %v outside [-180,180]", ErrMalformedInput, longitude)
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
