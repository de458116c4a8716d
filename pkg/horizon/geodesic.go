package horizon

import "math"

// EarthRadiusKm is the mean Earth radius used for the spherical model.
const EarthRadiusKm = 6371.0

// Point is a geographic coordinate in degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DestinationPoint returns the point reached by travelling distanceKm from
// (lat, lon) along the initial bearing (degrees clockwise from north) on a
// sphere.
func DestinationPoint(lat, lon, bearing, distanceKm float64) Point {
	latRad := degToRad(lat)
	lonRad := degToRad(lon)
	brg := degToRad(bearing)
	d := distanceKm / EarthRadiusKm // angular distance

	destLat := math.Asin(math.Sin(latRad)*math.Cos(d) +
		math.Cos(latRad)*math.Sin(d)*math.Cos(brg))

	destLon := lonRad + math.Atan2(
		math.Sin(brg)*math.Sin(d)*math.Cos(latRad),
		math.Cos(d)-math.Sin(latRad)*math.Sin(destLat),
	)

	return Point{
		Latitude:  radToDeg(destLat),
		Longitude: radToDeg(destLon),
	}
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
