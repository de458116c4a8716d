package glare

import "github.com/chrissnell/glarecontrol/pkg/horizon"

// Obstruction is a manually configured block of the horizon. The azimuth
// range is inclusive and wraps through north when AzimuthStart > AzimuthEnd.
type Obstruction struct {
	AzimuthStart float64 `json:"azimuth_start" yaml:"azimuth_start"`
	AzimuthEnd   float64 `json:"azimuth_end" yaml:"azimuth_end"`
	MinAltitude  float64 `json:"min_altitude" yaml:"min_altitude"`
}

// Contains reports whether azimuth falls inside the obstruction's range.
func (o Obstruction) Contains(azimuth float64) bool {
	if o.AzimuthStart <= o.AzimuthEnd {
		return o.AzimuthStart <= azimuth && azimuth <= o.AzimuthEnd
	}
	return azimuth >= o.AzimuthStart || azimuth <= o.AzimuthEnd
}

// Terrain combines an optional generated horizon profile with manual
// obstructions.
type Terrain struct {
	Profile      *horizon.Profile
	Obstructions []Obstruction
}

// Blocked reports whether the Sun at (azimuth, altitude) is hidden by
// terrain. A profile bucket, when present, is authoritative; manual
// obstructions are consulted only when the profile is absent or has no
// entry for the bucket.
func (t Terrain) Blocked(azimuth, altitude float64) bool {
	if angle, ok := t.Profile.Angle(azimuth); ok {
		return altitude < angle
	}

	for _, o := range t.Obstructions {
		if o.Contains(azimuth) && altitude < o.MinAltitude {
			return true
		}
	}
	return false
}
