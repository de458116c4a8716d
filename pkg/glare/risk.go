package glare

import (
	"math"

	"github.com/chrissnell/glarecontrol/pkg/solar"
)

const (
	// Boundaries of the glare classes; a risk exactly on a boundary falls
	// into the lower class.
	HighGlareRisk     = 60
	ModerateGlareRisk = 35

	alignmentBoost = 1.3

	// The problem zone is centred this many degrees counter-clockwise of the
	// window azimuth.
	problemZoneOffset = 45
)

// weighting holds factor weights (summing to 1) and the per-factor
// thresholds that must all be exceeded for the alignment boost.
type weighting struct {
	altitude, entry, azimuth float64

	boostAltitude, boostEntry, boostAz float64
}

var weightings = map[Model]weighting{
	TwoFactor: {
		altitude: 0.5, entry: 0.5,
		boostAltitude: 0.5, boostEntry: 0.5,
	},
	ThreeFactor: {
		altitude: 0.5, entry: 0.25, azimuth: 0.25,
		boostAltitude: 0.5, boostEntry: 0.3, boostAz: 0.3,
	},
}

// AltitudeFactor is 1 for a Sun below 10°, falls linearly to 0 at 25°, and
// is 0 above. Low sun streams in at eye level.
func AltitudeFactor(altitude float64) float64 {
	switch {
	case altitude < 10:
		return 1.0
	case altitude < 25:
		return (25 - altitude) / 15
	default:
		return 0.0
	}
}

// EntryFactor is 1 for sunlight perpendicular to the window and falls
// linearly to 0 at 60° off-axis.
func EntryFactor(entryAngle float64) float64 {
	if entryAngle < 60 {
		return (60 - entryAngle) / 60
	}
	return 0.0
}

// AzimuthFactor measures how close the Sun is to the problem zone of a
// window, falling linearly to 0 at 30° from its centre.
func AzimuthFactor(sunAzimuth, windowAzimuth float64) float64 {
	center := solar.NormalizeAngle(windowAzimuth - problemZoneOffset)
	offset := solar.AngleDifference(sunAzimuth, center)
	if offset < 30 {
		return (30 - offset) / 30
	}
	return 0.0
}

// Analyze evaluates glare for the Sun at pos. Night, terrain blocking and
// a Sun outside the window's field of view short-circuit to a zero risk,
// in that order.
func Analyze(pos solar.Position, w Window, terrain Terrain, model Model) Result {
	if pos.Altitude <= 0 {
		return Result{
			Status:         StatusNight,
			SunAltitude:    round1(pos.Altitude),
			Recommendation: BlindsOpen,
		}
	}

	if terrain.Blocked(pos.Azimuth, pos.Altitude) {
		return Result{
			Status:         StatusBlockedByTerrain,
			SunAltitude:    round1(pos.Altitude),
			Recommendation: BlindsOpen,
		}
	}

	canEnter, entry := CanEnterWindow(pos.Azimuth, pos.Altitude, w)
	if !canEnter {
		return Result{
			Status:         StatusNoDirectSun,
			EntryAngle:     round1(entry),
			SunAltitude:    round1(pos.Altitude),
			Recommendation: BlindsOpen,
		}
	}

	wt, ok := weightings[model]
	if !ok {
		wt = weightings[TwoFactor]
	}

	f := Factors{
		Altitude: AltitudeFactor(pos.Altitude),
		Entry:    EntryFactor(entry),
	}
	if wt.azimuth > 0 {
		f.Azimuth = AzimuthFactor(pos.Azimuth, w.Azimuth)
	}

	risk := 100 * (wt.altitude*f.Altitude + wt.entry*f.Entry + wt.azimuth*f.Azimuth)

	// Reward simultaneous alignment of every glare condition
	aligned := f.Altitude > wt.boostAltitude && f.Entry > wt.boostEntry
	if wt.azimuth > 0 {
		aligned = aligned && f.Azimuth > wt.boostAz
	}
	if aligned {
		risk = math.Min(100, risk*alignmentBoost)
	}
	risk = math.Min(100, math.Max(0, risk))

	status, rec := Classify(risk)
	return Result{
		Status:         status,
		CanEnterWindow: true,
		EntryAngle:     round1(entry),
		SunAltitude:    round1(pos.Altitude),
		GlareRisk:      round1(risk),
		Recommendation: rec,
		Factors:        f,
	}
}

// Classify maps a glare risk to its status and recommendation.
func Classify(risk float64) (Status, Recommendation) {
	switch {
	case risk > HighGlareRisk:
		return StatusHighGlare, BlindsClosed
	case risk > ModerateGlareRisk:
		return StatusModerateGlare, BlindsPartial
	default:
		return StatusLowGlare, BlindsOpen
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
