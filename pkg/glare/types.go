// Package glare decides whether the Sun shines through a window onto a
// monitor and scores how bad the resulting glare is.
package glare

import (
	"fmt"
	"strings"
)

// Status classifies the glare situation.
type Status string

const (
	StatusNight            Status = "night"
	StatusNoDirectSun      Status = "no_direct_sun"
	StatusBlockedByTerrain Status = "blocked_by_terrain"
	StatusLowGlare         Status = "low_glare"
	StatusModerateGlare    Status = "moderate_glare"
	StatusHighGlare        Status = "high_glare"
)

// Recommendation is the coarse blind setting for a Status.
type Recommendation string

const (
	BlindsOpen    Recommendation = "blinds_open"
	BlindsPartial Recommendation = "blinds_partial"
	BlindsClosed  Recommendation = "blinds_closed"
)

// Model selects the glare weighting scheme.
type Model string

const (
	// TwoFactor weighs sun altitude and window entry angle equally.
	TwoFactor Model = "two_factor"
	// ThreeFactor adds alignment with a problem zone 45° left of the window.
	ThreeFactor Model = "three_factor"
)

// ParseModel resolves a configured model name. An empty name selects TwoFactor.
func ParseModel(name string) (Model, error) {
	switch Model(strings.ToLower(strings.TrimSpace(name))) {
	case "", TwoFactor:
		return TwoFactor, nil
	case ThreeFactor:
		return ThreeFactor, nil
	}
	return "", fmt.Errorf("unknown glare model %q (want %q or %q)", name, TwoFactor, ThreeFactor)
}

// DefaultFieldOfView is the horizontal opening of a window in degrees.
const DefaultFieldOfView = 140

// Window describes the opening the Sun has to pass through.
type Window struct {
	Azimuth     float64 // direction the window faces
	FieldOfView float64 // degrees; zero means DefaultFieldOfView
}

func (w Window) fov() float64 {
	if w.FieldOfView <= 0 {
		return DefaultFieldOfView
	}
	return w.FieldOfView
}

// Factors are the normalized [0,1] components of the glare score.
type Factors struct {
	Altitude float64 `json:"altitude"`
	Entry    float64 `json:"entry"`
	Azimuth  float64 `json:"azimuth"`
}

// Result is the outcome of a glare analysis.
type Result struct {
	Status         Status         `json:"status"`
	CanEnterWindow bool           `json:"can_enter_window"`
	EntryAngle     float64        `json:"entry_angle"`
	SunAltitude    float64        `json:"sun_altitude"`
	GlareRisk      float64        `json:"glare_risk"`
	Recommendation Recommendation `json:"recommendation"`
	Factors        Factors        `json:"factors"`
}
