// Package config loads the site, room, and blind settings from YAML or
// SQLite and validates them.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chrissnell/glarecontrol/pkg/blinds"
	"github.com/chrissnell/glarecontrol/pkg/elevation"
	"github.com/chrissnell/glarecontrol/pkg/glare"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

const (
	DefaultHorizonFile   = "horizon_profile.json"
	DefaultBlindShortcut = "Reduce Glare"
)

// ConfigData represents the complete configuration structure
type ConfigData struct {
	// Location
	Latitude  float64 `yaml:"latitude" json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`
	Elevation float64 `yaml:"elevation" json:"elevation"` // feet
	Timezone  string  `yaml:"timezone" json:"timezone"`

	// Room geometry, degrees clockwise from north
	WindowAzimuth       float64             `yaml:"window_azimuth" json:"window_azimuth"`
	WindowFOV           float64             `yaml:"window_fov" json:"window_fov"`
	MonitorFacing       float64             `yaml:"monitor_facing" json:"monitor_facing"`
	UserFacing          float64             `yaml:"user_facing" json:"user_facing"`
	HorizonObstructions []glare.Obstruction `yaml:"horizon_obstructions" json:"horizon_obstructions"`

	// Day blind response
	DayBlindMinOpen    int     `yaml:"day_blind_min_open" json:"day_blind_min_open"`
	DayBlindMaxOpen    int     `yaml:"day_blind_max_open" json:"day_blind_max_open"`
	GlareThresholdLow  float64 `yaml:"glare_threshold_low" json:"glare_threshold_low"`
	GlareThresholdHigh float64 `yaml:"glare_threshold_high" json:"glare_threshold_high"`
	GlareResponseCurve float64 `yaml:"glare_response_curve" json:"glare_response_curve"`
	GlareModel         string  `yaml:"glare_model" json:"glare_model"`

	// Actuation
	BlindShortcut string       `yaml:"blind_shortcut" json:"blind_shortcut"`
	BlindSteps    blinds.Steps `yaml:"blind_steps" json:"blind_steps"`

	// Files and services
	HorizonFile     string `yaml:"horizon_file" json:"horizon_file"`
	ElevationAPIURL string `yaml:"elevation_api_url" json:"elevation_api_url"`
}

// Defaults returns a fresh copy of the default configuration.
func Defaults() *ConfigData {
	steps := make(blinds.Steps, len(blinds.DefaultSteps))
	copy(steps, blinds.DefaultSteps)

	return &ConfigData{
		Latitude:  40.7128,
		Longitude: -74.4717,
		Elevation: 0,
		Timezone:  "America/New_York",

		WindowAzimuth:       90,
		WindowFOV:           glare.DefaultFieldOfView,
		MonitorFacing:       180,
		UserFacing:          270,
		HorizonObstructions: []glare.Obstruction{},

		DayBlindMinOpen:    10,
		DayBlindMaxOpen:    100,
		GlareThresholdLow:  20,
		GlareThresholdHigh: 100,
		GlareResponseCurve: 1.0,
		GlareModel:         string(glare.TwoFactor),

		BlindShortcut: DefaultBlindShortcut,
		BlindSteps:    steps,

		HorizonFile:     DefaultHorizonFile,
		ElevationAPIURL: elevation.DefaultURL,
	}
}

// Validate checks ranges and cross-field constraints.
func (c *ConfigData) Validate() error {
	var problems []string
	bad := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Latitude < -90 || c.Latitude > 90 {
		bad("latitude %v outside [-90,90]", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		bad("longitude %v outside [-180,180]", c.Longitude)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil || strings.TrimSpace(c.Timezone) == "" {
		bad("unknown timezone %q", c.Timezone)
	}

	for _, f := range []struct {
		name string
		az   float64
	}{
		{"window_azimuth", c.WindowAzimuth},
		{"monitor_facing", c.MonitorFacing},
		{"user_facing", c.UserFacing},
	} {
		if f.az < 0 || f.az >= 360 {
			bad("%s %v outside [0,360)", f.name, f.az)
		}
	}
	if c.WindowFOV <= 0 || c.WindowFOV > 360 {
		bad("window_fov %v outside (0,360]", c.WindowFOV)
	}
	for i, o := range c.HorizonObstructions {
		if o.AzimuthStart < 0 || o.AzimuthStart > 360 || o.AzimuthEnd < 0 || o.AzimuthEnd > 360 {
			bad("horizon_obstructions[%d] azimuth range %v-%v outside [0,360]", i, o.AzimuthStart, o.AzimuthEnd)
		}
		if o.MinAltitude < -90 || o.MinAltitude > 90 {
			bad("horizon_obstructions[%d] min_altitude %v outside [-90,90]", i, o.MinAltitude)
		}
	}

	if c.DayBlindMinOpen < 0 || c.DayBlindMaxOpen > 100 || c.DayBlindMinOpen > c.DayBlindMaxOpen {
		bad("day blind range %d-%d must satisfy 0 <= min <= max <= 100", c.DayBlindMinOpen, c.DayBlindMaxOpen)
	}
	if c.GlareThresholdLow < 0 || c.GlareThresholdHigh < 0 {
		bad("glare thresholds must not be negative")
	}
	if c.GlareResponseCurve <= 0 {
		bad("glare_response_curve %v must be positive", c.GlareResponseCurve)
	}
	if _, err := glare.ParseModel(c.GlareModel); err != nil {
		bad("%v", err)
	}

	if strings.TrimSpace(c.BlindShortcut) == "" {
		bad("blind_shortcut is empty")
	}
	if err := c.BlindSteps.Validate(); err != nil {
		bad("blind_steps: %v", err)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// TimeLocation loads the configured timezone.
func (c *ConfigData) TimeLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// Window returns the window geometry.
func (c *ConfigData) Window() glare.Window {
	return glare.Window{Azimuth: c.WindowAzimuth, FieldOfView: c.WindowFOV}
}

// Curve returns the day-blind response curve.
func (c *ConfigData) Curve() blinds.Curve {
	return blinds.Curve{
		ThresholdLow:  c.GlareThresholdLow,
		ThresholdHigh: c.GlareThresholdHigh,
		MinOpen:       c.DayBlindMinOpen,
		MaxOpen:       c.DayBlindMaxOpen,
		Response:      c.GlareResponseCurve,
	}
}

// Model returns the glare model, falling back to the two-factor model
// for a name Validate would reject.
func (c *ConfigData) Model() glare.Model {
	m, err := glare.ParseModel(c.GlareModel)
	if err != nil {
		return glare.TwoFactor
	}
	return m
}
