package config

import (
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"

	"github.com/chrissnell/glarecontrol/pkg/blinds"
	"github.com/chrissnell/glarecontrol/pkg/glare"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	require.Equal(t, 40.7128, cfg.Latitude)
	require.Equal(t, -74.4717, cfg.Longitude)
	require.Equal(t, "America/New_York", cfg.Timezone)
	require.Equal(t, 90.0, cfg.WindowAzimuth)
	require.Equal(t, 140.0, cfg.WindowFOV)
	require.Equal(t, "Reduce Glare", cfg.BlindShortcut)
	require.Equal(t, blinds.DefaultSteps, cfg.BlindSteps)
	require.Equal(t, glare.TwoFactor, cfg.Model())
	require.Equal(t, "horizon_profile.json", cfg.HorizonFile)
	require.Equal(t, "https://api.open-elevation.com/api/v1/lookup", cfg.ElevationAPIURL)

	require.Equal(t, blinds.Curve{ThresholdLow: 20, ThresholdHigh: 100, MinOpen: 10, MaxOpen: 100, Response: 1}, cfg.Curve())
	require.Equal(t, glare.Window{Azimuth: 90, FieldOfView: 140}, cfg.Window())

	loc, err := cfg.TimeLocation()
	require.NoError(t, err)
	require.Equal(t, "America/New_York", loc.String())
}

func TestDefaultsAreIndependent(t *testing.T) {
	a := Defaults()
	a.BlindSteps[0].Name = "changed"
	require.Equal(t, "severe", Defaults().BlindSteps[0].Name)
	require.Equal(t, "severe", blinds.DefaultSteps[0].Name)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigData)
		want   string
	}{
		{"latitude", func(c *ConfigData) { c.Latitude = 91 }, "latitude"},
		{"longitude", func(c *ConfigData) { c.Longitude = -181 }, "longitude"},
		{"timezone", func(c *ConfigData) { c.Timezone = "Mars/Olympus_Mons" }, "timezone"},
		{"empty timezone", func(c *ConfigData) { c.Timezone = "" }, "timezone"},
		{"window azimuth", func(c *ConfigData) { c.WindowAzimuth = 360 }, "window_azimuth"},
		{"window fov", func(c *ConfigData) { c.WindowFOV = 0 }, "window_fov"},
		{"obstruction range", func(c *ConfigData) {
			c.HorizonObstructions = []glare.Obstruction{{AzimuthStart: 80, AzimuthEnd: 400, MinAltitude: 5}}
		}, "horizon_obstructions[0]"},
		{"blind range inverted", func(c *ConfigData) { c.DayBlindMinOpen = 80; c.DayBlindMaxOpen = 20 }, "day blind range"},
		{"blind range too wide", func(c *ConfigData) { c.DayBlindMaxOpen = 120 }, "day blind range"},
		{"response curve", func(c *ConfigData) { c.GlareResponseCurve = 0 }, "glare_response_curve"},
		{"glare model", func(c *ConfigData) { c.GlareModel = "four_factor" }, "four_factor"},
		{"shortcut", func(c *ConfigData) { c.BlindShortcut = "  " }, "blind_shortcut"},
		{"steps", func(c *ConfigData) { c.BlindSteps = blinds.Steps{} }, "blind_steps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestValidateAllowsDegenerateThresholds(t *testing.T) {
	cfg := Defaults()
	cfg.GlareThresholdLow = 60
	cfg.GlareThresholdHigh = 40
	require.NoError(t, cfg.Validate())
}

func TestModelFallsBack(t *testing.T) {
	cfg := Defaults()
	cfg.GlareModel = "Three_Factor"
	require.Equal(t, glare.ThreeFactor, cfg.Model())

	cfg.GlareModel = "bogus"
	require.Equal(t, glare.TwoFactor, cfg.Model())
}
