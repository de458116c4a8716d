package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chrissnell/glarecontrol/pkg/blinds"
	"github.com/chrissnell/glarecontrol/pkg/glare"
)

var (
	_ ConfigProvider = (*YAMLProvider)(nil)
	_ ConfigProvider = (*SQLiteProvider)(nil)
)

func TestYAMLProviderMissingFile(t *testing.T) {
	p := NewYAMLProvider(filepath.Join(t.TempDir(), "glarecontrol.yaml"))

	exists, err := p.Exists()
	require.NoError(t, err)
	require.False(t, exists)

	cfg, err := p.LoadConfig()
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestYAMLProviderOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glarecontrol.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
# west-facing office
latitude: 47.6
longitude: -122.3
timezone: America/Los_Angeles
window_azimuth: 270
glare_model: three_factor
horizon_obstructions:
  - azimuth_start: 350
    azimuth_end: 10
    min_altitude: 12
blind_steps:
  - {threshold: 0, name: closed}
  - {threshold: 50, name: open}
`), 0o644))

	cfg, err := NewYAMLProvider(path).LoadConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, 47.6, cfg.Latitude)
	require.Equal(t, "America/Los_Angeles", cfg.Timezone)
	require.Equal(t, 270.0, cfg.WindowAzimuth)
	require.Equal(t, glare.ThreeFactor, cfg.Model())
	require.Equal(t, []glare.Obstruction{{AzimuthStart: 350, AzimuthEnd: 10, MinAltitude: 12}}, cfg.HorizonObstructions)
	require.Equal(t, blinds.Steps{{Threshold: 0, Name: "closed"}, {Threshold: 50, Name: "open"}}, cfg.BlindSteps)

	// Untouched keys keep their defaults.
	require.Equal(t, 140.0, cfg.WindowFOV)
	require.Equal(t, 10, cfg.DayBlindMinOpen)
	require.Equal(t, "Reduce Glare", cfg.BlindShortcut)
}

func TestYAMLProviderMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glarecontrol.yaml")
	require.NoError(t, os.WriteFile(path, []byte("latitude: [not, a, number\n"), 0o644))

	_, err := NewYAMLProvider(path).LoadConfig()
	require.Error(t, err)
}

func TestYAMLProviderSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "glarecontrol.yaml")
	p := NewYAMLProvider(path)

	want := Defaults()
	want.UserFacing = 0
	want.GlareResponseCurve = 0.5
	require.NoError(t, p.SaveConfig(want))

	exists, err := p.Exists()
	require.NoError(t, err)
	require.True(t, exists)

	got, err := p.LoadConfig()
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Equal(t, path, p.Path())
	require.NoError(t, p.Close())
}

func newSQLiteProvider(t *testing.T) *SQLiteProvider {
	t.Helper()
	p, err := NewSQLiteProvider(filepath.Join(t.TempDir(), "glarecontrol.db"))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestSQLiteProviderEmptyYieldsDefaults(t *testing.T) {
	p := newSQLiteProvider(t)

	exists, err := p.Exists()
	require.NoError(t, err)
	require.False(t, exists)

	cfg, err := p.LoadConfig()
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestSQLiteProviderSaveAndLoad(t *testing.T) {
	p := newSQLiteProvider(t)

	want := Defaults()
	want.WindowAzimuth = 120
	want.HorizonObstructions = []glare.Obstruction{{AzimuthStart: 80, AzimuthEnd: 100, MinAltitude: 4}}
	require.NoError(t, p.SaveConfig(want))

	exists, err := p.Exists()
	require.NoError(t, err)
	require.True(t, exists)

	got, err := p.LoadConfig()
	require.NoError(t, err)
	require.Equal(t, want, got)

	// Saving again replaces rather than duplicates.
	want.WindowAzimuth = 135
	require.NoError(t, p.SaveConfig(want))
	got, err = p.LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 135.0, got.WindowAzimuth)
}

func TestSQLiteProviderPartialSettings(t *testing.T) {
	p := newSQLiteProvider(t)

	require.NoError(t, p.set("latitude", 51.5))
	require.NoError(t, p.set("timezone", "Europe/London"))
	require.NoError(t, p.set("not_a_setting", true))

	cfg, err := p.LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 51.5, cfg.Latitude)
	require.Equal(t, "Europe/London", cfg.Timezone)
	require.Equal(t, -74.4717, cfg.Longitude)
	require.Equal(t, blinds.DefaultSteps, cfg.BlindSteps)
}

func TestSQLiteProviderWrongType(t *testing.T) {
	p := newSQLiteProvider(t)
	require.NoError(t, p.set("latitude", "north"))

	_, err := p.LoadConfig()
	require.ErrorContains(t, err, "failed to decode settings")
}

func TestSQLiteProviderPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glarecontrol.db")

	p, err := NewSQLiteProvider(path)
	require.NoError(t, err)
	require.NoError(t, p.set("window_fov", 90))
	require.NoError(t, p.Close())

	p, err = NewSQLiteProvider(path)
	require.NoError(t, err)
	defer p.Close()

	cfg, err := p.LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 90.0, cfg.WindowFOV)
	require.Equal(t, path, p.Path())
}
