package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/chrissnell/glarecontrol/internal/app"
	"github.com/chrissnell/glarecontrol/pkg/config"
	"github.com/chrissnell/glarecontrol/pkg/glare"
	"github.com/chrissnell/glarecontrol/pkg/horizon"
	"github.com/chrissnell/glarecontrol/pkg/solar"
)

const significantHorizonAngle = 2.0

func rule(n int) string {
	return strings.Repeat("=", n)
}

func latitudeString(lat float64) string {
	if lat < 0 {
		return fmt.Sprintf("%.4f°S", -lat)
	}
	return fmt.Sprintf("%.4f°N", lat)
}

func longitudeString(lon float64) string {
	if lon < 0 {
		return fmt.Sprintf("%.4f°W", -lon)
	}
	return fmt.Sprintf("%.4f°E", lon)
}

func facing(az float64) string {
	return fmt.Sprintf("%g° (%s)", az, solar.CompassDirection(az))
}

func altitudeNote(alt float64) string {
	switch {
	case alt <= 0:
		return " (below horizon)"
	case alt < 10:
		return " (very low)"
	case alt < 30:
		return " (low)"
	}
	return ""
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func printSunInfo(w io.Writer, cfg *config.ConfigData, an app.Analysis) {
	fmt.Fprintf(w, "\n%s\n", rule(60))
	fmt.Fprintf(w, "Sun Position - %s\n", an.Time.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintln(w, rule(60))
	fmt.Fprintf(w, "Location: %s, %s\n", latitudeString(cfg.Latitude), longitudeString(cfg.Longitude))
	fmt.Fprintln(w, rule(60))
	fmt.Fprintln(w, "Room Setup:")
	fmt.Fprintf(w, "  Window faces:  %s\n", facing(cfg.WindowAzimuth))
	fmt.Fprintf(w, "  Monitor faces: %s\n", facing(cfg.MonitorFacing))
	fmt.Fprintf(w, "  User faces:    %s\n", facing(cfg.UserFacing))
	fmt.Fprintln(w, rule(60))
	fmt.Fprintf(w, "Sun Azimuth:  %6.1f° (%s)\n", an.Position.Azimuth, an.Compass)
	fmt.Fprintf(w, "Sun Altitude: %6.1f°%s\n", an.Position.Altitude, altitudeNote(an.Position.Altitude))
	fmt.Fprintln(w, rule(60))
	fmt.Fprintln(w, "Glare Analysis:")
	fmt.Fprintf(w, "  Can enter window: %s\n", yesNo(an.Glare.CanEnterWindow))
	if an.Glare.CanEnterWindow {
		fmt.Fprintf(w, "  Entry angle:      %.1f° from perpendicular\n", an.Glare.EntryAngle)
	}
	fmt.Fprintf(w, "  Glare Risk:       %.1f%%\n", an.Glare.GlareRisk)
	fmt.Fprintf(w, "  Status:           %s\n", an.Glare.Status)
	fmt.Fprintln(w, rule(60))
	fmt.Fprintln(w, "Blind Recommendation:")
	fmt.Fprintf(w, "  Position: %d%% open  (%s)\n", an.DayOpen, an.Step)
	fmt.Fprintf(w, "%s\n\n", rule(60))
}

var statusIcons = map[glare.Status]string{
	glare.StatusNight:            "    ",
	glare.StatusBlockedByTerrain: " ▇▇ ",
	glare.StatusNoDirectSun:      " -- ",
	glare.StatusLowGlare:         " OK ",
	glare.StatusModerateGlare:    " !! ",
	glare.StatusHighGlare:        ">>>>",
}

func printTimeline(w io.Writer, cfg *config.ConfigData, tl app.Timeline) {
	fmt.Fprintf(w, "\n%s\n", rule(85))
	fmt.Fprintf(w, "Morning Timeline - %s", tl.Date.Format("2006-01-02"))
	if tl.Sunrise != nil {
		fmt.Fprintf(w, " (sunrise %s)", tl.Sunrise.Format("15:04"))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Window: %s | Monitor: %s\n", facing(cfg.WindowAzimuth), facing(cfg.MonitorFacing))
	fmt.Fprintln(w, rule(85))
	fmt.Fprintf(w, "%8s | %12s | %6s | %7s | %5s | %-14s | Status\n", "Time", "Sun", "Alt", "Glare", "Day", "Step")
	fmt.Fprintln(w, strings.Repeat("-", 85))

	for _, row := range tl.Rows {
		fmt.Fprintf(w, "%8s | %5.0f° %4s | %5.1f° | %5.1f%% | %3d%% | %-14s | %s %s\n",
			row.Time.Format("15:04"), row.Azimuth, row.Compass, row.Altitude,
			row.GlareRisk, row.DayOpen, row.Step, statusIcons[row.Status], row.Status)
	}
	fmt.Fprintf(w, "%s\n\n", rule(85))
}

func printYearly(w io.Writer, months []app.MonthGlare) {
	fmt.Fprintf(w, "\n%s\n", rule(75))
	fmt.Fprintln(w, "Yearly Glare Analysis - When to close blinds")
	fmt.Fprintln(w, rule(75))
	fmt.Fprintf(w, "%10s | %12s | %12s | %10s | Peak Risk\n", "Month", "Glare Start", "Glare End", "Duration")
	fmt.Fprintln(w, strings.Repeat("-", 75))

	for _, mg := range months {
		if mg.Start == nil {
			fmt.Fprintf(w, "%10s | %12s | %12s | %10s | %.0f%%\n", mg.Month, "--", "--", "--", mg.PeakRisk)
			continue
		}
		mins := int(mg.Duration.Minutes())
		fmt.Fprintf(w, "%10s | %12s | %12s | %10s | %.0f%% @ %s\n",
			mg.Month, mg.Start.Format("15:04"), mg.End.Format("15:04"),
			fmt.Sprintf("%dh %dm", mins/60, mins%60), mg.PeakRisk, mg.PeakTime.Format("15:04"))
	}
	fmt.Fprintf(w, "%s\n\n", rule(75))
}

func printHorizonProfile(w io.Writer, p *horizon.Profile) {
	fmt.Fprintf(w, "\n%s\n", rule(70))
	fmt.Fprintln(w, "Horizon Profile (minimum sun altitude to be visible)")
	fmt.Fprintln(w, rule(70))

	significant := p.Significant(significantHorizonAngle)
	if len(significant) == 0 {
		fmt.Fprintln(w, "No significant terrain obstructions detected.")
		fmt.Fprintln(w, "The horizon is relatively flat in all directions.")
	} else {
		fmt.Fprintf(w, "\nSignificant obstructions (>%g° horizon angle):\n\n", significantHorizonAngle)
		fmt.Fprintf(w, "%10s %10s %10s\n", "Azimuth", "Direction", "Horizon")
		fmt.Fprintln(w, strings.Repeat("-", 35))
		for _, o := range significant {
			bar := strings.Repeat("█", int(o.Angle/2))
			fmt.Fprintf(w, "%10d° %10s %9.1f° %s\n", o.Azimuth, solar.CompassDirection(float64(o.Azimuth)), o.Angle, bar)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("-", 70))
	fmt.Fprintln(w, "Full profile (azimuth: horizon angle):")
	fmt.Fprintln(w)

	var line strings.Builder
	for az := 0; az < 360; az += horizon.BucketSize {
		fmt.Fprintf(&line, "%3d°:%4.1f  ", az, p.Horizon[az])
		if (az+horizon.BucketSize)%60 == 0 {
			fmt.Fprintln(w, line.String())
			line.Reset()
		}
	}
	if line.Len() > 0 {
		fmt.Fprintln(w, line.String())
	}
	fmt.Fprintln(w, rule(70))
}

func printConfig(w io.Writer, a *app.App, path string, exists bool) {
	cfg := a.Config()

	configStatus := "No (using defaults)"
	if exists {
		configStatus = "Yes"
	}

	obstructions := "None"
	if len(cfg.HorizonObstructions) > 0 {
		parts := make([]string, len(cfg.HorizonObstructions))
		for i, o := range cfg.HorizonObstructions {
			parts[i] = fmt.Sprintf("%g°-%g°: %g°", o.AzimuthStart, o.AzimuthEnd, o.MinAltitude)
		}
		obstructions = strings.Join(parts, ", ")
	}

	fmt.Fprintf(w, `
Current Configuration
=====================
Config source: %s
Config exists: %s

Location:
  Latitude:   %s
  Longitude:  %s
  Elevation:  %g ft
  Timezone:   %s

Room Setup:
  Window:     %s, %g° field of view
  Monitor:    %s
  User:       %s

Day Blind Settings:
  Range:           %d%% - %d%% open
  Glare threshold: %g%% (low) - %g%% (high)
  Response curve:  %g (1.0=linear, <1=aggressive, >1=gentler)
  Glare model:     %s

Steps for Shortcuts:
  %s

Terrain:
  Manual obstructions: %s
  GIS horizon profile: %s (%s)

`,
		path, configStatus,
		latitudeString(cfg.Latitude), longitudeString(cfg.Longitude),
		math.Round(cfg.Elevation*10)/10, cfg.Timezone,
		facing(cfg.WindowAzimuth), cfg.WindowFOV, facing(cfg.MonitorFacing), facing(cfg.UserFacing),
		cfg.DayBlindMinOpen, cfg.DayBlindMaxOpen,
		cfg.GlareThresholdLow, cfg.GlareThresholdHigh,
		cfg.GlareResponseCurve, cfg.Model(),
		cfg.BlindSteps,
		obstructions,
		yesNo(a.HorizonProfile() != nil), a.HorizonFile(),
	)
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `
Sun position and glare calculator for blinds automation

Usage:
  glarecontrol [flags] [mode]

Automatic control (recommended):
  auto          Run the shortcut to set the blinds
  auto-dry      Show what would run (no changes)

Manual/debug:
  (no mode)     Full analysis with morning timeline and yearly summary
  status        One-line status
  json          Full recommendation as JSON (or --format msgpack)
  step          Step name only (e.g. severe/high/moderate/low/none)
  day           Day blind open % (0-100)
  risk          Glare risk % (0-100)
  timeline      Morning timeline for today (or --time)
  yearly        Glare window on the 15th of each month

Configuration:
  config        Show current configuration
  config-init   Create the config with defaults

Terrain/horizon:
  horizon       Calculate the horizon from elevation data
  horizon-show  Show the saved horizon profile

Flags:
  --config PATH            configuration source (default glarecontrol.yaml)
  --config-backend NAME    'yaml' or 'sqlite' (default yaml)
  --horizon-file PATH      horizon profile path
  --time RFC3339           analyze this time instead of now
  --format NAME            'json' or 'msgpack'; with timeline, yearly or
                           horizon-show, encodes the report instead
  --log-file PATH          write logs to a rotated file
  --debug                  turn on debugging output
  --version                show version and exit

Setup:
  1. Run 'config-init' to create the config
  2. Set latitude, longitude, and timezone for your location, and
     window_azimuth, monitor_facing, and user_facing for your room
  3. Create a Shortcut named 'Reduce Glare' that accepts text input;
     it receives one of the configured step names
  4. (Optional) Run 'horizon' to detect hills and mountains blocking the sun
`)
}
