// Package app wires configuration, ephemeris, terrain, and actuation
// into the queries the command line exposes.
package app

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chrissnell/glarecontrol/pkg/blinds"
	"github.com/chrissnell/glarecontrol/pkg/config"
	"github.com/chrissnell/glarecontrol/pkg/glare"
	"github.com/chrissnell/glarecontrol/pkg/horizon"
	"github.com/chrissnell/glarecontrol/pkg/solar"
)

// App represents the main application
type App struct {
	cfg      *config.ConfigData
	logger   *zap.SugaredLogger
	location *time.Location
	actuator blinds.Actuator
	now      func() time.Time

	horizonFile string
	profileOnce sync.Once
	profileSet  bool
	profile     *horizon.Profile
}

// Option customizes an App.
type Option func(*App)

// WithActuator replaces the default shortcut actuator.
func WithActuator(a blinds.Actuator) Option {
	return func(app *App) { app.actuator = a }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(app *App) { app.now = now }
}

// WithHorizonFile overrides the configured horizon profile path.
func WithHorizonFile(path string) Option {
	return func(app *App) {
		if path != "" {
			app.horizonFile = path
		}
	}
}

// WithHorizonProfile supplies a profile directly; the file is never read.
// A nil profile means no profile. The last one given wins.
func WithHorizonProfile(p *horizon.Profile) Option {
	return func(app *App) {
		app.profile = p
		app.profileSet = true
	}
}

// New validates cfg and creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: no configuration", config.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.TimeLocation()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	a := &App{
		cfg:         cfg,
		logger:      logger,
		location:    loc,
		now:         time.Now,
		horizonFile: cfg.HorizonFile,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.actuator == nil {
		a.actuator = blinds.NewShortcutActuator(cfg.BlindShortcut, cfg.BlindSteps, logger)
	}
	return a, nil
}

// Config returns the configuration the app was built with.
func (a *App) Config() *config.ConfigData {
	return a.cfg
}

// Location returns the configured timezone.
func (a *App) Location() *time.Location {
	return a.location
}

// Now returns the current time in the configured timezone.
func (a *App) Now() time.Time {
	return a.now().In(a.location)
}

// HorizonFile returns the path the horizon profile is read from and saved to.
func (a *App) HorizonFile() string {
	return a.horizonFile
}

// HorizonProfile returns the stored horizon profile, loading it on first
// use. An unreadable profile is logged and treated as absent.
func (a *App) HorizonProfile() *horizon.Profile {
	a.profileOnce.Do(func() {
		if a.profileSet {
			return
		}
		p, err := horizon.Load(a.horizonFile)
		if err != nil {
			a.logger.Warnf("ignoring horizon profile: %v", err)
			return
		}
		if p != nil {
			a.logger.Debugf("loaded horizon profile %s with %d buckets", a.horizonFile, len(p.Horizon))
		}
		a.profile = p
	})
	return a.profile
}

func (a *App) terrain() glare.Terrain {
	return glare.Terrain{
		Profile:      a.HorizonProfile(),
		Obstructions: a.cfg.HorizonObstructions,
	}
}

// Analysis is the full evaluation of one instant.
type Analysis struct {
	Time     time.Time      `json:"time"`
	Position solar.Position `json:"position"`
	Compass  string         `json:"compass"`
	Glare    glare.Result   `json:"glare"`
	DayOpen  int            `json:"day_open"`
	Step     string         `json:"step"`
}

// Analyze evaluates sun position, glare, and blind setting at t.
func (a *App) Analyze(t time.Time) (Analysis, error) {
	t = t.In(a.location)

	pos, err := solar.Calculate(t, a.cfg.Latitude, a.cfg.Longitude)
	if err != nil {
		return Analysis{}, err
	}

	result := glare.Analyze(pos, a.cfg.Window(), a.terrain(), a.cfg.Model())
	dayOpen := a.cfg.Curve().DayOpen(result.GlareRisk)

	return Analysis{
		Time:     t,
		Position: pos,
		Compass:  solar.CompassDirection(pos.Azimuth),
		Glare:    result,
		DayOpen:  dayOpen,
		Step:     a.cfg.BlindSteps.Lookup(dayOpen),
	}, nil
}

// Recommendation is the compact automation result.
type Recommendation struct {
	Timestamp   time.Time    `json:"timestamp"`
	SunAzimuth  float64      `json:"sun_azimuth"`
	SunAltitude float64      `json:"sun_altitude"`
	GlareRisk   float64      `json:"glare_risk"`
	Status      glare.Status `json:"status"`
	DayOpen     int          `json:"day_open"`
	Step        string       `json:"step"`
}

// Recommend returns the blind recommendation for the current time.
func (a *App) Recommend(ctx context.Context) (Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return Recommendation{}, err
	}
	return a.RecommendAt(a.now())
}

// RecommendAt returns the blind recommendation for t.
func (a *App) RecommendAt(t time.Time) (Recommendation, error) {
	an, err := a.Analyze(t)
	if err != nil {
		return Recommendation{}, err
	}
	return Recommendation{
		Timestamp:   an.Time,
		SunAzimuth:  round1(an.Position.Azimuth),
		SunAltitude: round1(an.Position.Altitude),
		GlareRisk:   an.Glare.GlareRisk,
		Status:      an.Glare.Status,
		DayOpen:     an.DayOpen,
		Step:        an.Step,
	}, nil
}

// AutoResult reports one automatic adjustment.
type AutoResult struct {
	RunID string `json:"run_id"`
	Recommendation
	DryRun  bool   `json:"dry_run"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Auto computes the current recommendation and drives the actuator to its
// step. Actuator failures are reported in the result, not as an error.
func (a *App) Auto(ctx context.Context, dryRun bool) (AutoResult, error) {
	rec, err := a.Recommend(ctx)
	if err != nil {
		return AutoResult{}, err
	}

	runID := uuid.NewString()
	ok, msg := a.actuator.Invoke(ctx, rec.Step, dryRun)

	a.logger.Infow("blind adjustment",
		"run_id", runID,
		"step", rec.Step,
		"glare_risk", rec.GlareRisk,
		"day_open", rec.DayOpen,
		"dry_run", dryRun,
		"ok", ok,
		"message", msg,
	)

	return AutoResult{
		RunID:          runID,
		Recommendation: rec,
		DryRun:         dryRun,
		OK:             ok,
		Message:        msg,
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
