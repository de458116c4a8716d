package app

import (
	"context"

	"github.com/chrissnell/glarecontrol/pkg/horizon"
)

// BuildHorizon samples the terrain around the configured location and
// returns a new profile. Lookup failures leave flat buckets and are logged
// by the builder; only cancellation is returned as an error.
func (a *App) BuildHorizon(ctx context.Context, lookup horizon.ElevationLookup) (*horizon.Profile, error) {
	obs := horizon.Observer{
		Latitude:    a.cfg.Latitude,
		Longitude:   a.cfg.Longitude,
		ElevationFt: a.cfg.Elevation,
	}

	a.logger.Infof("building horizon profile for %.4f, %.4f", obs.Latitude, obs.Longitude)

	angles, err := horizon.NewBuilder(lookup, a.logger).Build(ctx, obs, horizon.DefaultAzimuthStep, horizon.DefaultDistancesKm)
	if err != nil {
		return nil, err
	}

	return &horizon.Profile{
		Generated: horizon.Timestamp{Time: a.Now()},
		Location: horizon.Location{
			Latitude:    obs.Latitude,
			Longitude:   obs.Longitude,
			ElevationFt: obs.ElevationFt,
		},
		Horizon: angles,
	}, nil
}

// SaveHorizon writes p to the horizon file. Analyses made afterwards by
// this App keep using the profile loaded before the save.
func (a *App) SaveHorizon(p *horizon.Profile) error {
	if err := horizon.Save(a.horizonFile, p); err != nil {
		return err
	}
	a.logger.Infof("saved horizon profile to %s", a.horizonFile)
	return nil
}
