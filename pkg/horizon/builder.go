package horizon

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

const (
	// DefaultBatchSize is the number of points sent per elevation request.
	DefaultBatchSize = 100
	// DefaultAzimuthStep is the azimuth spacing of generated profiles.
	DefaultAzimuthStep = BucketSize
	// DefaultConcurrency bounds the number of batches in flight.
	DefaultConcurrency = 4

	feetToMeters = 0.3048
)

// DefaultDistancesKm are the sample distances along each bearing.
var DefaultDistancesKm = []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0}

// ElevationLookup resolves terrain elevations. The returned slice has the
// same length and order as points; nil entries are unknown elevations.
type ElevationLookup interface {
	Elevations(ctx context.Context, points []Point) ([]*float64, error)
}

// Observer is the location a horizon profile is computed for.
type Observer struct {
	Latitude    float64
	Longitude   float64
	ElevationFt float64
}

// Builder samples terrain around an observer and derives horizon angles.
type Builder struct {
	Lookup      ElevationLookup
	BatchSize   int
	Concurrency int
	Logger      *zap.SugaredLogger
}

// NewBuilder returns a Builder with default batching.
func NewBuilder(lookup ElevationLookup, logger *zap.SugaredLogger) *Builder {
	return &Builder{
		Lookup:      lookup,
		BatchSize:   DefaultBatchSize,
		Concurrency: DefaultConcurrency,
		Logger:      logger,
	}
}

type sample struct {
	azimuth    int
	distanceKm float64
}

// Build computes the horizon angle for every azimuth 0, step, 2*step, ...
// below 360. Points whose elevation is unknown are skipped; an azimuth with
// no known points gets a flat (0°) horizon. Only context cancellation is
// returned as an error: lookup failures degrade the profile instead.
func (b *Builder) Build(ctx context.Context, obs Observer, azimuthStep int, distancesKm []float64) (map[int]float64, error) {
	if b.Lookup == nil {
		return nil, errors.New("horizon builder has no elevation lookup")
	}
	if azimuthStep <= 0 || azimuthStep > 360 {
		return nil, fmt.Errorf("azimuth step %d outside (0,360]", azimuthStep)
	}
	if len(distancesKm) == 0 {
		distancesKm = DefaultDistancesKm
	}
	logger := b.logger()

	var (
		points  []Point
		samples []sample
	)
	for az := 0; az < 360; az += azimuthStep {
		for _, dist := range distancesKm {
			points = append(points, DestinationPoint(obs.Latitude, obs.Longitude, float64(az), dist))
			samples = append(samples, sample{azimuth: az, distanceKm: dist})
		}
	}

	logger.Infof("sampling %d azimuths x %d distances = %d points",
		(359/azimuthStep)+1, len(distancesKm), len(points))

	elevations, err := b.fetch(ctx, points)
	if err != nil {
		return nil, err
	}

	observerM := obs.ElevationFt * feetToMeters
	angles := make(map[int][]float64)
	for i, s := range samples {
		if _, ok := angles[s.azimuth]; !ok {
			angles[s.azimuth] = []float64{0}
		}
		if elevations[i] == nil {
			continue
		}
		diff := *elevations[i] - observerM
		angle := radToDeg(math.Atan2(diff, s.distanceKm*1000))
		angles[s.azimuth] = append(angles[s.azimuth], angle)
	}

	horizon := make(map[int]float64, len(angles))
	for az, a := range angles {
		horizon[az] = math.Round(math.Max(0, floats.Max(a))*10) / 10
	}
	return horizon, nil
}

// fetch looks up all points in batches. Batches run concurrently and write
// into their own slice window, so result order matches points.
func (b *Builder) fetch(ctx context.Context, points []Point) ([]*float64, error) {
	size := b.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	limit := b.Concurrency
	if limit <= 0 {
		limit = 1
	}
	logger := b.logger()

	out := make([]*float64, len(points))
	total := (len(points) + size - 1) / size

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for start := 0; start < len(points); start += size {
		end := min(start+size, len(points))
		batchNum := start/size + 1
		g.Go(func() error {
			logger.Debugf("elevation batch %d/%d (%d points)", batchNum, total, end-start)
			elevs, err := b.Lookup.Elevations(gctx, points[start:end])
			if err == nil && len(elevs) != end-start {
				err = fmt.Errorf("lookup returned %d elevations for %d points", len(elevs), end-start)
			}
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warnf("elevation batch %d/%d failed, treating its points as unknown: %v", batchNum, total, err)
				return nil
			}
			copy(out[start:end], elevs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Builder) logger() *zap.SugaredLogger {
	if b.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return b.Logger
}
