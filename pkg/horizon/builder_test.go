package horizon

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testObserver = Observer{Latitude: 40.7128, Longitude: -74.4717, ElevationFt: 0}

// mapLookup answers from a precomputed point -> elevation table.
type mapLookup struct {
	mu       sync.Mutex
	table    map[Point]float64
	calls    int
	maxBatch int
	failOn   func(call int) bool
}

func (m *mapLookup) Elevations(ctx context.Context, points []Point) ([]*float64, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	if len(points) > m.maxBatch {
		m.maxBatch = len(points)
	}
	m.mu.Unlock()

	if m.failOn != nil && m.failOn(call) {
		return nil, errors.New("service unavailable")
	}

	out := make([]*float64, len(points))
	for i, p := range points {
		if elev, ok := m.table[p]; ok {
			out[i] = &elev
		}
	}
	return out, nil
}

// tableFor builds a lookup table where every sample at azimuth az rises at
// angleFn(az) degrees as seen from the observer.
func tableFor(obs Observer, step int, distances []float64, angleFn func(az int) float64) map[Point]float64 {
	table := make(map[Point]float64)
	obsM := obs.ElevationFt * feetToMeters
	for az := 0; az < 360; az += step {
		for _, d := range distances {
			p := DestinationPoint(obs.Latitude, obs.Longitude, float64(az), d)
			table[p] = obsM + d*1000*math.Tan(degToRad(angleFn(az)))
		}
	}
	return table
}

func TestBuildFlatTerrain(t *testing.T) {
	lookup := &mapLookup{table: tableFor(testObserver, 5, DefaultDistancesKm, func(int) float64 { return 0 })}
	b := NewBuilder(lookup, zaptest.NewLogger(t).Sugar())

	horizon, err := b.Build(context.Background(), testObserver, 5, nil)
	require.NoError(t, err)
	require.Len(t, horizon, 72)
	for az, angle := range horizon {
		require.Equal(t, 0.0, angle, "azimuth %d", az)
	}

	// 72 azimuths x 7 distances in batches of 100
	require.Equal(t, 6, lookup.calls)
	require.LessOrEqual(t, lookup.maxBatch, DefaultBatchSize)
}

func TestBuildPreservesOrderAcrossConcurrentBatches(t *testing.T) {
	angleFn := func(az int) float64 { return float64(az) / 5 }
	lookup := &mapLookup{table: tableFor(testObserver, 5, DefaultDistancesKm, angleFn)}
	b := &Builder{Lookup: lookup, BatchSize: 7, Concurrency: 8}

	horizon, err := b.Build(context.Background(), testObserver, 5, nil)
	require.NoError(t, err)
	require.Len(t, horizon, 72)
	for az := 0; az < 360; az += 5 {
		require.InDelta(t, angleFn(az), horizon[az], 1e-9, "azimuth %d", az)
	}
}

func TestBuildTakesMaximumOverDistances(t *testing.T) {
	distances := []float64{0.5, 1, 2}
	table := tableFor(testObserver, 90, distances, func(int) float64 { return 0 })

	// a ridge 2 km to the east, 200 m up
	ridge := DestinationPoint(testObserver.Latitude, testObserver.Longitude, 90, 2)
	table[ridge] = 200

	b := NewBuilder(&mapLookup{table: table}, nil)
	horizon, err := b.Build(context.Background(), testObserver, 90, distances)
	require.NoError(t, err)

	require.Equal(t, map[int]float64{0: 0, 90: 5.7, 180: 0, 270: 0}, horizon)
}

func TestBuildFloorsDepressionsAtZero(t *testing.T) {
	obs := Observer{Latitude: 46.5, Longitude: 7.9, ElevationFt: 10000}
	lookup := &mapLookup{table: tableFor(obs, 30, DefaultDistancesKm, func(int) float64 { return -12 })}

	horizon, err := NewBuilder(lookup, nil).Build(context.Background(), obs, 30, nil)
	require.NoError(t, err)
	require.Len(t, horizon, 12)
	for az, angle := range horizon {
		require.Equal(t, 0.0, angle, "azimuth %d", az)
	}
}

func TestBuildSkipsUnknownElevations(t *testing.T) {
	distances := []float64{0.1, 1}
	table := tableFor(testObserver, 180, distances, func(int) float64 { return 10 })

	// drop the near sample due north; the far one still answers
	delete(table, DestinationPoint(testObserver.Latitude, testObserver.Longitude, 0, 0.1))
	// drop every sample due south
	for _, d := range distances {
		delete(table, DestinationPoint(testObserver.Latitude, testObserver.Longitude, 180, d))
	}

	horizon, err := NewBuilder(&mapLookup{table: table}, nil).Build(context.Background(), testObserver, 180, distances)
	require.NoError(t, err)
	require.Equal(t, 10.0, horizon[0])
	require.Equal(t, 0.0, horizon[180])
}

func TestBuildDegradesFailedBatchesToFlat(t *testing.T) {
	lookup := &mapLookup{
		table:  tableFor(testObserver, 5, DefaultDistancesKm, func(int) float64 { return 3 }),
		failOn: func(int) bool { return true },
	}
	b := NewBuilder(lookup, zaptest.NewLogger(t).Sugar())

	horizon, err := b.Build(context.Background(), testObserver, 5, nil)
	require.NoError(t, err)
	require.Len(t, horizon, 72)
	for az, angle := range horizon {
		require.Equal(t, 0.0, angle, "azimuth %d", az)
	}
}

func TestBuildRejectsShortResponses(t *testing.T) {
	b := NewBuilder(lookupFunc(func(ctx context.Context, points []Point) ([]*float64, error) {
		v := 500.0
		return []*float64{&v}, nil
	}), nil)

	horizon, err := b.Build(context.Background(), testObserver, 90, []float64{1, 2})
	require.NoError(t, err)
	require.Equal(t, map[int]float64{0: 0, 90: 0, 180: 0, 270: 0}, horizon)
}

func TestBuildHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBuilder(lookupFunc(func(ctx context.Context, points []Point) ([]*float64, error) {
		return nil, ctx.Err()
	}), nil)

	_, err := b.Build(ctx, testObserver, 5, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuildValidatesArguments(t *testing.T) {
	_, err := (&Builder{}).Build(context.Background(), testObserver, 5, nil)
	require.Error(t, err)

	b := NewBuilder(&mapLookup{}, nil)
	_, err = b.Build(context.Background(), testObserver, 0, nil)
	require.Error(t, err)
	_, err = b.Build(context.Background(), testObserver, 361, nil)
	require.Error(t, err)
}

type lookupFunc func(ctx context.Context, points []Point) ([]*float64, error)

func (f lookupFunc) Elevations(ctx context.Context, points []Point) ([]*float64, error) {
	return f(ctx, points)
}
