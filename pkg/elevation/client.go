// Package elevation looks up ground elevation from an Open-Elevation
// compatible API.
package elevation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/chrissnell/glarecontrol/pkg/horizon"
)

const (
	// DefaultURL is the public Open-Elevation lookup endpoint.
	DefaultURL = "https://api.open-elevation.com/api/v1/lookup"
	// DefaultTimeout bounds a single lookup request.
	DefaultTimeout = 30 * time.Second
	// DefaultCacheSize is the number of points kept in the LRU.
	DefaultCacheSize = 8192

	cachePrecision = 1e6
)

// Client queries elevations in meters. It satisfies horizon.ElevationLookup.
type Client struct {
	url        string
	httpClient *http.Client
	cache      *lru.Cache
}

// NewClient builds a client for the lookup endpoint at url. An empty url
// selects DefaultURL.
func NewClient(url string, timeout time.Duration) *Client {
	url = strings.TrimSpace(url)
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	cache, _ := lru.New(DefaultCacheSize) // only fails for a non-positive size

	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cache: cache,
	}
}

type cacheKey struct {
	lat, lon int64
}

func keyFor(p horizon.Point) cacheKey {
	return cacheKey{
		lat: int64(math.Round(p.Latitude * cachePrecision)),
		lon: int64(math.Round(p.Longitude * cachePrecision)),
	}
}

type location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type lookupRequest struct {
	Locations []location `json:"locations"`
}

type lookupResponse struct {
	Results []struct {
		Elevation *float64 `json:"elevation"`
	} `json:"results"`
}

// Elevations returns one elevation per point, in order. A nil entry means
// the service had no value for that point. Known values are cached, so
// only uncached points go over the wire.
func (c *Client) Elevations(ctx context.Context, points []horizon.Point) ([]*float64, error) {
	out := make([]*float64, len(points))
	if len(points) == 0 {
		return out, nil
	}

	var missing []int
	for i, p := range points {
		if v, ok := c.cache.Get(keyFor(p)); ok {
			elev := v.(float64)
			out[i] = &elev
			continue
		}
		missing = append(missing, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	query := make([]horizon.Point, len(missing))
	for j, i := range missing {
		query[j] = points[i]
	}

	results, err := c.lookup(ctx, query)
	if err != nil {
		return nil, err
	}

	for j, i := range missing {
		out[i] = results[j]
		if results[j] != nil {
			c.cache.Add(keyFor(points[i]), *results[j])
		}
	}
	return out, nil
}

func (c *Client) lookup(ctx context.Context, points []horizon.Point) ([]*float64, error) {
	body := lookupRequest{Locations: make([]location, len(points))}
	for i, p := range points {
		body.Locations[i] = location{Latitude: p.Latitude, Longitude: p.Longitude}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode elevation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build elevation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("elevation request error: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode elevation response: %w", err)
	}
	if len(decoded.Results) != len(points) {
		return nil, fmt.Errorf("elevation response has %d results for %d locations", len(decoded.Results), len(points))
	}

	out := make([]*float64, len(points))
	for i, r := range decoded.Results {
		out[i] = r.Elevation
	}
	return out, nil
}
