// Package horizon builds, stores and queries terrain horizon profiles: for
// each azimuth bucket, the minimum altitude at which the Sun clears the
// surrounding terrain.
package horizon

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/tidwall/jsonc"
)

// BucketSize is the azimuth spacing of profile keys in degrees.
const BucketSize = 5

// Location identifies where a profile was generated.
type Location struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	ElevationFt float64 `json:"elevation_ft"`
}

// Profile is a persisted horizon profile. A nil *Profile means no profile
// exists; a non-nil Profile with an empty Horizon is a legitimate
// "nothing recorded" profile.
type Profile struct {
	Generated Timestamp       `json:"generated"`
	Location  Location        `json:"location"`
	Horizon   map[int]float64 `json:"horizon"`
}

// Timestamp is the profile generation time. It decodes both RFC 3339 and
// zone-less ISO 8601 values; the latter are taken as local time.
type Timestamp struct {
	time.Time
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		ts.Time = time.Time{}
		return nil
	}
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// Bucket quantizes an azimuth to the nearest profile key. Halfway cases
// round to even.
func Bucket(azimuth float64) int {
	b := int(math.RoundToEven(azimuth/BucketSize)) * BucketSize % 360
	if b < 0 {
		b += 360
	}
	return b
}

// Angle returns the horizon angle stored for the bucket containing azimuth.
func (p *Profile) Angle(azimuth float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	angle, ok := p.Horizon[Bucket(azimuth)]
	return angle, ok
}

// Obstruction is one azimuth with a notable horizon angle.
type Obstruction struct {
	Azimuth int
	Angle   float64
}

// Significant returns the buckets whose horizon angle exceeds minAngle,
// sorted by azimuth.
func (p *Profile) Significant(minAngle float64) []Obstruction {
	if p == nil {
		return nil
	}
	var out []Obstruction
	for az, angle := range p.Horizon {
		if angle > minAngle {
			out = append(out, Obstruction{Azimuth: az, Angle: angle})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Azimuth < out[j].Azimuth })
	return out
}

// Load reads a profile from path. A missing file yields (nil, nil).
// Comments and trailing commas are tolerated so the file can be hand-edited.
func Load(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read horizon profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(jsonc.ToJSON(raw), &p); err != nil {
		return nil, fmt.Errorf("failed to decode horizon profile %s: %w", path, err)
	}
	if p.Horizon == nil {
		p.Horizon = map[int]float64{}
	}
	for az := range p.Horizon {
		if az < 0 || az >= 360 {
			return nil, fmt.Errorf("horizon profile %s: azimuth key %d outside [0,360)", path, az)
		}
	}
	return &p, nil
}

// Save writes the profile to path as indented JSON.
func Save(path string, p *Profile) error {
	if p == nil {
		return errors.New("cannot save nil horizon profile")
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode horizon profile: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory for horizon profile: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write horizon profile: %w", err)
	}
	return nil
}
