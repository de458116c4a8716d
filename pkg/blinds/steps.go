package blinds

import (
	"errors"
	"fmt"
	"strings"
)

// Step is a named blind position the actuator understands.
type Step struct {
	Threshold int    `json:"threshold" yaml:"threshold"`
	Name      string `json:"name" yaml:"name"`
}

// Steps is a step table ordered by strictly increasing threshold.
type Steps []Step

// DefaultSteps is the five-step table shipped with the default config.
var DefaultSteps = Steps{
	{Threshold: 0, Name: "severe"},
	{Threshold: 45, Name: "high"},
	{Threshold: 60, Name: "moderate"},
	{Threshold: 80, Name: "low"},
	{Threshold: 95, Name: "none"},
}

// Lookup returns the step for an open percentage: the highest-threshold
// step whose threshold does not exceed dayOpen, or the first step if none
// qualifies.
func (s Steps) Lookup(dayOpen int) string {
	if len(s) == 0 {
		return ""
	}
	for i := len(s) - 1; i >= 0; i-- {
		if dayOpen >= s[i].Threshold {
			return s[i].Name
		}
	}
	return s[0].Name
}

// Valid reports whether name is one of the table's steps.
func (s Steps) Valid(name string) bool {
	for _, st := range s {
		if st.Name == name {
			return true
		}
	}
	return false
}

// Validate checks that thresholds are within [0,100] and strictly
// increasing and that names are unique and non-empty.
func (s Steps) Validate() error {
	if len(s) == 0 {
		return errors.New("step table is empty")
	}
	seen := make(map[string]bool, len(s))
	for i, st := range s {
		if strings.TrimSpace(st.Name) == "" {
			return fmt.Errorf("step %d has no name", i)
		}
		if seen[st.Name] {
			return fmt.Errorf("duplicate step name %q", st.Name)
		}
		seen[st.Name] = true
		if st.Threshold < 0 || st.Threshold > 100 {
			return fmt.Errorf("step %q threshold %d outside [0,100]", st.Name, st.Threshold)
		}
		if i > 0 && st.Threshold <= s[i-1].Threshold {
			return fmt.Errorf("step %q threshold %d does not increase on %q (%d)",
				st.Name, st.Threshold, s[i-1].Name, s[i-1].Threshold)
		}
	}
	return nil
}

// String renders the table as "name=threshold%" pairs.
func (s Steps) String() string {
	parts := make([]string, len(s))
	for i, st := range s {
		parts[i] = fmt.Sprintf("%s=%d%%", st.Name, st.Threshold)
	}
	return strings.Join(parts, ", ")
}
