// Package blinds turns a glare risk into a blind position and drives the
// actuator that moves the blinds.
package blinds

import "math"

// Curve maps glare risk onto a day-blind open percentage.
type Curve struct {
	ThresholdLow  float64 // below this risk the blinds stay fully open
	ThresholdHigh float64 // at or above this risk the blinds reach MinOpen
	MinOpen       int
	MaxOpen       int
	Response      float64 // exponent applied to the normalized risk; 1 is linear
}

// DayOpen returns the open percentage for glareRisk, clamped to
// [MinOpen, MaxOpen]. Higher risk never opens the blinds further.
func (c Curve) DayOpen(glareRisk float64) int {
	if glareRisk < c.ThresholdLow {
		return c.MaxOpen
	}

	glareRange := c.ThresholdHigh - c.ThresholdLow
	openRange := float64(c.MaxOpen - c.MinOpen)

	// An empty range saturates as soon as the low threshold is reached.
	// Inverted thresholds give a negative ratio, which clamps to fully open.
	normalized := 1.0
	if glareRange != 0 {
		normalized = (glareRisk - c.ThresholdLow) / glareRange
		normalized = math.Max(0, math.Min(1, normalized))
	}

	if c.Response != 1.0 && c.Response > 0 {
		normalized = math.Pow(normalized, c.Response)
	}

	open := int(float64(c.MaxOpen) - normalized*openRange)
	return max(c.MinOpen, min(c.MaxOpen, open))
}
