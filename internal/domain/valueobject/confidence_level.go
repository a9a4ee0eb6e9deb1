package valueobject

import (
	"fmt"
	"math"
)

// ConfidenceLevel is an immutable value object describing how far the winning
// class probability sits from the decision boundary.
type ConfidenceLevel struct {
	value string
}

var (
	ConfidenceLow    = ConfidenceLevel{value: "LOW"}
	ConfidenceMedium = ConfidenceLevel{value: "MEDIUM"}
	ConfidenceHigh   = ConfidenceLevel{value: "HIGH"}
)

const (
	DefaultConfidenceHigh   = 0.8
	DefaultConfidenceMedium = 0.6
)

// ConfidenceThresholds are exclusive lower bounds on max(p0, p1).
type ConfidenceThresholds struct {
	High   float64 `yaml:"high" json:"high"`
	Medium float64 `yaml:"medium" json:"medium"`
}

// DefaultConfidenceThresholds returns the policy defaults (0.8 / 0.6).
func DefaultConfidenceThresholds() ConfidenceThresholds {
	return ConfidenceThresholds{High: DefaultConfidenceHigh, Medium: DefaultConfidenceMedium}
}

// Validate checks that 0.5 <= medium < high < 1.
func (c ConfidenceThresholds) Validate() error {
	if !(c.Medium >= 0.5 && c.Medium < c.High && c.High < 1) {
		return fmt.Errorf("invalid confidence thresholds: require 0.5 <= medium < high < 1, got medium=%v high=%v", c.Medium, c.High)
	}
	return nil
}

// ConfidenceLevelFromString reconstructs a ConfidenceLevel from its string representation.
func ConfidenceLevelFromString(s string) (ConfidenceLevel, error) {
	switch s {
	case "LOW":
		return ConfidenceLow, nil
	case "MEDIUM":
		return ConfidenceMedium, nil
	case "HIGH":
		return ConfidenceHigh, nil
	default:
		return ConfidenceLevel{}, fmt.Errorf("invalid confidence level: %s", s)
	}
}

// ConfidenceFromProbabilities labels a [p0, p1] pair by its larger probability.
func ConfidenceFromProbabilities(p [2]float64, c ConfidenceThresholds) ConfidenceLevel {
	m := math.Max(p[0], p[1])
	switch {
	case m > c.High:
		return ConfidenceHigh
	case m > c.Medium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// String returns the string representation.
func (c ConfidenceLevel) String() string {
	return c.value
}

// IsZero returns true if the level has not been set.
func (c ConfidenceLevel) IsZero() bool {
	return c.value == ""
}

// Equal checks equality with another ConfidenceLevel.
func (c ConfidenceLevel) Equal(other ConfidenceLevel) bool {
	return c.value == other.value
}
