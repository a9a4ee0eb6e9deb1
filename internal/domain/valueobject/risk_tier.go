package valueobject

import "fmt"

// RiskTier is an immutable value object representing the discretized risk score.
type RiskTier struct {
	value string
}

var (
	RiskTierLow    = RiskTier{value: "LOW"}
	RiskTierMedium = RiskTier{value: "MEDIUM"}
	RiskTierHigh   = RiskTier{value: "HIGH"}
)

// Default tier boundaries. Scores below DefaultTierMedium are LOW, scores below
// DefaultTierHigh are MEDIUM, everything else up to and including 1.0 is HIGH.
const (
	DefaultTierMedium = 0.3
	DefaultTierHigh   = 0.7
)

// TierThresholds holds the lower (inclusive) bounds of the MEDIUM and HIGH tiers.
type TierThresholds struct {
	Medium float64 `yaml:"medium" json:"medium"`
	High   float64 `yaml:"high" json:"high"`
}

// DefaultTierThresholds returns the policy defaults (0.3 / 0.7).
func DefaultTierThresholds() TierThresholds {
	return TierThresholds{Medium: DefaultTierMedium, High: DefaultTierHigh}
}

// Validate checks that 0 < medium < high <= 1.
func (t TierThresholds) Validate() error {
	if !(t.Medium > 0 && t.Medium < t.High && t.High <= 1) {
		return fmt.Errorf("invalid tier thresholds: require 0 < medium < high <= 1, got medium=%v high=%v", t.Medium, t.High)
	}
	return nil
}

// RiskTierFromString reconstructs a RiskTier from its string representation.
func RiskTierFromString(s string) (RiskTier, error) {
	switch s {
	case "LOW":
		return RiskTierLow, nil
	case "MEDIUM":
		return RiskTierMedium, nil
	case "HIGH":
		return RiskTierHigh, nil
	default:
		return RiskTier{}, fmt.Errorf("invalid risk tier: %s", s)
	}
}

// RiskTierFromScore derives the tier of a probability using the given thresholds.
// Bands are inclusive-low / exclusive-high except the top band, which is closed at 1.0.
func RiskTierFromScore(score float64, t TierThresholds) RiskTier {
	switch {
	case score < t.Medium:
		return RiskTierLow
	case score < t.High:
		return RiskTierMedium
	default:
		return RiskTierHigh
	}
}

// String returns the string representation.
func (r RiskTier) String() string {
	return r.value
}

// Label returns the human-readable label used by the original diagnostic UI.
func (r RiskTier) Label() string {
	switch r.value {
	case "LOW":
		return "Low Risk"
	case "MEDIUM":
		return "Medium Risk"
	case "HIGH":
		return "High Risk"
	default:
		return ""
	}
}

// IsZero returns true if the RiskTier has not been set.
func (r RiskTier) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskTier.
func (r RiskTier) Equal(other RiskTier) bool {
	return r.value == other.value
}
