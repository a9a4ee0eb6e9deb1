package service

import (
	"fmt"

	"github.com/twinrisk/twinrisk/internal/domain/valueobject"
)

// RiskInterpreter maps model probabilities to a risk tier and a confidence label.
type RiskInterpreter struct {
	tiers      valueobject.TierThresholds
	confidence valueobject.ConfidenceThresholds
}

// NewRiskInterpreter validates both threshold sets.
func NewRiskInterpreter(tiers valueobject.TierThresholds, confidence valueobject.ConfidenceThresholds) (*RiskInterpreter, error) {
	if err := tiers.Validate(); err != nil {
		return nil, fmt.Errorf("tier thresholds: %w", err)
	}
	if err := confidence.Validate(); err != nil {
		return nil, fmt.Errorf("confidence thresholds: %w", err)
	}
	return &RiskInterpreter{tiers: tiers, confidence: confidence}, nil
}

// NewDefaultRiskInterpreter uses the 0.3/0.7 tier and 0.6/0.8 confidence cut points.
func NewDefaultRiskInterpreter() *RiskInterpreter {
	return &RiskInterpreter{
		tiers:      valueobject.DefaultTierThresholds(),
		confidence: valueobject.DefaultConfidenceThresholds(),
	}
}

// Tier classifies a positive-class probability.
func (r *RiskInterpreter) Tier(score float64) valueobject.RiskTier {
	return valueobject.RiskTierFromScore(score, r.tiers)
}

// Confidence labels the larger of the two class probabilities.
func (r *RiskInterpreter) Confidence(p [2]float64) valueobject.ConfidenceLevel {
	return valueobject.ConfidenceFromProbabilities(p, r.confidence)
}

// Thresholds returns the tier and confidence cut points.
func (r *RiskInterpreter) Thresholds() (valueobject.TierThresholds, valueobject.ConfidenceThresholds) {
	return r.tiers, r.confidence
}
