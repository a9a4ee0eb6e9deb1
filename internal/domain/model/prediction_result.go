package model

import (
	"fmt"
	"math"

	"github.com/twinrisk/twinrisk/internal/domain/valueobject"
)

// PredictionResult is the outcome of one inference. It is built once and never
// mutated.
type PredictionResult struct {
	probabilities  [2]float64
	predictedLabel int
	tier           valueobject.RiskTier
	confidence     valueobject.ConfidenceLevel
}

// NewPredictionResult validates and assembles a prediction. The risk score is
// the positive-class probability.
func NewPredictionResult(
	probabilities [2]float64,
	predictedLabel int,
	tier valueobject.RiskTier,
	confidence valueobject.ConfidenceLevel,
) (PredictionResult, error) {
	for _, p := range probabilities {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return PredictionResult{}, fmt.Errorf("probability %v outside [0, 1]", p)
		}
	}
	if math.Abs(probabilities[0]+probabilities[1]-1) > 1e-6 {
		return PredictionResult{}, fmt.Errorf("probabilities %v do not sum to 1", probabilities)
	}
	if predictedLabel != 0 && predictedLabel != 1 {
		return PredictionResult{}, fmt.Errorf("predicted label %d is not binary", predictedLabel)
	}
	if tier.IsZero() {
		return PredictionResult{}, fmt.Errorf("risk tier is required")
	}
	if confidence.IsZero() {
		return PredictionResult{}, fmt.Errorf("confidence level is required")
	}

	return PredictionResult{
		probabilities:  probabilities,
		predictedLabel: predictedLabel,
		tier:           tier,
		confidence:     confidence,
	}, nil
}

func (r PredictionResult) RiskScore() float64                      { return r.probabilities[1] }
func (r PredictionResult) Probabilities() [2]float64               { return r.probabilities }
func (r PredictionResult) PredictedLabel() int                     { return r.predictedLabel }
func (r PredictionResult) Tier() valueobject.RiskTier              { return r.tier }
func (r PredictionResult) Confidence() valueobject.ConfidenceLevel { return r.confidence }
