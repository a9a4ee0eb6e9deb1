package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/twinrisk/twinrisk/internal/domain/model"
)

// PredictRequest is the input DTO for the PredictRisk use case. Feature values
// may be numbers or numeric strings keyed by canonical feature name.
type PredictRequest struct {
	Features map[string]any `json:"features"`
}

// AttributionDTO is one ranked feature contribution.
type AttributionDTO struct {
	Feature      string  `json:"feature" yaml:"feature"`
	Description  string  `json:"description" yaml:"description"`
	Value        float64 `json:"value" yaml:"value"`
	Contribution float64 `json:"contribution" yaml:"contribution"`
	Magnitude    float64 `json:"magnitude" yaml:"magnitude"`
}

// PredictionResponse is the output DTO of a successful prediction. Attributions
// is nil when no explanation could be produced; ExplanationError then says why.
type PredictionResponse struct {
	PredictedAt      time.Time        `json:"predicted_at" yaml:"predicted_at"`
	Attributions     []AttributionDTO `json:"attributions" yaml:"attributions"`
	Warnings         []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	BaseValue        *float64         `json:"base_value,omitempty" yaml:"base_value,omitempty"`
	RiskPercent      decimal.Decimal  `json:"risk_percent" yaml:"risk_percent"`
	Probabilities    [2]float64       `json:"probabilities" yaml:"probabilities"`
	RequestID        uuid.UUID        `json:"request_id" yaml:"request_id"`
	RiskTier         string           `json:"risk_tier" yaml:"risk_tier"`
	RiskTierLabel    string           `json:"risk_tier_label" yaml:"risk_tier_label"`
	Confidence       string           `json:"confidence" yaml:"confidence"`
	Link             string           `json:"link,omitempty" yaml:"link,omitempty"`
	ExplanationError string           `json:"explanation_error,omitempty" yaml:"explanation_error,omitempty"`
	ModelVersion     string           `json:"model_version" yaml:"model_version"`
	RiskScore        float64          `json:"risk_score" yaml:"risk_score"`
	PredictedLabel   int              `json:"predicted_label" yaml:"predicted_label"`
}

var hundred = decimal.NewFromInt(100)

// RiskPercent renders a probability as a percentage with one decimal place.
func RiskPercent(score float64) decimal.Decimal {
	return decimal.NewFromFloat(score).Mul(hundred).Round(1)
}

// FromResult maps a prediction result to the response DTO. A nil explanation
// leaves the attribution fields empty.
func FromResult(requestID uuid.UUID, modelVersion string, r model.PredictionResult, e *model.Explanation, predictedAt time.Time) PredictionResponse {
	resp := PredictionResponse{
		RequestID:      requestID,
		ModelVersion:   modelVersion,
		RiskScore:      r.RiskScore(),
		RiskPercent:    RiskPercent(r.RiskScore()),
		Probabilities:  r.Probabilities(),
		PredictedLabel: r.PredictedLabel(),
		RiskTier:       r.Tier().String(),
		RiskTierLabel:  r.Tier().Label(),
		Confidence:     r.Confidence().String(),
		PredictedAt:    predictedAt,
	}
	if e != nil {
		base := e.BaseValue
		resp.BaseValue = &base
		resp.Link = string(e.Link)
		resp.Attributions = FromExplanation(*e)
	}
	return resp
}

// FromExplanation maps ranked attribution items, preserving order.
func FromExplanation(e model.Explanation) []AttributionDTO {
	out := make([]AttributionDTO, 0, len(e.Items))
	for _, it := range e.Items {
		out = append(out, AttributionDTO{
			Feature:      it.FeatureName,
			Description:  it.FeatureDescription,
			Value:        it.RawValue,
			Contribution: it.Contribution,
			Magnitude:    it.Magnitude,
		})
	}
	return out
}

// Reconstructed returns base value plus the sum of contributions, or false when
// the response carries no explanation.
func (r PredictionResponse) Reconstructed() (float64, bool) {
	if r.BaseValue == nil || r.Attributions == nil {
		return 0, false
	}
	sum := *r.BaseValue
	for _, a := range r.Attributions {
		sum += a.Contribution
	}
	return sum, true
}
