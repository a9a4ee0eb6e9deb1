package ml

import (
	"fmt"

	"github.com/twinrisk/twinrisk/internal/domain/model"
)

// PipelineModel adapts a Pipeline to the RiskModel port.
type PipelineModel struct {
	pipeline *Pipeline
}

// NewPipelineModel wraps p.
func NewPipelineModel(p *Pipeline) *PipelineModel {
	return &PipelineModel{pipeline: p}
}

// Pipeline returns the wrapped pipeline.
func (m *PipelineModel) Pipeline() *Pipeline {
	return m.pipeline
}

// PredictProbability returns [1 - sigmoid(margin), sigmoid(margin)].
func (m *PipelineModel) PredictProbability(v model.FeatureVector) ([2]float64, error) {
	raw, err := m.margin(v)
	if err != nil {
		return [2]float64{}, err
	}
	p1 := Sigmoid(raw)
	return [2]float64{1 - p1, p1}, nil
}

// PredictLabel returns 1 when the margin is strictly positive. A margin of
// exactly zero is a tie and resolves to class 0.
func (m *PipelineModel) PredictLabel(v model.FeatureVector) (int, error) {
	raw, err := m.margin(v)
	if err != nil {
		return 0, err
	}
	if raw > 0 {
		return 1, nil
	}
	return 0, nil
}

// DecisionFunction returns the log-odds margin.
func (m *PipelineModel) DecisionFunction(v model.FeatureVector) (float64, error) {
	return m.margin(v)
}

func (m *PipelineModel) margin(v model.FeatureVector) (float64, error) {
	if m.pipeline == nil {
		return 0, &model.InferenceError{Reason: "no model loaded"}
	}
	if want := m.pipeline.PredictiveEstimator().NumFeatures(); v.Len() != want {
		return 0, &model.InferenceError{Reason: fmt.Sprintf("feature count %d, model expects %d", v.Len(), want)}
	}
	raw, err := m.pipeline.DecisionFunction(v.Values())
	if err != nil {
		return 0, &model.InferenceError{Reason: "decision function", Err: err}
	}
	return raw, nil
}
