package ml

import (
	"errors"
	"fmt"
	"math"
)

// Step is a named pipeline stage.
type Step struct {
	Name  string
	Stage Stage
}

// Pipeline is an ordered, immutable chain of fitted stages ending in an Estimator.
type Pipeline struct {
	steps     []Step
	estimator Estimator
	// active holds the transformers applied before the estimator, in order.
	active []Transformer
}

// NewPipeline checks that the last step is an Estimator and every earlier step
// is either a Transformer or a Resampler.
func NewPipeline(steps []Step) (*Pipeline, error) {
	if len(steps) == 0 {
		return nil, errors.New("pipeline has no steps")
	}

	p := &Pipeline{steps: append([]Step(nil), steps...)}
	for i, step := range steps {
		last := i == len(steps)-1
		switch s := step.Stage.(type) {
		case Estimator:
			if !last {
				return nil, fmt.Errorf("step %q: estimator must be the final step", step.Name)
			}
			p.estimator = s
		case Transformer:
			if last {
				return nil, fmt.Errorf("step %q: final step must be an estimator", step.Name)
			}
			p.active = append(p.active, s)
		case Resampler:
			if last {
				return nil, fmt.Errorf("step %q: final step must be an estimator", step.Name)
			}
		default:
			return nil, fmt.Errorf("step %q: unsupported stage %T", step.Name, step.Stage)
		}
	}
	return p, nil
}

// Steps returns the pipeline steps in order.
func (p *Pipeline) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// StageTypes returns the type of every step in order.
func (p *Pipeline) StageTypes() []string {
	out := make([]string, len(p.steps))
	for i, s := range p.steps {
		out[i] = s.Stage.Type()
	}
	return out
}

// PredictiveEstimator returns the terminal estimator. Resamplers are inert at
// inference and are bypassed; transformers must still be applied through Prepare.
func (p *Pipeline) PredictiveEstimator() Estimator {
	return p.estimator
}

// Prepare runs x through every inference-active transformer.
func (p *Pipeline) Prepare(x []float64) ([]float64, error) {
	out := x
	for _, t := range p.active {
		var err error
		out, err = t.Transform(out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DecisionFunction returns the estimator margin for an untransformed vector.
func (p *Pipeline) DecisionFunction(x []float64) (float64, error) {
	prepared, err := p.Prepare(x)
	if err != nil {
		return 0, err
	}
	raw, err := p.estimator.DecisionFunction(prepared)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, fmt.Errorf("%s produced a non-finite margin", p.estimator.Type())
	}
	return raw, nil
}

// Sigmoid is the logistic function, computed without overflow for large |z|.
func Sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
