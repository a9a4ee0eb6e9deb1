package ml

import (
	"fmt"

	"github.com/twinrisk/twinrisk/internal/domain/model"
)

// TreeExplainer computes exact TreeSHAP attributions for a pipeline whose
// terminal estimator is a tree ensemble. It only reads the pipeline and is safe
// for concurrent use.
type TreeExplainer struct {
	pipeline    *Pipeline
	ensemble    TreeEnsemble
	baseValue   float64
	unavailable error
}

// NewTreeExplainer unwraps p to its predictive estimator. When that estimator
// has no tree structure every Attribute call returns ExplanationUnavailableError.
func NewTreeExplainer(p *Pipeline) *TreeExplainer {
	e := &TreeExplainer{pipeline: p}

	est := p.PredictiveEstimator()
	ensemble, ok := est.(TreeEnsemble)
	if !ok {
		e.unavailable = &model.ExplanationUnavailableError{
			Reason: fmt.Sprintf("%s has no tree structure to attribute", est.Type()),
		}
		return e
	}

	e.ensemble = ensemble
	e.baseValue = ensemble.InitRaw()
	trees := ensemble.Trees()
	for i := range trees {
		e.baseValue += ensemble.Scale() * trees[i].ExpectedValue()
	}
	return e
}

// Explainable reports whether Attribute can succeed.
func (e *TreeExplainer) Explainable() bool {
	return e.unavailable == nil
}

// BaseValue is the expected margin over the training distribution.
func (e *TreeExplainer) BaseValue() float64 {
	return e.baseValue
}

// Attribute returns per-feature contributions to the positive-class margin.
// BaseValue plus the contributions equals the margin.
func (e *TreeExplainer) Attribute(v model.FeatureVector) (model.RawAttribution, error) {
	if e.unavailable != nil {
		return model.RawAttribution{}, e.unavailable
	}

	x, err := e.pipeline.Prepare(v.Values())
	if err != nil {
		return model.RawAttribution{}, &model.ExplanationUnavailableError{Reason: err.Error()}
	}
	if len(x) != e.ensemble.NumFeatures() {
		return model.RawAttribution{}, &model.ExplanationUnavailableError{
			Reason: fmt.Sprintf("feature count %d, model expects %d", len(x), e.ensemble.NumFeatures()),
		}
	}

	phi := make([]float64, len(x))
	trees := e.ensemble.Trees()
	for i := range trees {
		treeShap(&trees[i], x, e.ensemble.Scale(), phi)
	}

	output, err := e.ensemble.DecisionFunction(x)
	if err != nil {
		return model.RawAttribution{}, &model.ExplanationUnavailableError{Reason: err.Error()}
	}

	return model.RawAttribution{
		BaseValue:     e.baseValue,
		Output:        output,
		Link:          model.LinkLogit,
		Contributions: phi,
	}, nil
}
