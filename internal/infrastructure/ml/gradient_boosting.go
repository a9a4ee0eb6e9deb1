package ml

import (
	"fmt"
	"math"
)

// Hyperparameters are the settings a gradient boosting classifier was fitted with.
// They are informational at inference time.
type Hyperparameters struct {
	LearningRate    float64 `json:"learning_rate" yaml:"learning_rate"`
	MaxDepth        int     `json:"max_depth" yaml:"max_depth"`
	MinSamplesLeaf  int     `json:"min_samples_leaf" yaml:"min_samples_leaf"`
	MinSamplesSplit int     `json:"min_samples_split" yaml:"min_samples_split"`
	NEstimators     int     `json:"n_estimators" yaml:"n_estimators"`
	RandomState     int     `json:"random_state" yaml:"random_state"`
}

// GradientBoosting is a fitted binary gradient boosting classifier with
// log-loss. Its margin is initRaw + learningRate * sum(tree(x)).
type GradientBoosting struct {
	hyper     Hyperparameters
	initRaw   float64
	trees     []Tree
	nFeatures int
}

// NewGradientBoosting validates every tree against nFeatures.
func NewGradientBoosting(hyper Hyperparameters, initRaw float64, trees []Tree, nFeatures int) (*GradientBoosting, error) {
	if math.IsNaN(hyper.LearningRate) || math.IsInf(hyper.LearningRate, 0) || hyper.LearningRate <= 0 {
		return nil, fmt.Errorf("gradient_boosting_classifier: learning_rate must be positive")
	}
	if math.IsNaN(initRaw) || math.IsInf(initRaw, 0) {
		return nil, fmt.Errorf("gradient_boosting_classifier: init_raw must be finite")
	}
	for i := range trees {
		if err := trees[i].Validate(nFeatures); err != nil {
			return nil, fmt.Errorf("gradient_boosting_classifier: tree %d: %w", i, err)
		}
	}
	return &GradientBoosting{
		hyper:     hyper,
		initRaw:   initRaw,
		trees:     trees,
		nFeatures: nFeatures,
	}, nil
}

func (g *GradientBoosting) Type() string { return StepGradientBoostingClassifier }

func (g *GradientBoosting) Params() map[string]any {
	return map[string]any{
		"learning_rate":     g.hyper.LearningRate,
		"max_depth":         g.hyper.MaxDepth,
		"min_samples_leaf":  g.hyper.MinSamplesLeaf,
		"min_samples_split": g.hyper.MinSamplesSplit,
		"n_estimators":      g.hyper.NEstimators,
		"random_state":      g.hyper.RandomState,
	}
}

func (g *GradientBoosting) Hyperparameters() Hyperparameters { return g.hyper }
func (g *GradientBoosting) NumFeatures() int                 { return g.nFeatures }
func (g *GradientBoosting) InitRaw() float64                 { return g.initRaw }
func (g *GradientBoosting) Scale() float64                   { return g.hyper.LearningRate }
func (g *GradientBoosting) Trees() []Tree                    { return g.trees }

// Fitted reports whether the ensemble has any trees.
func (g *GradientBoosting) Fitted() bool { return len(g.trees) > 0 }

// DecisionFunction returns the raw log-odds margin.
func (g *GradientBoosting) DecisionFunction(x []float64) (float64, error) {
	if len(x) != g.nFeatures {
		return 0, fmt.Errorf("gradient_boosting_classifier: got %d features, fitted on %d", len(x), g.nFeatures)
	}
	var sum float64
	for i := range g.trees {
		sum += g.trees[i].Predict(x)
	}
	return g.initRaw + g.hyper.LearningRate*sum, nil
}

// ExpectedValue is the margin averaged over the training distribution of every tree.
func (g *GradientBoosting) ExpectedValue() float64 {
	var sum float64
	for i := range g.trees {
		sum += g.trees[i].ExpectedValue()
	}
	return g.initRaw + g.hyper.LearningRate*sum
}
