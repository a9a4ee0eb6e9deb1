package ml

// Step types recognised in a pipeline artifact.
const (
	StepSMOTE                      = "smote"
	StepStandardScaler             = "standard_scaler"
	StepGradientBoostingClassifier = "gradient_boosting_classifier"
	StepLogisticRegression         = "logistic_regression"
)

// Stage is one step of a fitted pipeline.
type Stage interface {
	Type() string
	Params() map[string]any
}

// Transformer is a stage applied to every vector at inference time.
type Transformer interface {
	Stage
	Transform(x []float64) ([]float64, error)
}

// Resampler is a stage that only acts during training. At inference it is a
// pass-through and is skipped.
type Resampler interface {
	Stage
	Resamples()
}

// Estimator is the terminal, predictive stage of a pipeline. The decision
// function is the positive-class margin in log-odds.
type Estimator interface {
	Stage
	NumFeatures() int
	DecisionFunction(x []float64) (float64, error)
	Fitted() bool
}

// TreeEnsemble is an estimator whose margin is an additive sum of trees:
// InitRaw + Scale * sum(tree(x)).
type TreeEnsemble interface {
	Estimator
	InitRaw() float64
	Scale() float64
	Trees() []Tree
}
