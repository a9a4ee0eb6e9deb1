// Package mltest provides a small, hand-checked gradient boosting ensemble
// over the default schema for tests.
package mltest

import (
	"github.com/twinrisk/twinrisk/internal/domain/model"
	"github.com/twinrisk/twinrisk/internal/infrastructure/ml"
)

const (
	// ModelVersion is the version string of the fixture artifact.
	ModelVersion = "fixture-1"
	// LearningRate scales every fixture tree.
	LearningRate = 0.2
	// InitRaw is the fixture prior log-odds.
	InitRaw = -1.0
	// BaseValue is InitRaw + LearningRate * (-0.2 + 0.15 + 0.2).
	BaseValue = -0.97
)

// Trees returns three trees:
//
//	A: FetalWeight <= 1500 ? 3.0 : (Gestational Age <= 34 ? 1.0 : -1.0)
//	B: GestationalHypertension <= 0.5 ? (CongenitalMalformation <= 0.5 ? -0.5 : 2.0) : 1.5
//	C: Chorionicity <= 0.5 ? 0.8 : (Gestational Age <= 37.5 ? 0.2 : -0.6)
func Trees() []ml.Tree {
	schema := model.DefaultSchema()
	ga := schema.Index(model.FeatureGestationalAge)
	fw := schema.Index(model.FeatureFetalWeight)
	gh := schema.Index(model.FeatureGestationalHypertension)
	cm := schema.Index(model.FeatureCongenitalMalformation)
	ch := schema.Index(model.FeatureChorionicity)

	return []ml.Tree{
		{
			ChildrenLeft:  []int{1, -1, 3, -1, -1},
			ChildrenRight: []int{2, -1, 4, -1, -1},
			Feature:       []int{fw, -2, ga, -2, -2},
			Threshold:     []float64{1500, 0, 34, 0, 0},
			Value:         []float64{0, 3.0, 0, 1.0, -1.0},
			Cover:         []float64{100, 10, 90, 20, 70},
		},
		{
			ChildrenLeft:  []int{1, 2, -1, -1, -1},
			ChildrenRight: []int{4, 3, -1, -1, -1},
			Feature:       []int{gh, cm, -2, -2, -2},
			Threshold:     []float64{0.5, 0.5, 0, 0, 0},
			Value:         []float64{0, 0, -0.5, 2.0, 1.5},
			Cover:         []float64{100, 80, 70, 10, 20},
		},
		{
			ChildrenLeft:  []int{1, -1, 3, -1, -1},
			ChildrenRight: []int{2, -1, 4, -1, -1},
			Feature:       []int{ch, -2, ga, -2, -2},
			Threshold:     []float64{0.5, 0, 37.5, 0, 0},
			Value:         []float64{0, 0.8, 0, 0.2, -0.6},
			Cover:         []float64{100, 40, 60, 30, 30},
		},
	}
}

// Hyperparameters returns the fixture settings.
func Hyperparameters() ml.Hyperparameters {
	h := ml.DefaultHyperparameters()
	h.LearningRate = LearningRate
	h.NEstimators = 3
	return h
}

// Pipeline returns SMOTE followed by the fixture ensemble.
func Pipeline() *ml.Pipeline {
	gb, err := ml.NewGradientBoosting(Hyperparameters(), InitRaw, Trees(), model.DefaultSchema().Len())
	if err != nil {
		panic(err)
	}
	p, err := ml.NewPipeline([]ml.Step{
		{Name: "smote", Stage: &ml.SMOTE{RandomState: 42, KNeighbors: 5}},
		{Name: "classifier", Stage: gb},
	})
	if err != nil {
		panic(err)
	}
	return p
}

// Artifact returns the fixture pipeline serialized as an artifact.
func Artifact(compress bool) []byte {
	b, err := ml.EncodeArtifact(ModelVersion, model.DefaultSchema(), Pipeline(), compress)
	if err != nil {
		panic(err)
	}
	return b
}

// Values returns the reference vector [37, 1, 0, 0, 0, 0, 0, 2500, 0, 0].
func Values() []float64 {
	return []float64{37, 1, 0, 0, 0, 0, 0, 2500, 0, 0}
}

// Record returns Values keyed by feature name.
func Record() map[string]any {
	rec := make(map[string]any)
	for i, name := range model.DefaultSchema().Names() {
		rec[name] = Values()[i]
	}
	return rec
}

// Reference outputs for Values.
const (
	RefMargin = -1.26

	RefFetalWeight             = -17.0 / 225.0
	RefGestationalHypertension = -0.07375
	RefChorionicity            = -0.064
	RefCongenitalMalformation  = -0.05625
	RefGestationalAge          = -23.0 / 1125.0
)
