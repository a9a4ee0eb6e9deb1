package ml

import "github.com/twinrisk/twinrisk/internal/domain/model"

// DefaultModelVersion labels the fallback pipeline.
const DefaultModelVersion = "default-unfitted"

// DefaultHyperparameters are the settings the production model was trained with.
func DefaultHyperparameters() Hyperparameters {
	return Hyperparameters{
		LearningRate:    0.2,
		MaxDepth:        3,
		MinSamplesLeaf:  2,
		MinSamplesSplit: 10,
		NEstimators:     100,
		RandomState:     42,
	}
}

// DefaultPipeline is used when no artifact can be loaded: SMOTE followed by an
// unfitted gradient boosting classifier. With no trees and a zero prior it
// predicts [0.5, 0.5], label 0, and zero attributions.
func DefaultPipeline(schema *model.FeatureSchema) *Pipeline {
	gb, err := NewGradientBoosting(DefaultHyperparameters(), 0, nil, schema.Len())
	if err != nil {
		panic(err)
	}
	p, err := NewPipeline([]Step{
		{Name: "smote", Stage: &SMOTE{RandomState: 42}},
		{Name: "classifier", Stage: gb},
	})
	if err != nil {
		panic(err)
	}
	return p
}
