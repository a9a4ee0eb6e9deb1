package ml_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinrisk/twinrisk/internal/domain/model"
	"github.com/twinrisk/twinrisk/internal/infrastructure/ml"
	"github.com/twinrisk/twinrisk/internal/infrastructure/ml/mltest"
)

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return b
}

func TestDecodeArtifact_TestdataMatchesFixture(t *testing.T) {
	artifact, err := ml.DecodeArtifact(readTestdata(t, "fixture_model.json"), model.DefaultSchema())
	require.NoError(t, err)

	assert.Equal(t, mltest.ModelVersion, artifact.ModelVersion)
	assert.Equal(t, []string{ml.StepSMOTE, ml.StepGradientBoostingClassifier}, artifact.Pipeline.StageTypes())
	assert.False(t, artifact.Compressed)
	assert.Len(t, artifact.Checksum, 64)

	raw, err := ml.NewPipelineModel(artifact.Pipeline).DecisionFunction(vector(t, mltest.Values()))
	require.NoError(t, err)
	assert.InDelta(t, mltest.RefMargin, raw, 1e-12)
}

func TestEncodeArtifact_RoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		payload := mltest.Artifact(compress)

		artifact, err := ml.DecodeArtifact(payload, model.DefaultSchema())
		require.NoError(t, err)
		assert.Equal(t, compress, artifact.Compressed)
		assert.Equal(t, ml.Checksum(payload), artifact.Checksum)

		est, ok := artifact.Pipeline.PredictiveEstimator().(*ml.GradientBoosting)
		require.True(t, ok)
		assert.Equal(t, mltest.Trees(), est.Trees())
		assert.Equal(t, mltest.InitRaw, est.InitRaw())
		assert.Equal(t, mltest.Hyperparameters(), est.Hyperparameters())
	}
}

func TestDecodeArtifact_LogisticWithScaler(t *testing.T) {
	artifact, err := ml.DecodeArtifact(readTestdata(t, "logistic_model.json"), model.DefaultSchema())
	require.NoError(t, err)

	assert.Equal(t, []string{ml.StepStandardScaler, ml.StepLogisticRegression}, artifact.Pipeline.StageTypes())

	p, err := ml.NewPipelineModel(artifact.Pipeline).PredictProbability(vector(t, mltest.Values()))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p[0]+p[1], 1e-12)
}

func mutateFixture(t *testing.T, mutate func(doc map[string]any)) []byte {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(readTestdata(t, "fixture_model.json"), &doc))
	mutate(doc)
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	return b
}

func classifierParams(doc map[string]any) map[string]any {
	steps := doc["pipeline"].(map[string]any)["steps"].([]any)
	return steps[1].(map[string]any)["params"].(map[string]any)
}

func TestDecodeArtifact_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		payload func(t *testing.T) []byte
		errText string
	}{
		{"not json", func(*testing.T) []byte { return []byte("pickle") }, "decoding artifact"},
		{"truncated gzip", func(*testing.T) []byte { return mltest.Artifact(true)[:20] }, "artifact"},
		{"wrong format", func(t *testing.T) []byte {
			return mutateFixture(t, func(d map[string]any) { d["format"] = "sklearn" })
		}, "unsupported artifact format"},
		{"future version", func(t *testing.T) []byte {
			return mutateFixture(t, func(d map[string]any) { d["format_version"] = 2 })
		}, "format version"},
		{"feature order", func(t *testing.T) []byte {
			return mutateFixture(t, func(d map[string]any) {
				f := d["features"].([]any)
				f[0], f[1] = f[1], f[0]
			})
		}, "schema order"},
		{"unknown step", func(t *testing.T) []byte {
			return mutateFixture(t, func(d map[string]any) {
				steps := d["pipeline"].(map[string]any)["steps"].([]any)
				steps[0].(map[string]any)["type"] = "pca"
			})
		}, "unknown step type"},
		{"estimator not last", func(t *testing.T) []byte {
			return mutateFixture(t, func(d map[string]any) {
				p := d["pipeline"].(map[string]any)
				steps := p["steps"].([]any)
				p["steps"] = []any{steps[1], steps[0]}
			})
		}, "final step"},
		{"bad cover", func(t *testing.T) []byte {
			return mutateFixture(t, func(d map[string]any) {
				tree := classifierParams(d)["trees"].([]any)[0].(map[string]any)
				tree["cover"] = []any{100, 10, 80, 20, 70}
			})
		}, "cover"},
		{"feature index", func(t *testing.T) []byte {
			return mutateFixture(t, func(d map[string]any) {
				tree := classifierParams(d)["trees"].([]any)[0].(map[string]any)
				tree["feature"] = []any{10, -2, 0, -2, -2}
			})
		}, "feature index"},
		{"unknown param", func(t *testing.T) []byte {
			return mutateFixture(t, func(d map[string]any) { classifierParams(d)["subsample"] = 0.8 })
		}, "unknown field"},
		{"no steps", func(t *testing.T) []byte {
			return mutateFixture(t, func(d map[string]any) { d["pipeline"] = map[string]any{"steps": []any{}} })
		}, "no steps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ml.DecodeArtifact(tt.payload(t), model.DefaultSchema())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}
