package ml_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/twinrisk/twinrisk/internal/domain/model"
	"github.com/twinrisk/twinrisk/internal/infrastructure/ml"
	"github.com/twinrisk/twinrisk/internal/infrastructure/ml/mltest"
)

type mockSource struct {
	name   string
	record *model.ArtifactRecord
	err    error
	calls  int
}

func (m *mockSource) Name() string { return m.name }

func (m *mockSource) Fetch(context.Context) (*model.ArtifactRecord, error) {
	m.calls++
	return m.record, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoader_FirstUsableSourceWins(t *testing.T) {
	db := &mockSource{name: "postgres", err: model.ErrArtifactNotFound}
	broken := &mockSource{name: "file:broken", record: &model.ArtifactRecord{Payload: []byte("{}"), Origin: model.OriginFile}}
	good := &mockSource{name: "file:good", record: &model.ArtifactRecord{
		Payload: mltest.Artifact(false), Origin: model.OriginFile, Location: "models/best_model_gbm.json",
	}}
	unused := &mockSource{name: "file:unused", err: errors.New("should not be called")}

	loaded := ml.NewLoader(model.DefaultSchema(), discardLogger(), db, broken, good, unused).Load(context.Background())

	assert.Equal(t, mltest.ModelVersion, loaded.ModelVersion)
	assert.Equal(t, model.OriginFile, loaded.Origin)
	assert.Equal(t, "models/best_model_gbm.json", loaded.Location)
	assert.Equal(t, ml.Checksum(mltest.Artifact(false)), loaded.Checksum)
	assert.Equal(t, 0, unused.calls)
}

func TestLoader_RejectsChecksumMismatch(t *testing.T) {
	payload := mltest.Artifact(false)
	tampered := &mockSource{name: "postgres", record: &model.ArtifactRecord{
		Payload: payload, Checksum: ml.Checksum([]byte("other")), Origin: model.OriginDatabase,
	}}
	matching := &mockSource{name: "file:good", record: &model.ArtifactRecord{
		Payload: payload, Checksum: ml.Checksum(payload), Origin: model.OriginFile,
	}}

	loaded := ml.NewLoader(model.DefaultSchema(), discardLogger(), tampered, matching).Load(context.Background())

	assert.Equal(t, model.OriginFile, loaded.Origin)
	assert.Equal(t, 1, matching.calls)

	alone := ml.NewLoader(model.DefaultSchema(), discardLogger(), tampered).Load(context.Background())
	assert.Equal(t, model.OriginDefault, alone.Origin)
}

func TestLoader_FallsBackToDefault(t *testing.T) {
	failing := &mockSource{name: "postgres", err: errors.New("connection refused")}

	loaded := ml.NewLoader(model.DefaultSchema(), discardLogger(), failing).Load(context.Background())

	assert.Equal(t, model.OriginDefault, loaded.Origin)
	assert.Equal(t, ml.DefaultModelVersion, loaded.ModelVersion)

	info := loaded.Info(model.DefaultSchema())
	assert.Equal(t, ml.StepGradientBoostingClassifier, info.ModelType)
	assert.False(t, info.Fitted)
	assert.True(t, info.Explainable)
	assert.Equal(t, []string{ml.StepSMOTE, ml.StepGradientBoostingClassifier}, info.Stages)
	assert.Equal(t, 0.2, info.Hyperparameters["learning_rate"])
	assert.Equal(t, 100, info.Hyperparameters["n_estimators"])
	assert.Len(t, info.Features, 10)
}

func TestLoader_NoSources(t *testing.T) {
	loaded := ml.NewLoader(model.DefaultSchema(), discardLogger()).Load(context.Background())
	assert.Equal(t, model.OriginDefault, loaded.Origin)
}
