package ml

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twinrisk/twinrisk/internal/domain/model"
	"github.com/twinrisk/twinrisk/internal/domain/port"
)

// LoadedModel is a decoded pipeline together with where it came from.
type LoadedModel struct {
	Pipeline     *Pipeline
	ModelVersion string
	Origin       model.ArtifactOrigin
	Location     string
	Checksum     string
}

// Loader tries artifact sources in order and falls back to the default pipeline.
type Loader struct {
	schema  *model.FeatureSchema
	sources []port.ArtifactSource
	logger  *slog.Logger
}

// NewLoader creates a Loader. Sources are tried in the order given.
func NewLoader(schema *model.FeatureSchema, logger *slog.Logger, sources ...port.ArtifactSource) *Loader {
	return &Loader{schema: schema, sources: sources, logger: logger}
}

// Load never fails: every source error is logged and the next source is tried.
func (l *Loader) Load(ctx context.Context) *LoadedModel {
	for _, src := range l.sources {
		rec, err := src.Fetch(ctx)
		if err != nil {
			if errors.Is(err, model.ErrArtifactNotFound) {
				l.logger.Debug("no artifact in source", "source", src.Name())
			} else {
				l.logger.Warn("artifact source failed", "source", src.Name(), "error", err)
			}
			continue
		}

		artifact, err := DecodeArtifact(rec.Payload, l.schema)
		if err == nil && rec.Checksum != "" && rec.Checksum != artifact.Checksum {
			err = fmt.Errorf("checksum mismatch: stored %s, payload %s", rec.Checksum, artifact.Checksum)
		}
		if err != nil {
			l.logger.Warn("artifact rejected", "source", src.Name(), "location", rec.Location, "error", err)
			continue
		}

		version := artifact.ModelVersion
		if version == "" {
			version = rec.ModelVersion
		}
		l.logger.Info("model loaded",
			"source", src.Name(),
			"location", rec.Location,
			"model_version", version,
			"checksum", artifact.Checksum,
		)
		return &LoadedModel{
			Pipeline:     artifact.Pipeline,
			ModelVersion: version,
			Origin:       rec.Origin,
			Location:     rec.Location,
			Checksum:     artifact.Checksum,
		}
	}

	l.logger.Warn("no model artifact could be loaded, using unfitted default pipeline")
	return &LoadedModel{
		Pipeline:     DefaultPipeline(l.schema),
		ModelVersion: DefaultModelVersion,
		Origin:       model.OriginDefault,
	}
}

// Info describes the loaded model for read-only reporting.
func (m *LoadedModel) Info(schema *model.FeatureSchema) model.ModelInfo {
	est := m.Pipeline.PredictiveEstimator()
	_, explainable := est.(TreeEnsemble)
	return model.ModelInfo{
		ModelType:       est.Type(),
		ModelVersion:    m.ModelVersion,
		Origin:          m.Origin,
		Location:        m.Location,
		Checksum:        m.Checksum,
		Fitted:          est.Fitted(),
		Explainable:     explainable,
		Features:        model.FeatureInfos(schema),
		Hyperparameters: est.Params(),
		Stages:          m.Pipeline.StageTypes(),
	}
}
