// Package bootstrap assembles the model context and domain services shared by
// the server and the operator CLI.
package bootstrap

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/twinrisk/twinrisk/internal/application/usecase"
	"github.com/twinrisk/twinrisk/internal/domain/model"
	"github.com/twinrisk/twinrisk/internal/domain/port"
	"github.com/twinrisk/twinrisk/internal/domain/service"
	"github.com/twinrisk/twinrisk/internal/infrastructure/config"
	"github.com/twinrisk/twinrisk/internal/infrastructure/filestore"
	"github.com/twinrisk/twinrisk/internal/infrastructure/ml"
	"github.com/twinrisk/twinrisk/internal/infrastructure/postgres"
)

// ArtifactSources lists where a model is looked for: the active database
// artifact when pool is non-nil, then each file path in order.
func ArtifactSources(pool *pgxpool.Pool, paths []string) []port.ArtifactSource {
	var sources []port.ArtifactSource
	if pool != nil {
		sources = append(sources, postgres.NewActiveArtifactSource(postgres.NewArtifactRepository(pool)))
	}
	for _, src := range filestore.Sources(paths) {
		sources = append(sources, src)
	}
	return sources
}

// LoadModelContext loads the first usable artifact, falling back to the
// default pipeline, and wraps it for inference and explanation.
func LoadModelContext(ctx context.Context, schema *model.FeatureSchema, logger *slog.Logger, sources ...port.ArtifactSource) usecase.ModelContext {
	loaded := ml.NewLoader(schema, logger, sources...).Load(ctx)
	return NewModelContext(schema, loaded)
}

// NewModelContext wraps an already loaded pipeline.
func NewModelContext(schema *model.FeatureSchema, loaded *ml.LoadedModel) usecase.ModelContext {
	return usecase.ModelContext{
		Schema:       schema,
		Model:        ml.NewPipelineModel(loaded.Pipeline),
		Attributions: ml.NewTreeExplainer(loaded.Pipeline),
		Info:         loaded.Info(schema),
	}
}

// Services builds the validator and interpreter configured by policy.
func Services(schema *model.FeatureSchema, policy config.Policy) (*service.InputValidator, *service.RiskInterpreter, error) {
	interp, err := service.NewRiskInterpreter(policy.TierThresholds, policy.ConfidenceThresholds)
	if err != nil {
		return nil, nil, err
	}
	return service.NewInputValidator(schema, policy.DomainPolicy), interp, nil
}
