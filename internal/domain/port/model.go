package port

import (
	"context"

	"github.com/twinrisk/twinrisk/internal/domain/model"
)

// RiskModel is a fitted binary classifier over a canonical feature vector.
// Implementations are read-only after construction and safe for concurrent use.
type RiskModel interface {
	// PredictProbability returns [P(class 0), P(class 1)].
	PredictProbability(v model.FeatureVector) ([2]float64, error)

	// PredictLabel returns the class chosen by the estimator's own decision rule.
	PredictLabel(v model.FeatureVector) (int, error)
}

// AttributionSource computes per-feature contributions for one vector.
type AttributionSource interface {
	Attribute(v model.FeatureVector) (model.RawAttribution, error)
}

// ArtifactSource yields a serialized model artifact. ErrArtifactNotFound means
// the source is configured but holds nothing usable.
type ArtifactSource interface {
	Name() string
	Fetch(ctx context.Context) (*model.ArtifactRecord, error)
}

// ArtifactRepository is the persistence port for model artifacts.
type ArtifactRepository interface {
	// Save stores a new artifact. If record.Active is set, all other artifacts
	// are deactivated in the same transaction.
	Save(ctx context.Context, record *model.ArtifactRecord) error

	// Activate marks one artifact as the active model.
	Activate(ctx context.Context, modelVersion string) error

	// FindActive returns the active artifact or ErrArtifactNotFound.
	FindActive(ctx context.Context) (*model.ArtifactRecord, error)

	// List returns artifact metadata, newest first, without payloads.
	List(ctx context.Context, limit int) ([]*model.ArtifactRecord, error)
}
