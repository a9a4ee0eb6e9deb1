package usecase

import (
	"github.com/twinrisk/twinrisk/internal/domain/model"
	"github.com/twinrisk/twinrisk/internal/domain/port"
)

// ModelContext is the immutable model state built once at startup and shared by
// all requests.
type ModelContext struct {
	Schema       *model.FeatureSchema
	Model        port.RiskModel
	Attributions port.AttributionSource
	Info         model.ModelInfo
}
