package dto

import (
	"maps"
	"slices"

	"github.com/twinrisk/twinrisk/internal/domain/model"
	"github.com/twinrisk/twinrisk/internal/domain/valueobject"
)

// FeatureInfoDTO describes one input feature.
type FeatureInfoDTO struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Domain      string `json:"domain" yaml:"domain"`
}

// ThresholdsDTO reports the active interpretation policy.
type ThresholdsDTO struct {
	DomainPolicy         string                           `json:"domain_policy" yaml:"domain_policy"`
	TierThresholds       valueobject.TierThresholds       `json:"tier_thresholds" yaml:"tier_thresholds"`
	ConfidenceThresholds valueobject.ConfidenceThresholds `json:"confidence_thresholds" yaml:"confidence_thresholds"`
}

// ModelInfoResponse is the output DTO of the GetModelInfo use case.
type ModelInfoResponse struct {
	Hyperparameters map[string]any   `json:"hyperparameters" yaml:"hyperparameters"`
	Features        []FeatureInfoDTO `json:"features" yaml:"features"`
	Stages          []string         `json:"stages" yaml:"stages"`
	Policy          ThresholdsDTO    `json:"policy" yaml:"policy"`
	ModelType       string           `json:"model_type" yaml:"model_type"`
	ModelVersion    string           `json:"model_version" yaml:"model_version"`
	Origin          string           `json:"origin" yaml:"origin"`
	Location        string           `json:"location,omitempty" yaml:"location,omitempty"`
	Checksum        string           `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	Fitted          bool             `json:"fitted" yaml:"fitted"`
	Explainable     bool             `json:"explainable" yaml:"explainable"`
}

// FromModelInfo maps a model snapshot and the active policy to the response DTO.
func FromModelInfo(info model.ModelInfo, policy ThresholdsDTO) ModelInfoResponse {
	features := make([]FeatureInfoDTO, 0, len(info.Features))
	for _, f := range info.Features {
		features = append(features, FeatureInfoDTO{Name: f.Name, Description: f.Description, Domain: f.Domain})
	}
	return ModelInfoResponse{
		ModelType:       info.ModelType,
		ModelVersion:    info.ModelVersion,
		Origin:          string(info.Origin),
		Location:        info.Location,
		Checksum:        info.Checksum,
		Fitted:          info.Fitted,
		Explainable:     info.Explainable,
		Features:        features,
		Hyperparameters: maps.Clone(info.Hyperparameters),
		Stages:          slices.Clone(info.Stages),
		Policy:          policy,
	}
}

// Clone returns a copy that shares no maps or slices with r.
func (r ModelInfoResponse) Clone() ModelInfoResponse {
	r.Hyperparameters = maps.Clone(r.Hyperparameters)
	r.Features = slices.Clone(r.Features)
	r.Stages = slices.Clone(r.Stages)
	return r
}
