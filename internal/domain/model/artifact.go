package model

import (
	"time"

	"github.com/google/uuid"
)

// ArtifactOrigin describes where a loaded model came from.
type ArtifactOrigin string

const (
	OriginDatabase ArtifactOrigin = "database"
	OriginFile     ArtifactOrigin = "file"
	OriginDefault  ArtifactOrigin = "default"
)

// ArtifactRecord is a stored, serialized model artifact.
type ArtifactRecord struct {
	ID           uuid.UUID
	ModelVersion string
	Checksum     string
	Payload      []byte
	Active       bool
	CreatedAt    time.Time
	Origin       ArtifactOrigin
	// Location is the file path or database ID the payload was read from.
	Location string
}

// FeatureInfo is a read-only description of one schema feature.
type FeatureInfo struct {
	Name        string
	Description string
	Domain      string
}

// ModelInfo is a static snapshot of the loaded model.
type ModelInfo struct {
	ModelType       string
	ModelVersion    string
	Origin          ArtifactOrigin
	Location        string
	Checksum        string
	Fitted          bool
	Explainable     bool
	Features        []FeatureInfo
	Hyperparameters map[string]any
	Stages          []string
}

// FeatureInfos describes every feature of the schema in canonical order.
func FeatureInfos(s *FeatureSchema) []FeatureInfo {
	out := make([]FeatureInfo, 0, s.Len())
	for _, spec := range s.Specs() {
		out = append(out, FeatureInfo{
			Name:        spec.Name,
			Description: spec.Description,
			Domain:      spec.Domain.String(),
		})
	}
	return out
}
