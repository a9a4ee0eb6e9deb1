package ml

import (
	"fmt"
	"math"
)

// StandardScaler centres and scales each feature: (x - mean) / scale.
// A zero scale is treated as 1, matching how the scaler was fitted.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *StandardScaler) Type() string { return StepStandardScaler }

func (s *StandardScaler) Params() map[string]any {
	return map[string]any{"n_features": len(s.Mean)}
}

func (s *StandardScaler) validate(nFeatures int) error {
	if len(s.Mean) != nFeatures || len(s.Scale) != nFeatures {
		return fmt.Errorf("standard_scaler: expected %d means and scales, got %d and %d", nFeatures, len(s.Mean), len(s.Scale))
	}
	for i := range s.Mean {
		if math.IsNaN(s.Mean[i]) || math.IsInf(s.Mean[i], 0) || math.IsNaN(s.Scale[i]) || math.IsInf(s.Scale[i], 0) || s.Scale[i] < 0 {
			return fmt.Errorf("standard_scaler: invalid parameters for feature %d", i)
		}
	}
	return nil
}

// Transform returns a new scaled vector.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) {
		return nil, fmt.Errorf("standard_scaler: got %d features, fitted on %d", len(x), len(s.Mean))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}
