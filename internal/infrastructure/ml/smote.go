package ml

// SMOTE records the oversampling step used when the model was trained. It
// never alters vectors at inference.
type SMOTE struct {
	RandomState      int    `json:"random_state"`
	KNeighbors       int    `json:"k_neighbors,omitempty"`
	SamplingStrategy string `json:"sampling_strategy,omitempty"`
}

func (s *SMOTE) Type() string { return StepSMOTE }

func (s *SMOTE) Resamples() {}

func (s *SMOTE) Params() map[string]any {
	p := map[string]any{"random_state": s.RandomState}
	if s.KNeighbors > 0 {
		p["k_neighbors"] = s.KNeighbors
	}
	if s.SamplingStrategy != "" {
		p["sampling_strategy"] = s.SamplingStrategy
	}
	return p
}
