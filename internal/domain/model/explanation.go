package model

import "math"

// Link names the function mapping the attribution space to the risk score.
type Link string

const (
	// LinkLogit means attributions are in log-odds; the score is sigmoid(sum).
	LinkLogit Link = "logit"
	// LinkIdentity means attributions sum directly to the score.
	LinkIdentity Link = "identity"
)

// Apply maps a value from attribution space to probability space.
func (l Link) Apply(x float64) float64 {
	if l == LinkIdentity {
		return x
	}
	return 1 / (1 + math.Exp(-x))
}

// RawAttribution is what an attribution source produces for one vector:
// contributions index-aligned to the schema, in the model's margin space.
type RawAttribution struct {
	BaseValue     float64
	Output        float64
	Link          Link
	Contributions []float64
}

// AttributionItem is the signed contribution of one feature.
type AttributionItem struct {
	FeatureName        string
	FeatureDescription string
	RawValue           float64
	Contribution       float64
	Magnitude          float64
}

// Explanation is a ranked list of attributions together with the baseline they
// are relative to.
type Explanation struct {
	BaseValue float64
	Output    float64
	Link      Link
	Items     []AttributionItem
}

// Sum returns the total of all contributions.
func (e Explanation) Sum() float64 {
	var s float64
	for _, it := range e.Items {
		s += it.Contribution
	}
	return s
}

// Reconstructed returns BaseValue plus the sum of contributions, which equals
// Output up to floating-point error.
func (e Explanation) Reconstructed() float64 {
	return e.BaseValue + e.Sum()
}

// Probability maps the reconstructed output through the link.
func (e Explanation) Probability() float64 {
	return e.Link.Apply(e.Reconstructed())
}
