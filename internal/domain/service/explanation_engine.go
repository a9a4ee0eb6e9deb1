package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/twinrisk/twinrisk/internal/domain/model"
	"github.com/twinrisk/twinrisk/internal/domain/port"
)

// ExplanationEngine ranks the contributions produced by an AttributionSource.
type ExplanationEngine struct {
	schema *model.FeatureSchema
	source port.AttributionSource
}

// NewExplanationEngine creates an engine. A nil source makes every Explain call
// return ExplanationUnavailableError.
func NewExplanationEngine(schema *model.FeatureSchema, source port.AttributionSource) *ExplanationEngine {
	return &ExplanationEngine{schema: schema, source: source}
}

// Explain returns one item per schema feature, ordered by magnitude descending
// with ties kept in schema order.
func (e *ExplanationEngine) Explain(v model.FeatureVector) (model.Explanation, error) {
	if e.source == nil {
		return model.Explanation{}, &model.ExplanationUnavailableError{Reason: "no attribution source for the loaded model"}
	}

	raw, err := e.source.Attribute(v)
	if err != nil {
		return model.Explanation{}, err
	}
	if len(raw.Contributions) != e.schema.Len() {
		return model.Explanation{}, &model.ExplanationUnavailableError{
			Reason: fmt.Sprintf("attribution source returned %d contributions for %d features", len(raw.Contributions), e.schema.Len()),
		}
	}

	items := make([]model.AttributionItem, e.schema.Len())
	for i, spec := range e.schema.Specs() {
		c := raw.Contributions[i]
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return model.Explanation{}, &model.ExplanationUnavailableError{
				Reason: fmt.Sprintf("non-finite contribution for %s", spec.Name),
			}
		}
		items[i] = model.AttributionItem{
			FeatureName:        spec.Name,
			FeatureDescription: spec.Description,
			RawValue:           v.At(i),
			Contribution:       c,
			Magnitude:          math.Abs(c),
		}
	}

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Magnitude > items[b].Magnitude
	})

	link := raw.Link
	if link == "" {
		link = model.LinkLogit
	}

	return model.Explanation{
		BaseValue: raw.BaseValue,
		Output:    raw.Output,
		Link:      link,
		Items:     items,
	}, nil
}
