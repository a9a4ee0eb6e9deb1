package model

import (
	"fmt"
	"math"
)

// FeatureVector is a validated, canonically ordered numeric encoding of one
// patient record. The zero value is empty and invalid for inference.
type FeatureVector struct {
	schema *FeatureSchema
	values []float64
}

// NewFeatureVector checks the vector invariants: one finite value per schema
// feature, with flag features restricted to {0, 1}.
func NewFeatureVector(schema *FeatureSchema, values []float64) (FeatureVector, error) {
	if schema == nil {
		return FeatureVector{}, fmt.Errorf("feature schema is required")
	}
	if len(values) != schema.Len() {
		return FeatureVector{}, fmt.Errorf("feature vector has %d values, schema declares %d", len(values), schema.Len())
	}

	for i, v := range values {
		spec := schema.At(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return FeatureVector{}, &TypeError{Feature: spec.Name, RawValue: v}
		}
		if spec.Domain.IsFlag() && !spec.Domain.Contains(v) {
			return FeatureVector{}, &RangeError{Feature: spec.Name, Value: v, Domain: spec.Domain}
		}
	}

	owned := make([]float64, len(values))
	copy(owned, values)

	return FeatureVector{schema: schema, values: owned}, nil
}

// Schema returns the schema the vector is aligned to.
func (v FeatureVector) Schema() *FeatureSchema { return v.schema }

// Len returns the number of values.
func (v FeatureVector) Len() int { return len(v.values) }

// At returns the value at canonical position i.
func (v FeatureVector) At(i int) float64 { return v.values[i] }

// Values returns a copy of the values in canonical order.
func (v FeatureVector) Values() []float64 {
	out := make([]float64, len(v.values))
	copy(out, v.values)
	return out
}

// Value returns the value of the named feature.
func (v FeatureVector) Value(name string) (float64, bool) {
	if v.schema == nil {
		return 0, false
	}
	i := v.schema.Index(name)
	if i < 0 {
		return 0, false
	}
	return v.values[i], true
}
