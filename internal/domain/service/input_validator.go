package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/twinrisk/twinrisk/internal/domain/model"
	"github.com/twinrisk/twinrisk/internal/domain/valueobject"
)

// InputValidator turns a raw record keyed by feature name into a canonical
// FeatureVector. It holds no mutable state.
type InputValidator struct {
	schema *model.FeatureSchema
	policy valueobject.DomainPolicy
}

// NewInputValidator creates a validator for schema. A zero policy means reject.
func NewInputValidator(schema *model.FeatureSchema, policy valueobject.DomainPolicy) *InputValidator {
	if policy.String() == "" {
		policy = valueobject.DomainPolicyReject
	}
	return &InputValidator{schema: schema, policy: policy}
}

// Policy returns the out-of-domain policy in effect.
func (v *InputValidator) Policy() valueobject.DomainPolicy {
	return v.policy
}

// Validate checks every schema feature in canonical order and fails on the
// first problem. Keys not in the schema are ignored.
func (v *InputValidator) Validate(raw map[string]any) (model.FeatureVector, []model.DomainWarning, error) {
	values := make([]float64, v.schema.Len())
	var warnings []model.DomainWarning

	for i, spec := range v.schema.Specs() {
		rv, ok := raw[spec.Name]
		if !ok || isBlank(rv) {
			return model.FeatureVector{}, nil, &model.MissingFieldError{Feature: spec.Name}
		}

		f, ok := toFloat(rv)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return model.FeatureVector{}, nil, &model.TypeError{Feature: spec.Name, RawValue: rv}
		}

		if !spec.Domain.Contains(f) {
			// Flags outside {0, 1} cannot form a valid vector under any policy.
			if spec.Domain.IsFlag() || v.policy.Rejects() {
				return model.FeatureVector{}, nil, &model.RangeError{Feature: spec.Name, Value: f, Domain: spec.Domain}
			}
			warnings = append(warnings, model.DomainWarning{Feature: spec.Name, Value: f, Domain: spec.Domain})
		}

		values[i] = f
	}

	fv, err := model.NewFeatureVector(v.schema, values)
	if err != nil {
		return model.FeatureVector{}, nil, err
	}
	return fv, warnings, nil
}

func isBlank(rv any) bool {
	switch t := rv.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case json.Number:
		return strings.TrimSpace(string(t)) == ""
	default:
		return false
	}
}

func toFloat(rv any) (float64, bool) {
	switch t := rv.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case decimal.Decimal:
		f, _ := t.Float64()
		return f, true
	case json.Number:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(t)), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
