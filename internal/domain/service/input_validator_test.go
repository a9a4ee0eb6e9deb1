package service_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinrisk/twinrisk/internal/domain/model"
	"github.com/twinrisk/twinrisk/internal/domain/service"
	"github.com/twinrisk/twinrisk/internal/domain/valueobject"
)

func validRecord() map[string]any {
	return map[string]any{
		model.FeatureGestationalAge:            37.0,
		model.FeatureChorionicity:              1,
		model.FeatureGestationalHypertension:   0,
		model.FeatureGestationalHypothyroidism: 0,
		model.FeatureIntrahepaticCholestasis:   0,
		model.FeatureGestationalAnemia:         0,
		model.FeatureMeconiumStainingIII:       0,
		model.FeatureFetalWeight:               2500,
		model.FeatureNeonatalHypoglycemia:      0,
		model.FeatureCongenitalMalformation:    0,
	}
}

func newValidator(policy valueobject.DomainPolicy) *service.InputValidator {
	return service.NewInputValidator(model.DefaultSchema(), policy)
}

func TestInputValidator_Valid(t *testing.T) {
	v, warnings, err := newValidator(valueobject.DomainPolicyReject).Validate(validRecord())
	require.NoError(t, err)

	assert.Empty(t, warnings)
	assert.Equal(t, []float64{37, 1, 0, 0, 0, 0, 0, 2500, 0, 0}, v.Values())
}

func TestInputValidator_AcceptedRepresentations(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{"float64", 36.5, 36.5},
		{"float32", float32(36.5), 36.5},
		{"int", 36, 36},
		{"int64", int64(36), 36},
		{"uint8", uint8(36), 36},
		{"numeric string", "36.5", 36.5},
		{"padded string", "  36 ", 36},
		{"json.Number", json.Number("36.25"), 36.25},
		{"decimal", decimal.RequireFromString("36.75"), 36.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			rec[model.FeatureGestationalAge] = tt.raw

			v, _, err := newValidator(valueobject.DomainPolicyReject).Validate(rec)
			require.NoError(t, err)

			got, ok := v.Value(model.FeatureGestationalAge)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInputValidator_Missing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"absent", func(r map[string]any) { delete(r, model.FeatureGestationalAge) }},
		{"nil", func(r map[string]any) { r[model.FeatureGestationalAge] = nil }},
		{"empty string", func(r map[string]any) { r[model.FeatureGestationalAge] = "" }},
		{"whitespace", func(r map[string]any) { r[model.FeatureGestationalAge] = "   " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(rec)

			_, _, err := newValidator(valueobject.DomainPolicyReject).Validate(rec)

			var missing *model.MissingFieldError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, model.FeatureGestationalAge, missing.Feature)
		})
	}
}

func TestInputValidator_FirstMissingInSchemaOrder(t *testing.T) {
	rec := validRecord()
	delete(rec, model.FeatureCongenitalMalformation)
	delete(rec, model.FeatureChorionicity)

	_, _, err := newValidator(valueobject.DomainPolicyReject).Validate(rec)

	var missing *model.MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, model.FeatureChorionicity, missing.Feature)
}

func TestInputValidator_TypeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"text", "abc"},
		{"bool", true},
		{"slice", []int{1}},
		{"NaN", math.NaN()},
		{"Inf", math.Inf(-1)},
		{"NaN text", "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			rec[model.FeatureChorionicity] = tt.raw

			_, _, err := newValidator(valueobject.DomainPolicyReject).Validate(rec)

			var typeErr *model.TypeError
			require.True(t, errors.As(err, &typeErr))
			assert.Equal(t, model.FeatureChorionicity, typeErr.Feature)
		})
	}
}

func TestInputValidator_DomainPerFeature(t *testing.T) {
	type probe struct {
		inside  float64
		outside float64
	}
	probes := map[string]probe{
		model.FeatureGestationalAge:            {inside: 20, outside: 19.5},
		model.FeatureChorionicity:              {inside: 0, outside: 2},
		model.FeatureGestationalHypertension:   {inside: 1, outside: -1},
		model.FeatureGestationalHypothyroidism: {inside: 1, outside: 0.5},
		model.FeatureIntrahepaticCholestasis:   {inside: 0, outside: 3},
		model.FeatureGestationalAnemia:         {inside: 1, outside: 1.1},
		model.FeatureMeconiumStainingIII:       {inside: 0, outside: 7},
		model.FeatureFetalWeight:               {inside: 5000, outside: 5000.5},
		model.FeatureNeonatalHypoglycemia:      {inside: 1, outside: 2},
		model.FeatureCongenitalMalformation:    {inside: 0, outside: -0.1},
	}
	require.Len(t, probes, model.DefaultSchema().Len())

	for _, spec := range model.DefaultSchema().Specs() {
		p := probes[spec.Name]

		t.Run(spec.Name+"/inside", func(t *testing.T) {
			for _, policy := range []valueobject.DomainPolicy{valueobject.DomainPolicyReject, valueobject.DomainPolicyWarn} {
				rec := validRecord()
				rec[spec.Name] = p.inside

				_, warnings, err := newValidator(policy).Validate(rec)
				require.NoError(t, err)
				assert.Empty(t, warnings)
			}
		})

		t.Run(spec.Name+"/outside reject", func(t *testing.T) {
			rec := validRecord()
			rec[spec.Name] = p.outside

			_, _, err := newValidator(valueobject.DomainPolicyReject).Validate(rec)

			var rangeErr *model.RangeError
			require.True(t, errors.As(err, &rangeErr))
			assert.Equal(t, spec.Name, rangeErr.Feature)
			assert.Equal(t, p.outside, rangeErr.Value)
		})

		t.Run(spec.Name+"/outside warn", func(t *testing.T) {
			rec := validRecord()
			rec[spec.Name] = p.outside

			v, warnings, err := newValidator(valueobject.DomainPolicyWarn).Validate(rec)
			if spec.Domain.IsFlag() {
				var rangeErr *model.RangeError
				require.True(t, errors.As(err, &rangeErr))
				return
			}

			require.NoError(t, err)
			require.Len(t, warnings, 1)
			assert.Equal(t, spec.Name, warnings[0].Feature)
			got, _ := v.Value(spec.Name)
			assert.Equal(t, p.outside, got)
		})
	}
}

func TestInputValidator_IgnoresExtraKeys(t *testing.T) {
	rec := validRecord()
	rec["PatientName"] = "not used"

	_, _, err := newValidator(valueobject.DomainPolicyReject).Validate(rec)
	assert.NoError(t, err)
}

func TestInputValidator_ZeroPolicyRejects(t *testing.T) {
	v := service.NewInputValidator(model.DefaultSchema(), valueobject.DomainPolicy{})
	assert.Equal(t, valueobject.DomainPolicyReject, v.Policy())
}
