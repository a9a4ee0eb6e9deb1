package model_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/twinrisk/twinrisk/internal/domain/model"
	"github.com/twinrisk/twinrisk/internal/domain/valueobject"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want model.ErrorKind
	}{
		{"nil", nil, model.KindUnknown},
		{"plain", errors.New("boom"), model.KindUnknown},
		{"missing", &model.MissingFieldError{Feature: "x"}, model.KindMissingField},
		{"type", &model.TypeError{Feature: "x", RawValue: "abc"}, model.KindInvalidType},
		{"range", &model.RangeError{Feature: "x", Value: 9, Domain: valueobject.FlagDomain()}, model.KindOutOfRange},
		{"inference", &model.InferenceError{Reason: "bad"}, model.KindInferenceFailed},
		{"explanation", &model.ExplanationUnavailableError{Reason: "linear"}, model.KindExplanationUnavailable},
		{"wrapped", fmt.Errorf("validate: %w", &model.MissingFieldError{Feature: "x"}), model.KindMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.KindOf(tt.err))
		})
	}
}

func TestFieldErrors_NameTheFeature(t *testing.T) {
	var fe model.FieldError

	err := fmt.Errorf("wrap: %w", &model.TypeError{Feature: model.FeatureChorionicity, RawValue: "abc"})
	assert.True(t, errors.As(err, &fe))
	assert.Equal(t, model.FeatureChorionicity, fe.Field())
	assert.Contains(t, err.Error(), "Chorionicity")

	rangeErr := &model.RangeError{Feature: model.FeatureFetalWeight, Value: 6000, Domain: valueobject.ContinuousDomain(500, 5000)}
	assert.Equal(t, "field FetalWeight: value 6000 outside domain [500, 5000]", rangeErr.Error())
}

func TestInferenceError_Unwrap(t *testing.T) {
	cause := errors.New("shape mismatch")
	err := &model.InferenceError{Reason: "predict", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "inference failed: predict: shape mismatch", err.Error())
}
