package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinrisk/twinrisk/internal/domain/valueobject"
)

func TestConfidenceFromProbabilities(t *testing.T) {
	thresholds := valueobject.DefaultConfidenceThresholds()

	tests := []struct {
		name     string
		expected valueobject.ConfidenceLevel
		p        [2]float64
	}{
		{name: "0.81 is HIGH", expected: valueobject.ConfidenceHigh, p: [2]float64{0.19, 0.81}},
		{name: "0.65 is MEDIUM", expected: valueobject.ConfidenceMedium, p: [2]float64{0.35, 0.65}},
		{name: "0.55 is LOW", expected: valueobject.ConfidenceLow, p: [2]float64{0.45, 0.55}},
		{name: "negative class dominates", expected: valueobject.ConfidenceHigh, p: [2]float64{0.9, 0.1}},
		{name: "exactly 0.8 is MEDIUM", expected: valueobject.ConfidenceMedium, p: [2]float64{0.2, 0.8}},
		{name: "exactly 0.6 is LOW", expected: valueobject.ConfidenceLow, p: [2]float64{0.4, 0.6}},
		{name: "coin flip is LOW", expected: valueobject.ConfidenceLow, p: [2]float64{0.5, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := valueobject.ConfidenceFromProbabilities(tt.p, thresholds)
			assert.True(t, tt.expected.Equal(result),
				"expected %s for %v, got %s", tt.expected.String(), tt.p, result.String())
		})
	}
}

func TestConfidenceThresholds_Validate(t *testing.T) {
	require.NoError(t, valueobject.DefaultConfidenceThresholds().Validate())
	assert.Error(t, valueobject.ConfidenceThresholds{High: 0.6, Medium: 0.8}.Validate())
	assert.Error(t, valueobject.ConfidenceThresholds{High: 0.8, Medium: 0.4}.Validate())
	assert.Error(t, valueobject.ConfidenceThresholds{High: 1, Medium: 0.6}.Validate())
}

func TestConfidenceLevel_FromString(t *testing.T) {
	level, err := valueobject.ConfidenceLevelFromString("MEDIUM")
	require.NoError(t, err)
	assert.Equal(t, valueobject.ConfidenceMedium, level)

	_, err = valueobject.ConfidenceLevelFromString("certain")
	require.Error(t, err)
}
