package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinrisk/twinrisk/internal/domain/valueobject"
)

func TestValueDomain_Contains(t *testing.T) {
	weeks := valueobject.ContinuousDomain(20, 45)
	flag := valueobject.FlagDomain()

	assert.True(t, weeks.Contains(20))
	assert.True(t, weeks.Contains(45))
	assert.True(t, weeks.Contains(37.5))
	assert.False(t, weeks.Contains(19.9))
	assert.False(t, weeks.Contains(45.1))

	assert.True(t, flag.Contains(0))
	assert.True(t, flag.Contains(1))
	assert.False(t, flag.Contains(0.5))
	assert.False(t, flag.Contains(2))

	var unbounded valueobject.ValueDomain
	assert.True(t, unbounded.IsZero())
	assert.True(t, unbounded.Contains(-1e9))
}

func TestValueDomain_String(t *testing.T) {
	assert.Equal(t, "[500, 5000]", valueobject.ContinuousDomain(500, 5000).String())
	assert.Equal(t, "[20, 45.5]", valueobject.ContinuousDomain(20, 45.5).String())
	assert.Equal(t, "{0, 1}", valueobject.FlagDomain().String())
	assert.Equal(t, "flag", valueobject.FlagDomain().Kind())
	assert.Equal(t, "continuous", valueobject.ContinuousDomain(0, 1).Kind())
}

func TestDomainPolicy_FromString(t *testing.T) {
	tests := []struct {
		input    string
		expected valueobject.DomainPolicy
		wantErr  bool
	}{
		{"", valueobject.DomainPolicyReject, false},
		{"reject", valueobject.DomainPolicyReject, false},
		{"WARN", valueobject.DomainPolicyWarn, false},
		{" warning ", valueobject.DomainPolicyWarn, false},
		{"ignore", valueobject.DomainPolicy{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			policy, err := valueobject.DomainPolicyFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(policy))
		})
	}

	assert.True(t, valueobject.DomainPolicyReject.Rejects())
	assert.False(t, valueobject.DomainPolicyWarn.Rejects())
}
