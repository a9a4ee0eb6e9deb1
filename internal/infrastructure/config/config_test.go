package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twinrisk/twinrisk/internal/domain/valueobject"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"GRPC_PORT", "HTTP_PORT", "MODEL_PATHS", "DATABASE_URL", "KAFKA_BROKERS", "KAFKA_TOPIC", "POLICY_FILE"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := Load()
	assert.Equal(t, ":8090", cfg.GRPCAddress())
	assert.Equal(t, ":9090", cfg.HTTPAddress())
	assert.Equal(t, DefaultModelPaths, cfg.ModelPaths)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "twinrisk.predictions", cfg.KafkaTopic)
	assert.False(t, cfg.TLSEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GRPC_PORT", "7000")
	t.Setenv("MODEL_PATHS", " /a.json, ,/b.json.gz ")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("GRPC_TLS_CERT_FILE", "server.pem")
	t.Setenv("GRPC_TLS_KEY_FILE", "server-key.pem")

	cfg := Load()
	assert.Equal(t, ":7000", cfg.GRPCAddress())
	assert.Equal(t, []string{"/a.json", "/b.json.gz"}, cfg.ModelPaths)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.TLSEnabled())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "cert without key", cfg: Config{TLSCertFile: "c"}, wantErr: "must be set together"},
		{name: "both jwt modes", cfg: Config{JWTSecret: "s", JWTPublicKey: "k"}, wantErr: "mutually exclusive"},
		{name: "brokers without topic", cfg: Config{KafkaBrokers: []string{"k:9092"}}, wantErr: "KAFKA_TOPIC"},
		{name: "valid", cfg: Config{KafkaBrokers: []string{"k:9092"}, KafkaTopic: "t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParsePolicy(t *testing.T) {
	t.Run("empty document keeps defaults", func(t *testing.T) {
		p, err := ParsePolicy(nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultPolicy(), p)
	})

	t.Run("overlay", func(t *testing.T) {
		p, err := ParsePolicy([]byte(`
domain_policy: warn
tier_thresholds:
  medium: 0.25
  high: 0.6
`))
		require.NoError(t, err)
		assert.True(t, p.DomainPolicy.Equal(valueobject.DomainPolicyWarn))
		assert.Equal(t, valueobject.TierThresholds{Medium: 0.25, High: 0.6}, p.TierThresholds)
		assert.Equal(t, valueobject.DefaultConfidenceThresholds(), p.ConfidenceThresholds)
	})

	t.Run("partial section keeps the other threshold", func(t *testing.T) {
		p, err := ParsePolicy([]byte("tier_thresholds: {high: 0.8}\nconfidence_thresholds:\n  medium: 0.7\n"))
		require.NoError(t, err)
		assert.Equal(t, valueobject.TierThresholds{Medium: 0.3, High: 0.8}, p.TierThresholds)
		assert.Equal(t, valueobject.ConfidenceThresholds{High: 0.8, Medium: 0.7}, p.ConfidenceThresholds)
		assert.True(t, p.DomainPolicy.Equal(valueobject.DomainPolicyReject))
	})

	rejects := map[string]string{
		"unknown policy":       "domain_policy: ignore\n",
		"inverted tiers":       "tier_thresholds: {medium: 0.8, high: 0.3}\n",
		"partial inversion":    "tier_thresholds: {high: 0.2}\n",
		"confidence below 0.5": "confidence_thresholds: {medium: 0.4, high: 0.8}\n",
		"unknown key":          "tiers: {}\n",
	}
	for name, doc := range rejects {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePolicy([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadPolicy(t *testing.T) {
	p, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)

	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("confidence_thresholds: {medium: 0.55, high: 0.9}\n"), 0o600))
	p, err = LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ConfidenceThresholds{Medium: 0.55, High: 0.9}, p.ConfidenceThresholds)

	_, err = LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading policy file")
}
