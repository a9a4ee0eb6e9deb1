package config

import (
	"fmt"
	"os"
	"strings"
)

// DefaultModelPaths are the artifact locations tried when MODEL_PATHS is unset.
var DefaultModelPaths = []string{
	"best_model_gbm.json",
	"models/best_model_gbm.json",
	"../best_model_gbm.json",
}

// Config holds all configuration for the twinrisk service.
type Config struct {
	GRPCPort     string
	HTTPPort     string
	Environment  string
	LogLevel     string
	LogFormat    string
	ModelPaths   []string
	DatabaseURL  string
	KafkaBrokers []string
	KafkaTopic   string
	OTLPEndpoint string
	JWTSecret    string
	JWTPublicKey string
	JWTIssuer    string
	TLSCertFile  string
	TLSKeyFile   string
	PolicyFile   string
}

// Load reads configuration from environment variables with sensible defaults.
// DATABASE_URL and KAFKA_BROKERS are optional; leaving them empty disables the
// artifact store and event publishing.
func Load() *Config {
	return &Config{
		GRPCPort:     getEnv("GRPC_PORT", "8090"),
		HTTPPort:     getEnv("HTTP_PORT", "9090"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		ModelPaths:   splitList(getEnv("MODEL_PATHS", strings.Join(DefaultModelPaths, ","))),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "twinrisk.predictions"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTPublicKey: getEnv("JWT_PUBLIC_KEY_FILE", ""),
		JWTIssuer:    getEnv("JWT_ISSUER", "twinrisk"),
		TLSCertFile:  getEnv("GRPC_TLS_CERT_FILE", ""),
		TLSKeyFile:   getEnv("GRPC_TLS_KEY_FILE", ""),
		PolicyFile:   getEnv("POLICY_FILE", ""),
	}
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

// TLSEnabled reports whether both a certificate and a key are configured.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together")
	}
	if c.JWTSecret != "" && c.JWTPublicKey != "" {
		return fmt.Errorf("JWT_SECRET and JWT_PUBLIC_KEY_FILE are mutually exclusive")
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		return fmt.Errorf("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
