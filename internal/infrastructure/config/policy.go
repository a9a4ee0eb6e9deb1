package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/twinrisk/twinrisk/internal/domain/valueobject"
)

// Policy groups the clinical interpretation settings that can be tuned without
// a new model artifact.
type Policy struct {
	DomainPolicy         valueobject.DomainPolicy
	TierThresholds       valueobject.TierThresholds
	ConfidenceThresholds valueobject.ConfidenceThresholds
}

// DefaultPolicy returns reject-out-of-domain with the default thresholds.
func DefaultPolicy() Policy {
	return Policy{
		DomainPolicy:         valueobject.DomainPolicyReject,
		TierThresholds:       valueobject.DefaultTierThresholds(),
		ConfidenceThresholds: valueobject.DefaultConfidenceThresholds(),
	}
}

type policyDocument struct {
	DomainPolicy         string                           `yaml:"domain_policy"`
	TierThresholds       valueobject.TierThresholds       `yaml:"tier_thresholds"`
	ConfidenceThresholds valueobject.ConfidenceThresholds `yaml:"confidence_thresholds"`
}

// LoadPolicy reads a YAML policy overlay. An empty path returns the defaults.
// Keys absent from the file, including single thresholds within a section,
// keep their default values.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("reading policy file: %w", err)
	}
	p, err := ParsePolicy(data)
	if err != nil {
		return Policy{}, fmt.Errorf("policy file %s: %w", path, err)
	}
	return p, nil
}

// ParsePolicy decodes and validates a YAML policy overlay.
func ParsePolicy(data []byte) (Policy, error) {
	defaults := DefaultPolicy()
	doc := policyDocument{
		TierThresholds:       defaults.TierThresholds,
		ConfidenceThresholds: defaults.ConfidenceThresholds,
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return Policy{}, fmt.Errorf("decoding policy: %w", err)
	}

	dp, err := valueobject.DomainPolicyFromString(doc.DomainPolicy)
	if err != nil {
		return Policy{}, err
	}
	p := Policy{
		DomainPolicy:         dp,
		TierThresholds:       doc.TierThresholds,
		ConfidenceThresholds: doc.ConfidenceThresholds,
	}

	if err := p.TierThresholds.Validate(); err != nil {
		return Policy{}, err
	}
	if err := p.ConfidenceThresholds.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}
