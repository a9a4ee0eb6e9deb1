package model

import (
	"fmt"

	"github.com/twinrisk/twinrisk/internal/domain/valueobject"
)

// Feature names, in no particular order. The canonical vector order is defined
// only by DefaultSchema.
const (
	FeatureGestationalAge            = "Gestational Age"
	FeatureChorionicity              = "Chorionicity"
	FeatureGestationalHypertension   = "GestationalHypertension"
	FeatureGestationalHypothyroidism = "GestationalHypothyroidism"
	FeatureIntrahepaticCholestasis   = "IntrahepaticCholestasis"
	FeatureGestationalAnemia         = "GestationalAnemia"
	FeatureMeconiumStainingIII       = "MeconiumStainingIII"
	FeatureFetalWeight               = "FetalWeight"
	FeatureNeonatalHypoglycemia      = "NeonatalHypoglycemia"
	FeatureCongenitalMalformation    = "CongenitalMalformation"
)

// FeatureSpec describes one input feature.
type FeatureSpec struct {
	Name        string
	Description string
	Domain      valueobject.ValueDomain
}

// FeatureSchema is the ordered, immutable list of features consumed by the model.
type FeatureSchema struct {
	specs []FeatureSpec
	index map[string]int
}

var defaultSchema = mustNewFeatureSchema([]FeatureSpec{
	{Name: FeatureGestationalAge, Description: "Gestational Age (weeks)", Domain: valueobject.ContinuousDomain(20, 45)},
	{Name: FeatureChorionicity, Description: "Chorionicity (0=Monochorionic, 1=Dichorionic)", Domain: valueobject.FlagDomain()},
	{Name: FeatureGestationalHypertension, Description: "Gestational Hypertension (0=No, 1=Yes)", Domain: valueobject.FlagDomain()},
	{Name: FeatureGestationalHypothyroidism, Description: "Gestational Hypothyroidism (0=No, 1=Yes)", Domain: valueobject.FlagDomain()},
	{Name: FeatureIntrahepaticCholestasis, Description: "Intrahepatic Cholestasis (0=No, 1=Yes)", Domain: valueobject.FlagDomain()},
	{Name: FeatureGestationalAnemia, Description: "Gestational Anemia (0=No, 1=Yes)", Domain: valueobject.FlagDomain()},
	{Name: FeatureMeconiumStainingIII, Description: "Meconium Staining Grade III (0=No, 1=Yes)", Domain: valueobject.FlagDomain()},
	{Name: FeatureFetalWeight, Description: "Fetal Weight (grams)", Domain: valueobject.ContinuousDomain(500, 5000)},
	{Name: FeatureNeonatalHypoglycemia, Description: "Neonatal Hypoglycemia (0=No, 1=Yes)", Domain: valueobject.FlagDomain()},
	{Name: FeatureCongenitalMalformation, Description: "Congenital Malformation (0=No, 1=Yes)", Domain: valueobject.FlagDomain()},
})

// DefaultSchema returns the canonical ten-feature schema. Its order is the
// vector order expected by every model artifact.
func DefaultSchema() *FeatureSchema {
	return defaultSchema
}

// NewFeatureSchema builds a schema from specs, rejecting empty or duplicate names.
func NewFeatureSchema(specs []FeatureSpec) (*FeatureSchema, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("feature schema requires at least one feature")
	}

	s := &FeatureSchema{
		specs: make([]FeatureSpec, len(specs)),
		index: make(map[string]int, len(specs)),
	}
	for i, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("feature %d has no name", i)
		}
		if _, dup := s.index[spec.Name]; dup {
			return nil, fmt.Errorf("duplicate feature name %q", spec.Name)
		}
		s.specs[i] = spec
		s.index[spec.Name] = i
	}

	return s, nil
}

func mustNewFeatureSchema(specs []FeatureSpec) *FeatureSchema {
	s, err := NewFeatureSchema(specs)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of features.
func (s *FeatureSchema) Len() int {
	return len(s.specs)
}

// Names returns the feature names in canonical order.
func (s *FeatureSchema) Names() []string {
	names := make([]string, len(s.specs))
	for i, spec := range s.specs {
		names[i] = spec.Name
	}
	return names
}

// Specs returns a copy of the feature specs in canonical order.
func (s *FeatureSchema) Specs() []FeatureSpec {
	out := make([]FeatureSpec, len(s.specs))
	copy(out, s.specs)
	return out
}

// At returns the FeatureSpec at position i.
func (s *FeatureSchema) At(i int) FeatureSpec {
	return s.specs[i]
}

// Lookup returns the FeatureSpec for a feature name.
func (s *FeatureSchema) Lookup(name string) (FeatureSpec, bool) {
	i, ok := s.index[name]
	if !ok {
		return FeatureSpec{}, false
	}
	return s.specs[i], true
}

// Index returns the canonical position of a feature name, or -1.
func (s *FeatureSchema) Index(name string) int {
	i, ok := s.index[name]
	if !ok {
		return -1
	}
	return i
}

// MatchesOrder reports whether names lists exactly this schema's features in
// canonical order.
func (s *FeatureSchema) MatchesOrder(names []string) bool {
	if len(names) != len(s.specs) {
		return false
	}
	for i, name := range names {
		if s.specs[i].Name != name {
			return false
		}
	}
	return true
}
