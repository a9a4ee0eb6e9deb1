package model

import (
	"fmt"

	"github.com/twinrisk/twinrisk/internal/domain/valueobject"
)

// DomainWarning records a value accepted outside its declared domain.
type DomainWarning struct {
	Feature string
	Value   float64
	Domain  valueobject.ValueDomain
}

func (w DomainWarning) String() string {
	return fmt.Sprintf("%s: value %g outside expected range %s", w.Feature, w.Value, w.Domain)
}
