package valueobject

import (
	"fmt"
	"strconv"
)

type domainKind int

const (
	domainUnbounded domainKind = iota
	domainContinuous
	domainFlag
)

// ValueDomain declares the admissible values of a feature: either a closed
// numeric range or the binary flag set {0, 1}.
type ValueDomain struct {
	kind domainKind
	min  float64
	max  float64
}

// ContinuousDomain returns the closed range [min, max].
func ContinuousDomain(min, max float64) ValueDomain {
	return ValueDomain{kind: domainContinuous, min: min, max: max}
}

// FlagDomain returns the binary flag domain {0, 1}.
func FlagDomain() ValueDomain {
	return ValueDomain{kind: domainFlag, min: 0, max: 1}
}

// IsFlag reports whether the domain is {0, 1}.
func (d ValueDomain) IsFlag() bool {
	return d.kind == domainFlag
}

// IsZero reports whether the domain was never declared.
func (d ValueDomain) IsZero() bool {
	return d.kind == domainUnbounded
}

// Min returns the lower bound.
func (d ValueDomain) Min() float64 { return d.min }

// Max returns the upper bound.
func (d ValueDomain) Max() float64 { return d.max }

// Contains reports whether v is admissible.
func (d ValueDomain) Contains(v float64) bool {
	switch d.kind {
	case domainFlag:
		return v == 0 || v == 1
	case domainContinuous:
		return v >= d.min && v <= d.max
	default:
		return true
	}
}

// Kind returns "flag", "continuous" or "unbounded".
func (d ValueDomain) Kind() string {
	switch d.kind {
	case domainFlag:
		return "flag"
	case domainContinuous:
		return "continuous"
	default:
		return "unbounded"
	}
}

// String renders the domain as "{0, 1}" or "[min, max]".
func (d ValueDomain) String() string {
	switch d.kind {
	case domainFlag:
		return "{0, 1}"
	case domainContinuous:
		return fmt.Sprintf("[%s, %s]", formatBound(d.min), formatBound(d.max))
	default:
		return "(-inf, +inf)"
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
