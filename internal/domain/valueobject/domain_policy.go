package valueobject

import (
	"fmt"
	"strings"
)

// DomainPolicy decides what happens to a numeric value that parses correctly but
// falls outside its feature's declared range.
type DomainPolicy struct {
	value string
}

var (
	// DomainPolicyReject fails validation with a RangeError.
	DomainPolicyReject = DomainPolicy{value: "reject"}
	// DomainPolicyWarn passes the value through and reports a warning.
	DomainPolicyWarn = DomainPolicy{value: "warn"}
)

// DomainPolicyFromString parses "reject" or "warn" (case-insensitive). An empty
// string yields the default, DomainPolicyReject.
func DomainPolicyFromString(s string) (DomainPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return DomainPolicyReject, nil
	case "warn", "warning":
		return DomainPolicyWarn, nil
	default:
		return DomainPolicy{}, fmt.Errorf("invalid domain policy: %s", s)
	}
}

// String returns the string representation.
func (p DomainPolicy) String() string {
	return p.value
}

// Rejects reports whether out-of-domain values fail validation.
func (p DomainPolicy) Rejects() bool {
	return p.value != DomainPolicyWarn.value
}

// Equal checks equality with another DomainPolicy.
func (p DomainPolicy) Equal(other DomainPolicy) bool {
	return p.value == other.value
}
