package model

import (
	"fmt"
)

// PolicyKind identifies which entitlement type a record represents.
type PolicyKind int

// Constants for PolicyKind
const (
	KindLeaveOfAbsence PolicyKind = iota
	KindZeroTolerance
	KindSuspension
)

// AllPolicyKinds lists every defined kind; the sweeper iterates over it.
var AllPolicyKinds = []PolicyKind{KindLeaveOfAbsence, KindZeroTolerance, KindSuspension}

// String returns the canonical string representation for the kind.
func (k PolicyKind) String() string {
	switch k {
	case KindLeaveOfAbsence:
		return "loa"
	case KindZeroTolerance:
		return "ztp"
	case KindSuspension:
		return "suspension"
	default:
		return "unknown"
	}
}

// Valid reports whether the kind is one of the defined constants.
func (k PolicyKind) Valid() bool {
	switch k {
	case KindLeaveOfAbsence, KindZeroTolerance, KindSuspension:
		return true
	default:
		return false
	}
}

// MarshalJSON encodes the kind as a JSON string.
func (k PolicyKind) MarshalJSON() ([]byte, error) {
	return []byte("\"" + k.String() + "\""), nil
}

// UnmarshalJSON decodes the kind from a JSON string.
func (k *PolicyKind) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("policy kind must be a JSON string")
	}
	pk, err := ParsePolicyKind(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*k = pk
	return nil
}

// ParsePolicyKind converts a string to a PolicyKind, returning an error for
// invalid values.
func ParsePolicyKind(v string) (PolicyKind, error) {
	switch v {
	case "loa":
		return KindLeaveOfAbsence, nil
	case "ztp":
		return KindZeroTolerance, nil
	case "suspension":
		return KindSuspension, nil
	}
	return 0, fmt.Errorf("invalid policy kind: %s", v)
}
