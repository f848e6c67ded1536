package model

import (
	"fmt"
)

// Status is a type for holding the lifecycle state of a timed status
// record, e.g. "pending" or "active"
type Status int

// Constants for Status
const (
	StatusPending Status = iota
	StatusApproved
	StatusDenied
	StatusActive
	StatusExpired
	StatusCleared
)

// String returns the canonical string representation for the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusDenied:
		return "denied"
	case StatusActive:
		return "active"
	case StatusExpired:
		return "expired"
	case StatusCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Valid reports whether the status is one of the defined constants.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDenied, StatusActive, StatusExpired, StatusCleared:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further engine-driven transition can leave
// this status; terminal records are removed from the store by the sweeper.
func (s Status) Terminal() bool {
	return s == StatusExpired || s == StatusCleared
}

// MarshalJSON encodes the status as a JSON string.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte("\"" + s.String() + "\""), nil
}

// UnmarshalJSON decodes the status from a JSON string.
func (s *Status) UnmarshalJSON(b []byte) error {
	// Expect a quoted string
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("status must be a JSON string")
	}
	val := string(b[1 : len(b)-1])
	ps, err := ParseStatus(val)
	if err != nil {
		return err
	}
	*s = ps
	return nil
}

// ParseStatus converts a string to a Status, returning an error for invalid values.
func ParseStatus(v string) (Status, error) {
	switch v {
	case "pending":
		return StatusPending, nil
	case "approved":
		return StatusApproved, nil
	case "denied":
		return StatusDenied, nil
	case "active":
		return StatusActive, nil
	case "expired":
		return StatusExpired, nil
	case "cleared":
		return StatusCleared, nil
	}
	return 0, fmt.Errorf("invalid status: %s", v)
}
