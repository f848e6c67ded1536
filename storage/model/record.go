package model

import (
	"time"
)

// MessageRef is an opaque reference to a previously posted notification
// message, allowing later in-place edits. The zero value means the
// notification has not been posted yet.
type MessageRef struct {
	ChannelID string `json:"channel_id" msgpack:"channel_id"`
	MessageID string `json:"message_id" msgpack:"message_id"`
}

// IsSet returns a bool indicating if the ref points at a posted message.
func (r MessageRef) IsSet() bool {
	return r.MessageID != ""
}

// TimedStatusRecord is a time-bounded entitlement record; there is at most
// one non-terminal record per (subject, policy kind) pair.
type TimedStatusRecord struct {
	SubjectID   string     `json:"subject_id" msgpack:"subject_id"`
	Kind        PolicyKind `json:"kind" msgpack:"kind"`
	Status      Status     `json:"status" msgpack:"status"`
	IssuedAt    time.Time  `json:"issued_at" msgpack:"issued_at"`
	WindowStart time.Time  `json:"window_start" msgpack:"window_start"`
	WindowEnd   time.Time  `json:"window_end" msgpack:"window_end"`
	Reason      string     `json:"reason,omitempty" msgpack:"reason,omitempty"`
	Message     MessageRef `json:"message,omitempty" msgpack:"message,omitempty"`
	IssuedBy    string     `json:"issued_by,omitempty" msgpack:"issued_by,omitempty"`
	DecidedBy   string     `json:"decided_by,omitempty" msgpack:"decided_by,omitempty"`
}

// ExpiredAt reports whether the record's validity window has passed at the
// given instant.
func (r TimedStatusRecord) ExpiredAt(now time.Time) bool {
	return now.After(r.WindowEnd)
}

// Remaining returns the time left in the validity window; negative when the
// window has passed.
func (r TimedStatusRecord) Remaining(now time.Time) time.Duration {
	return r.WindowEnd.Sub(now)
}
