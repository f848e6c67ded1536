package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditEvent stores one engine transition or one-shot action for the
// permanent history; records themselves are deleted on terminal resolution,
// the event log is what remains.
type AuditEvent struct {
	gorm.Model
	EventID   string `gorm:"uniqueIndex;size:36"`
	SubjectID string `gorm:"index"`
	Kind      string `gorm:"index"`
	Type      string `gorm:"index"`
	Timestamp int64  `gorm:"index"`
	Status    *string
	Actor     *string
	Payload   datatypes.JSON
}

// EventStore abstracts appending and querying audit events.
type EventStore interface {
	// Append stores a new event.
	Append(event AuditEvent) error
	// List returns events, newest first, optionally filtered by subject
	// and/or kind (empty string matches all). limit <= 0 means no limit.
	List(subjectID, kind string, limit int) ([]AuditEvent, error)
}
