package model

import (
	"time"
)

// Authorization decisions
const (
	AuthzAccepted = "accepted"
	AuthzDenied   = "denied"
)

// AuthorizationEntry stores the discipline access level granted (or denied)
// to a subject. Only the latest decision per subject is kept.
type AuthorizationEntry struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updated_at"`

	SubjectID    string `gorm:"uniqueIndex" json:"subject_id"`
	Decision     string `json:"decision"`
	AccessLevel  int    `json:"access_level"`
	AuthorizedBy string `json:"authorized_by"`
}

// AuthzStore abstracts the discipline authorization registry.
type AuthzStore interface {
	// Set replaces any previous decision for the subject.
	Set(entry AuthorizationEntry) error
	// Level returns the access level of a subject with an accepted
	// decision; 0 when there is none.
	Level(subjectID string) (int, error)
	// List returns all current entries.
	List() ([]AuthorizationEntry, error)
	// Delete removes a subject's entry.
	Delete(subjectID string) error
}
