package engine

import (
	"time"

	"github.com/wardenhq/warden/storage/model"
)

// Message is the platform-neutral content of a notification. The delivery
// layer decides how it is rendered (embed, plain text, ...).
type Message struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description"`
	Color       string `json:"color,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	// Ping is an optional mention prefix ("@everyone", "@here") posted
	// alongside the message.
	Ping string `json:"ping,omitempty"`
	// Controls indicates that the posted message should carry the
	// approve/deny controls for the named subject; empty means none.
	Controls string `json:"controls,omitempty"`
}

// Notifier delivers notifications. All calls are best-effort from the
// engine's point of view; failures are logged and never roll back a
// persisted transition.
type Notifier interface {
	PostMessage(channelID string, msg Message) (model.MessageRef, error)
	EditMessage(ref model.MessageRef, msg Message) error
	SendDirect(subjectID string, msg Message) error
}

// Directory is the role/membership directory of the chat platform.
type Directory interface {
	GrantRole(subjectID, roleID string) error
	RevokeRole(subjectID, roleID string) error
	HasCapability(subjectID, capability string) (bool, error)
	KickMember(subjectID, reason string) error
	BanMember(subjectID, reason string) error
}

// Clock abstracts wall-clock time so that expiry logic is testable.
type Clock interface {
	Now() time.Time
}

// SystemClock is the Clock used in production.
type SystemClock struct{}

// Now implements Clock
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
