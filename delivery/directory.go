package delivery

import (
	"sync"

	arrays "github.com/adam-hanna/arrayOperations"
	log "github.com/sirupsen/logrus"

	"github.com/wardenhq/warden/engine"
)

// DirectoryConf is the static directory configuration: which roles each
// member holds and which roles carry which capability.
type DirectoryConf struct {
	// Members maps subject id to the roles the subject holds.
	Members map[string][]string `yaml:"members"`
	// Capabilities maps a capability tag to the roles that grant it.
	Capabilities map[string][]string `yaml:"capabilities"`
}

// StaticDirectory implements engine.Directory from static configuration.
// Role grants and revocations mutate the in-memory state only; the
// configuration file is not written back.
type StaticDirectory struct {
	mu           sync.RWMutex
	members      map[string][]string
	capabilities map[string][]string
	banned       map[string]bool
}

// NewStaticDirectory creates a StaticDirectory from the passed
// configuration.
func NewStaticDirectory(conf DirectoryConf) *StaticDirectory {
	d := &StaticDirectory{
		members:      make(map[string][]string),
		capabilities: conf.Capabilities,
		banned:       make(map[string]bool),
	}
	for id, roles := range conf.Members {
		d.members[id] = append([]string{}, roles...)
	}
	if d.capabilities == nil {
		d.capabilities = make(map[string][]string)
	}
	return d
}

// HasCapability implements the engine.Directory interface. A subject has
// a capability if it holds at least one of the roles granting it.
func (d *StaticDirectory) HasCapability(subjectID, capability string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	granting, ok := d.capabilities[capability]
	if !ok {
		return false, nil
	}
	return len(arrays.Intersect(d.members[subjectID], granting)) > 0, nil
}

// GrantRole implements the engine.Directory interface.
func (d *StaticDirectory) GrantRole(subjectID, roleID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.members[subjectID] {
		if r == roleID {
			return nil
		}
	}
	d.members[subjectID] = append(d.members[subjectID], roleID)
	return nil
}

// RevokeRole implements the engine.Directory interface.
func (d *StaticDirectory) RevokeRole(subjectID, roleID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	roles := d.members[subjectID]
	for i, r := range roles {
		if r == roleID {
			d.members[subjectID] = append(roles[:i], roles[i+1:]...)
			return nil
		}
	}
	return nil
}

// KickMember implements the engine.Directory interface.
func (d *StaticDirectory) KickMember(subjectID, reason string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.members, subjectID)
	log.WithFields(log.Fields{"subject": subjectID, "reason": reason}).Info("member kicked")
	return nil
}

// BanMember implements the engine.Directory interface.
func (d *StaticDirectory) BanMember(subjectID, reason string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.members, subjectID)
	d.banned[subjectID] = true
	log.WithFields(log.Fields{"subject": subjectID, "reason": reason}).Info("member banned")
	return nil
}

// Roles returns the roles a subject currently holds.
func (d *StaticDirectory) Roles(subjectID string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string{}, d.members[subjectID]...)
}

// Banned reports whether a subject has been banned.
func (d *StaticDirectory) Banned(subjectID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.banned[subjectID]
}

var _ engine.Directory = (*StaticDirectory)(nil)
var _ engine.Notifier = (*LogNotifier)(nil)
