// Package adminapi provides the administrative HTTP API: record
// management, authorization levels, the audit log and user accounts.
package adminapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wardenhq/warden/engine"
	"github.com/wardenhq/warden/storage/model"
)

// Options controls optional features of the admin API registration.
type Options struct {
	// UsersEnabled controls whether the user management API is mounted.
	UsersEnabled bool
}

// Register mounts all admin API routes under the provided group.
func Register(r fiber.Router, eng *engine.Engine, storages model.Backends) error {
	return RegisterWithOptions(r, eng, storages, nil)
}

// RegisterWithOptions mounts the admin API routes honoring the passed
// Options; a nil Options enables everything.
func RegisterWithOptions(r fiber.Router, eng *engine.Engine, storages model.Backends, opts *Options) error {
	// Optional authentication middleware for all admin routes; without a
	// users store the API stays open.
	if storages.Users != nil {
		r.Use(authMiddleware(storages.Users))
	}

	registerRecords(r, eng, storages.Records)
	if storages.Authz != nil {
		registerAuthz(r, storages.Authz)
	}
	if storages.Events != nil {
		registerEvents(r, storages.Events)
	}
	if storages.Users != nil && (opts == nil || opts.UsersEnabled) {
		registerUsers(r, storages.Users)
	}
	return nil
}
