package warden

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/zachmann/go-utils/duration"

	"github.com/wardenhq/warden/engine"
)

// CapabilityForceAssistance allows bypassing the assistance cooldown.
const CapabilityForceAssistance = "force_assistance"

// AssistanceConf configures the assistance request surface.
type AssistanceConf struct {
	Channel   string                  `yaml:"channel"`
	Thumbnail string                  `yaml:"thumbnail"`
	Cooldown  duration.DurationOption `yaml:"cooldown"`
	// Pings maps a priority (1-3) to the mention posted with the request.
	Pings map[int]string `yaml:"pings"`
}

// DefaultAssistancePings is used when no pings are configured.
var DefaultAssistancePings = map[int]string{
	1: "",
	2: "@here",
	3: "@everyone",
}

type assistanceRequest struct {
	Subject  string `json:"subject" form:"subject"`
	Priority int    `json:"priority" form:"priority"`
	Reason   string `json:"reason" form:"reason"`
}

// addAssistanceEndpoints wires assistance requests: a member calls for
// backup, the priority decides how loud the posted ping is, and a
// per-subject cooldown keeps the channel usable. The force variant is
// capability-gated and skips the cooldown.
func (w *Warden) addAssistanceEndpoints() {
	w.server.Post(
		"/assistance", func(ctx *fiber.Ctx) error {
			return w.handleAssistance(ctx, false)
		},
	)
	w.server.Post(
		"/assistance/force", func(ctx *fiber.Ctx) error {
			return w.handleAssistance(ctx, true)
		},
	)
}

func (w *Warden) handleAssistance(ctx *fiber.Ctx, force bool) error {
	var req assistanceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return engine.ValidationError("could not parse request body: " + err.Error())
	}
	if req.Subject == "" {
		return engine.ValidationError("required parameter 'subject' not given")
	}
	if req.Priority < 1 || req.Priority > 3 {
		return engine.ValidationError("priority must be between 1 and 3")
	}

	conf := w.conf.Assistance
	cd := conf.Cooldown.Duration()
	if cd <= 0 {
		cd = 6 * time.Hour
	}
	if force {
		ok, err := w.directory.HasCapability(req.Subject, CapabilityForceAssistance)
		if err != nil {
			return err
		}
		if !ok {
			return engine.AuthorizationError("missing capability '" + CapabilityForceAssistance + "'")
		}
	} else {
		remaining, err := w.cooldowns.Remaining(ctx.Context(), req.Subject)
		if err != nil {
			return err
		}
		if remaining > 0 {
			return engine.ConflictErrorFmt(
				"assistance already requested, try again in %s", remaining.Round(time.Second),
			)
		}
	}

	pings := conf.Pings
	if pings == nil {
		pings = DefaultAssistancePings
	}
	msg := engine.Message{
		Title: "Assistance Requested",
		Description: fmt.Sprintf(
			"Officer: <@%s>\nPriority: %d\nReason: %s", req.Subject, req.Priority, req.Reason,
		),
		Color:     engine.DefaultColor,
		Thumbnail: conf.Thumbnail,
		Ping:      pings[req.Priority],
	}
	if _, err := w.notifier.PostMessage(conf.Channel, msg); err != nil {
		return engine.DeliveryErrorFmt("could not post assistance request: %s", err.Error())
	}
	if !force {
		if err := w.cooldowns.Touch(ctx.Context(), req.Subject, cd); err != nil {
			return err
		}
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"posted": true})
}
