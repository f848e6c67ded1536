package warden

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/wardenhq/warden/engine"
)

// MembershipConf configures the join/leave notification surface.
type MembershipConf struct {
	Channel   string `yaml:"channel"`
	Thumbnail string `yaml:"thumbnail"`
}

type membershipRequest struct {
	Subject     string `json:"subject" form:"subject"`
	Event       string `json:"event" form:"event"`
	MemberCount int    `json:"member_count" form:"member_count"`
}

// addMembershipEndpoint wires join/leave notifications.
func (w *Warden) addMembershipEndpoint() {
	w.server.Post(
		"/membership", func(ctx *fiber.Ctx) error {
			var req membershipRequest
			if err := ctx.BodyParser(&req); err != nil {
				return engine.ValidationError("could not parse request body: " + err.Error())
			}
			if req.Subject == "" {
				return engine.ValidationError("required parameter 'subject' not given")
			}
			var title, desc string
			switch req.Event {
			case "join":
				title = "Member Joined"
				desc = fmt.Sprintf("<@%s> joined the community.", req.Subject)
			case "leave":
				title = "Member Left"
				desc = fmt.Sprintf("<@%s> left the community.", req.Subject)
			default:
				return engine.ValidationErrorFmt("unknown membership event '%s'", req.Event)
			}
			if req.MemberCount > 0 {
				desc += fmt.Sprintf("\nWe are now %d members.", req.MemberCount)
			}
			msg := engine.Message{
				Title:       title,
				Description: desc,
				Color:       engine.DefaultColor,
				Thumbnail:   w.conf.Membership.Thumbnail,
			}
			if _, err := w.notifier.PostMessage(w.conf.Membership.Channel, msg); err != nil {
				return engine.DeliveryErrorFmt("could not post membership notification: %s", err.Error())
			}
			return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"posted": true})
		},
	)
}
