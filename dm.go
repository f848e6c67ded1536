package warden

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wardenhq/warden/engine"
)

// CapabilityDirectMessage allows sending one-off direct messages through
// the service.
const CapabilityDirectMessage = "direct_message"

// DMConf configures the direct-message tool.
type DMConf struct {
	// Capability overrides the capability gating the endpoint.
	Capability string `yaml:"capability"`
}

type dmRequest struct {
	Subject string `json:"subject" form:"subject"`
	Actor   string `json:"actor" form:"actor"`
	Body    string `json:"body" form:"body"`
}

// addDMEndpoint wires the one-off direct-message tool. An unreachable
// recipient is reported in the response body, not as an error status.
func (w *Warden) addDMEndpoint() {
	w.server.Post(
		"/dm", func(ctx *fiber.Ctx) error {
			var req dmRequest
			if err := ctx.BodyParser(&req); err != nil {
				return engine.ValidationError("could not parse request body: " + err.Error())
			}
			if req.Subject == "" || req.Body == "" {
				return engine.ValidationError("required parameters 'subject' and 'body' not given")
			}
			capability := w.conf.DM.Capability
			if capability == "" {
				capability = CapabilityDirectMessage
			}
			ok, err := w.directory.HasCapability(req.Actor, capability)
			if err != nil {
				return err
			}
			if !ok {
				return engine.AuthorizationError("missing capability '" + capability + "'")
			}
			err = w.notifier.SendDirect(req.Subject, engine.Message{Description: req.Body, Color: engine.DefaultColor})
			if err != nil {
				var deliveryErr engine.DeliveryError
				if errors.As(err, &deliveryErr) {
					return ctx.JSON(fiber.Map{"delivered": false, "reason": deliveryErr.Error()})
				}
				return err
			}
			return ctx.JSON(fiber.Map{"delivered": true})
		},
	)
}
