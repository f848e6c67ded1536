package warden

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wardenhq/warden/engine"
	"github.com/wardenhq/warden/storage/model"
)

type policyAddRequest struct {
	Subject string `json:"subject" form:"subject"`
	Actor   string `json:"actor" form:"actor"`
	Length  string `json:"length" form:"length"`
}

func parseKindParam(ctx *fiber.Ctx) (model.PolicyKind, error) {
	kind, err := model.ParsePolicyKind(ctx.Params("kind"))
	if err != nil {
		return 0, engine.ValidationError(err.Error())
	}
	return kind, nil
}

// addPolicyEndpoints wires issuing and checking of the skip-pending
// record kinds (zero-tolerance strikes and suspensions). The kind is a
// path parameter so both share one pair of handlers.
func (w *Warden) addPolicyEndpoints() {
	w.server.Post(
		"/policy/:kind", func(ctx *fiber.Ctx) error {
			kind, err := parseKindParam(ctx)
			if err != nil {
				return err
			}
			var req policyAddRequest
			if err = ctx.BodyParser(&req); err != nil {
				return engine.ValidationError("could not parse request body: " + err.Error())
			}
			if req.Subject == "" {
				return engine.ValidationError("required parameter 'subject' not given")
			}
			record, err := w.engine.AddPolicy(kind, req.Subject, req.Actor, req.Length)
			if err != nil {
				return err
			}
			return ctx.Status(fiber.StatusCreated).JSON(record)
		},
	)
	w.server.Get(
		"/policy/:kind/check", func(ctx *fiber.Ctx) error {
			kind, err := parseKindParam(ctx)
			if err != nil {
				return err
			}
			subject := ctx.Query("subject")
			actor := ctx.Query("actor", subject)
			if subject == "" {
				return engine.ValidationError("required parameter 'subject' not given")
			}
			report, err := w.engine.Check(kind, subject, actor)
			if err != nil {
				return err
			}
			return ctx.JSON(report)
		},
	)
}
