package warden

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wardenhq/warden/engine"
	"github.com/wardenhq/warden/storage/model"
)

type loaRequestRequest struct {
	Subject string `json:"subject" form:"subject"`
	Begin   string `json:"begin" form:"begin"`
	End     string `json:"end" form:"end"`
	Reason  string `json:"reason" form:"reason"`
}

type loaDecideRequest struct {
	Subject  string `json:"subject" form:"subject"`
	Actor    string `json:"actor" form:"actor"`
	Decision string `json:"decision" form:"decision"`
}

type loaExtendRequest struct {
	Subject string `json:"subject" form:"subject"`
	Actor   string `json:"actor" form:"actor"`
	NewEnd  string `json:"new_end" form:"new_end"`
}

// addLOAEndpoints wires the leave-of-absence command surface: members
// request for themselves, approvers decide, subjects extend.
func (w *Warden) addLOAEndpoints() {
	w.server.Post(
		"/loa/request", func(ctx *fiber.Ctx) error {
			var req loaRequestRequest
			if err := ctx.BodyParser(&req); err != nil {
				return engine.ValidationError("could not parse request body: " + err.Error())
			}
			if req.Subject == "" {
				return engine.ValidationError("required parameter 'subject' not given")
			}
			record, err := w.engine.Request(req.Subject, req.Begin, req.End, req.Reason)
			if err != nil {
				return err
			}
			return ctx.Status(fiber.StatusCreated).JSON(record)
		},
	)
	w.server.Post(
		"/loa/decide", func(ctx *fiber.Ctx) error {
			var req loaDecideRequest
			if err := ctx.BodyParser(&req); err != nil {
				return engine.ValidationError("could not parse request body: " + err.Error())
			}
			decision, err := engine.ParseDecision(req.Decision)
			if err != nil {
				return err
			}
			record, err := w.engine.Decide(model.KindLeaveOfAbsence, req.Subject, req.Actor, decision)
			if err != nil {
				return err
			}
			return ctx.JSON(record)
		},
	)
	w.server.Post(
		"/loa/extend", func(ctx *fiber.Ctx) error {
			var req loaExtendRequest
			if err := ctx.BodyParser(&req); err != nil {
				return engine.ValidationError("could not parse request body: " + err.Error())
			}
			record, err := w.engine.Extend(model.KindLeaveOfAbsence, req.Subject, req.Actor, req.NewEnd)
			if err != nil {
				return err
			}
			return ctx.JSON(record)
		},
	)
	w.server.Get(
		"/loa/check", func(ctx *fiber.Ctx) error {
			subject := ctx.Query("subject")
			actor := ctx.Query("actor", subject)
			if subject == "" {
				return engine.ValidationError("required parameter 'subject' not given")
			}
			report, err := w.engine.Check(model.KindLeaveOfAbsence, subject, actor)
			if err != nil {
				return err
			}
			return ctx.JSON(report)
		},
	)
}
