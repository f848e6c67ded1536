package warden

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wardenhq/warden/engine"
)

// addDisciplineEndpoint wires the discipline action surface.
func (w *Warden) addDisciplineEndpoint() {
	w.server.Post(
		"/discipline", func(ctx *fiber.Ctx) error {
			var req engine.DisciplineRequest
			if err := ctx.BodyParser(&req); err != nil {
				return engine.ValidationError("could not parse request body: " + err.Error())
			}
			if err := w.engine.Discipline(req); err != nil {
				return err
			}
			return ctx.JSON(fiber.Map{"issued": true})
		},
	)
}
