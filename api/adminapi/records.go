package adminapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wardenhq/warden/engine"
	"github.com/wardenhq/warden/storage/model"
)

// registerRecords wires record management: listing per kind, forced
// decisions and immediate expiry. Decisions go through the engine so the
// usual side effects fire; the actor given in the request is trusted
// because the admin API has its own authentication.
func registerRecords(r fiber.Router, eng *engine.Engine, records model.RecordStorageBackend) {
	g := r.Group("/records")

	g.Get("/:kind", func(c *fiber.Ctx) error {
		kind, err := model.ParsePolicyKind(c.Params("kind"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		list, err := records.List(kind)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if status := c.Query("status"); status != "" {
			want, err := model.ParseStatus(status)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
			filtered := make([]model.TimedStatusRecord, 0, len(list))
			for _, rec := range list {
				if rec.Status == want {
					filtered = append(filtered, rec)
				}
			}
			list = filtered
		}
		return c.JSON(list)
	})

	g.Get("/:kind/:subjectID", func(c *fiber.Ctx) error {
		kind, err := model.ParsePolicyKind(c.Params("kind"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		rec, err := records.Record(kind, c.Params("subjectID"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if rec == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no record"})
		}
		return c.JSON(rec)
	})

	type decideReq struct {
		Actor    string `json:"actor"`
		Decision string `json:"decision"`
	}
	g.Post("/:kind/:subjectID/decide", func(c *fiber.Ctx) error {
		kind, err := model.ParsePolicyKind(c.Params("kind"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		var req decideReq
		if err = c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		decision, err := engine.ParseDecision(req.Decision)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		rec, err := eng.Decide(kind, c.Params("subjectID"), req.Actor, decision)
		if err != nil {
			switch err.(type) {
			case model.NotFoundError:
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			case engine.ValidationError:
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			case engine.AuthorizationError:
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(rec)
	})

	g.Delete("/:kind/:subjectID", func(c *fiber.Ctx) error {
		kind, err := model.ParsePolicyKind(c.Params("kind"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if err = records.Delete(kind, c.Params("subjectID")); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	// Runs one sweep immediately instead of waiting for the next tick.
	g.Post("/expire", func(c *fiber.Ctx) error {
		eng.ExpireDue()
		return c.SendStatus(fiber.StatusNoContent)
	})
}
