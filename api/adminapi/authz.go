package adminapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wardenhq/warden/storage/model"
)

// registerAuthz wires management of the discipline authorization levels.
func registerAuthz(r fiber.Router, authz model.AuthzStore) {
	g := r.Group("/authz")

	g.Get("/", func(c *fiber.Ctx) error {
		list, err := authz.List()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(list)
	})

	g.Get("/:subjectID", func(c *fiber.Ctx) error {
		level, err := authz.Level(c.Params("subjectID"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"subject_id": c.Params("subjectID"), "access_level": level})
	})

	type setReq struct {
		Decision    string `json:"decision"`
		AccessLevel int    `json:"access_level"`
		Actor       string `json:"actor"`
	}
	g.Put("/:subjectID", func(c *fiber.Ctx) error {
		var req setReq
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		if req.Decision != model.AuthzAccepted && req.Decision != model.AuthzDenied {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "decision must be 'accepted' or 'denied'"})
		}
		if req.Decision == model.AuthzAccepted && (req.AccessLevel < 1 || req.AccessLevel > 4) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "access_level must be between 1 and 4"})
		}
		entry := model.AuthorizationEntry{
			SubjectID:    c.Params("subjectID"),
			Decision:     req.Decision,
			AccessLevel:  req.AccessLevel,
			AuthorizedBy: req.Actor,
		}
		if err := authz.Set(entry); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(entry)
	})

	g.Delete("/:subjectID", func(c *fiber.Ctx) error {
		if err := authz.Delete(c.Params("subjectID")); err != nil {
			if _, ok := err.(model.NotFoundError); ok {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
