package adminapi

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wardenhq/warden/storage/model"
)

// registerEvents wires read access to the audit log.
func registerEvents(r fiber.Router, events model.EventStore) {
	r.Get("/events", func(c *fiber.Ctx) error {
		limit := 100
		if l := c.Query("limit"); l != "" {
			n, err := strconv.Atoi(l)
			if err != nil || n < 1 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be a positive number"})
			}
			limit = n
		}
		list, err := events.List(c.Query("subject"), c.Query("kind"), limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(list)
	})
}
